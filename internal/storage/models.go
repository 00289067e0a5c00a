package storage

// Gif is one animated image result. URL is the preview rendition shown in
// lists and grids, FullURL the original rendition opened on demand.
type Gif struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	FullURL string `json:"full_url"`
}

// DisplayTitle falls back to the ID for untitled results, which the
// upstream returns frequently.
func (g *Gif) DisplayTitle() string {
	if g.Title != "" {
		return g.Title
	}
	return g.ID
}
