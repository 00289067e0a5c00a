package giphy

// Item is one raw result record as returned by the API. Only the fields
// gifr consumes are decoded.
type Item struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug,omitempty"`
	Rating string `json:"rating,omitempty"`
	Images Images `json:"images"`
}

// Images holds the renditions gifr uses. Missing renditions decode as nil.
type Images struct {
	Original        *Rendition `json:"original,omitempty"`
	DownsizedMedium *Rendition `json:"downsized_medium,omitempty"`
	FixedWidth      *Rendition `json:"fixed_width,omitempty"`
}

type Rendition struct {
	URL    string `json:"url"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// Response is the envelope shared by the trending and search endpoints.
type Response struct {
	Data       []Item     `json:"data"`
	Pagination Pagination `json:"pagination"`
	Meta       Meta       `json:"meta"`
}

type Pagination struct {
	TotalCount int `json:"total_count"`
	Count      int `json:"count"`
	Offset     int `json:"offset"`
}

type Meta struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}
