package giphy

import "github.com/pders01/gifr/internal/storage"

// MapItems converts raw API items into Gifs, preserving order. A single
// item without an id, preview or original URL rejects the whole batch.
func MapItems(items []Item) ([]*storage.Gif, error) {
	gifs := make([]*storage.Gif, 0, len(items))
	for i := range items {
		g, err := mapItem(i, &items[i])
		if err != nil {
			return nil, err
		}
		gifs = append(gifs, g)
	}
	return gifs, nil
}

func mapItem(index int, it *Item) (*storage.Gif, error) {
	if it.ID == "" {
		return nil, &MappingError{Index: index, Field: "id"}
	}

	preview := previewURL(&it.Images)
	if preview == "" {
		return nil, &MappingError{Index: index, ID: it.ID, Field: "images.downsized_medium.url"}
	}
	if it.Images.Original == nil || it.Images.Original.URL == "" {
		return nil, &MappingError{Index: index, ID: it.ID, Field: "images.original.url"}
	}

	return &storage.Gif{
		ID:      it.ID,
		Title:   it.Title,
		URL:     preview,
		FullURL: it.Images.Original.URL,
	}, nil
}

func previewURL(img *Images) string {
	if img.DownsizedMedium != nil && img.DownsizedMedium.URL != "" {
		return img.DownsizedMedium.URL
	}
	if img.FixedWidth != nil {
		return img.FixedWidth.URL
	}
	return ""
}
