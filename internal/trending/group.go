package trending

import "github.com/pders01/gifr/internal/storage"

// Group splits items into consecutive rows of size; the last row holds
// the remainder. Rows share backing storage with a private copy of items,
// never with the caller's slice.
func Group(items []*storage.Gif, size int) [][]*storage.Gif {
	if size <= 0 {
		size = GroupSize
	}
	if len(items) == 0 {
		return [][]*storage.Gif{}
	}

	owned := append([]*storage.Gif(nil), items...)
	groups := make([][]*storage.Gif, 0, (len(owned)+size-1)/size)
	for i := 0; i < len(owned); i += size {
		end := i + size
		if end > len(owned) {
			end = len(owned)
		}
		groups = append(groups, owned[i:end:end])
	}
	return groups
}
