package search

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/gifr/internal/history"
	"github.com/pders01/gifr/internal/storage"
)

// historyIndex is an in-memory full-text index over the titles of every
// Gif held in history. Documents are keyed by Gif ID, so a Gif returned
// for several queries is indexed once with the query that stored it last.
type historyIndex struct {
	idx bleve.Index

	mu   sync.RWMutex
	gifs map[string]*storage.Gif
}

func newHistoryIndex() (*historyIndex, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating history index: %w", err)
	}
	return &historyIndex{idx: idx, gifs: make(map[string]*storage.Gif)}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	query := bleve.NewTextFieldMapping()
	query.Analyzer = standard.Name
	query.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("query", query)

	im.DefaultMapping = dm
	return im
}

func (h *historyIndex) reindexAll(entries []history.Entry) error {
	batch := h.idx.NewBatch()
	h.mu.Lock()
	for _, e := range entries {
		for _, g := range e.Gifs {
			h.gifs[g.ID] = g
			if err := batch.Index(g.ID, document(e.Query, g)); err != nil {
				h.mu.Unlock()
				return fmt.Errorf("indexing %s: %w", g.ID, err)
			}
		}
	}
	h.mu.Unlock()
	return h.idx.Batch(batch)
}

// replace swaps the documents previously stored for query for gifs.
// entries is the history after the change: a replaced Gif that another
// query still holds is re-indexed under that query, any other is removed.
func (h *historyIndex) replace(query string, previous, gifs []*storage.Gif, entries []history.Entry) error {
	type holder struct {
		query string
		gif   *storage.Gif
	}
	held := make(map[string]holder)
	for _, e := range entries {
		for _, g := range e.Gifs {
			held[g.ID] = holder{query: e.Query, gif: g}
		}
	}
	current := make(map[string]bool, len(gifs))
	for _, g := range gifs {
		current[g.ID] = true
	}

	batch := h.idx.NewBatch()
	h.mu.Lock()
	for _, g := range previous {
		if current[g.ID] {
			continue
		}
		other, ok := held[g.ID]
		if !ok {
			batch.Delete(g.ID)
			delete(h.gifs, g.ID)
			continue
		}
		h.gifs[g.ID] = other.gif
		if err := batch.Index(g.ID, document(other.query, other.gif)); err != nil {
			h.mu.Unlock()
			return fmt.Errorf("indexing %s: %w", g.ID, err)
		}
	}
	for _, g := range gifs {
		h.gifs[g.ID] = g
		if err := batch.Index(g.ID, document(query, g)); err != nil {
			h.mu.Unlock()
			return fmt.Errorf("indexing %s: %w", g.ID, err)
		}
	}
	h.mu.Unlock()
	return h.idx.Batch(batch)
}

func document(query string, g *storage.Gif) map[string]any {
	return map[string]any{
		"title": g.Title,
		"query": query,
	}
}

// find matches each token of term against titles and, with lower weight,
// the stored query.
func (h *historyIndex) find(term string, limit int) ([]*storage.Gif, error) {
	tokens := tokenize(term)
	if len(tokens) == 0 || limit <= 0 {
		return []*storage.Gif{}, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(tok)
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qq := bleve.NewMatchQuery(tok)
		qq.SetField("query")
		qq.SetBoost(1.0)
		qs = append(qs, qq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	res, err := h.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching history index: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*storage.Gif, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if g, ok := h.gifs[hit.ID]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// docCount reports total documents in the index.
func (h *historyIndex) docCount() (int, error) {
	n, err := h.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (h *historyIndex) close() error {
	return h.idx.Close()
}

// tokenize lower-cases text and splits it on anything that is not a
// letter or digit. Single characters are dropped.
func tokenize(text string) []string {
	var terms []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 1 {
			terms = append(terms, current.String())
		}
		current.Reset()
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return terms
}
