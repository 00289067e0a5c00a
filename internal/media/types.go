package media

import (
	_ "embed"
	"fmt"
	"net/url"
	"path"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed media_types.toml
var mediaTypesTOML []byte

// Kind is the broad category of a media URL.
type Kind int

const (
	KindImage Kind = iota
	KindVideo
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

type kindRules struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type typesTable struct {
	Video     kindRules                 `toml:"video"`
	Image     kindRules                 `toml:"image"`
	Platforms map[string]platformOpener `toml:"platforms"`
}

type platformOpener struct {
	DefaultOpener string `toml:"default_opener"`
}

// Detector classifies URLs using the embedded extension table.
type Detector struct {
	table typesTable
}

func NewDetector() (*Detector, error) {
	var table typesTable
	if _, err := toml.Decode(string(mediaTypesTOML), &table); err != nil {
		return nil, fmt.Errorf("parsing media_types.toml: %w", err)
	}
	return &Detector{table: table}, nil
}

// Detect looks at the path extension first and falls back to URL
// patterns. Query strings and fragments are ignored.
func (d *Detector) Detect(rawURL string) Kind {
	lower := strings.ToLower(rawURL)

	p := lower
	if u, err := url.Parse(lower); err == nil {
		p = u.Path
	}
	if ext := strings.TrimPrefix(path.Ext(p), "."); ext != "" {
		if contains(d.table.Video.Extensions, ext) {
			return KindVideo
		}
		if contains(d.table.Image.Extensions, ext) {
			return KindImage
		}
	}

	if matchesAny(lower, d.table.Video.URLPatterns) {
		return KindVideo
	}
	if matchesAny(lower, d.table.Image.URLPatterns) {
		return KindImage
	}
	return KindUnknown
}

// DefaultOpener returns the platform's generic opener.
func (d *Detector) DefaultOpener() string {
	if p, ok := d.table.Platforms[runtime.GOOS]; ok && p.DefaultOpener != "" {
		return p.DefaultOpener
	}
	if p, ok := d.table.Platforms["fallback"]; ok && p.DefaultOpener != "" {
		return p.DefaultOpener
	}
	return "open"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func matchesAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
