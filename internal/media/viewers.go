package media

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/gifr/internal/debuglog"
)

//go:embed viewers.toml
var viewersTOML []byte

// ViewerDefinition describes how to invoke one external viewer.
type ViewerDefinition struct {
	Description string `toml:"description"`
	// Command overrides the executable when the viewer name is not a
	// program, e.g. the Windows "start" builtin.
	Command   string   `toml:"command,omitempty"`
	Platforms []string `toml:"platforms"`
	Image     *ArgSet  `toml:"image,omitempty"`
	Video     *ArgSet  `toml:"video,omitempty"`
}

// ArgSet holds the arguments placed before the URL.
type ArgSet struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

type viewersFile struct {
	Viewers map[string]ViewerDefinition `toml:"viewers"`
}

var (
	ErrUnsupportedPlatform = errors.New("viewer not supported on this platform")
	ErrUnsupportedKind     = errors.New("viewer does not handle this media kind")
)

// Registry resolves viewer names to commands.
type Registry struct {
	viewers map[string]ViewerDefinition
}

// NewRegistry loads the embedded definitions and then merges each
// readable file in overrides on top. Unreadable or invalid override files
// are skipped.
func NewRegistry(overrides ...string) (*Registry, error) {
	var builtin viewersFile
	if err := toml.Unmarshal(viewersTOML, &builtin); err != nil {
		return nil, fmt.Errorf("parsing viewers.toml: %w", err)
	}
	r := &Registry{viewers: builtin.Viewers}
	if r.viewers == nil {
		r.viewers = make(map[string]ViewerDefinition)
	}

	for _, path := range overrides {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var user viewersFile
		if err := toml.Unmarshal(data, &user); err != nil {
			debuglog.Warnf("media: ignoring %s: %v", path, err)
			continue
		}
		for name, def := range user.Viewers {
			r.viewers[name] = def
		}
	}
	return r, nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (ViewerDefinition, bool) {
	def, ok := r.viewers[name]
	return def, ok
}

// Command builds the invocation of viewer for target. Unknown viewers are
// run with the URL as their only argument.
func (r *Registry) Command(viewer string, kind Kind, target string) (*exec.Cmd, error) {
	def, ok := r.viewers[viewer]
	if !ok {
		return exec.Command(viewer, target), nil
	}
	if !contains(def.Platforms, runtime.GOOS) {
		return nil, fmt.Errorf("%s: %w", viewer, ErrUnsupportedPlatform)
	}

	var set *ArgSet
	switch kind {
	case KindImage:
		set = def.Image
	case KindVideo:
		set = def.Video
	default:
		// Unknown kinds go to whatever the viewer handles.
		set = def.Image
		if set == nil {
			set = def.Video
		}
	}
	if set == nil {
		return nil, fmt.Errorf("%s (%s): %w", viewer, kind, ErrUnsupportedKind)
	}

	name := viewer
	if def.Command != "" {
		name = def.Command
	}
	args := append(append([]string{}, set.platformArgs()...), target)
	return exec.Command(name, args...), nil
}

func (s *ArgSet) platformArgs() []string {
	switch runtime.GOOS {
	case "darwin":
		if len(s.ArgsDarwin) > 0 {
			return s.ArgsDarwin
		}
	case "linux":
		if len(s.ArgsLinux) > 0 {
			return s.ArgsLinux
		}
	case "windows":
		if len(s.ArgsWindows) > 0 {
			return s.ArgsWindows
		}
	}
	return s.Args
}
