// Package media opens GIFs in an external viewer.
package media

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/storage"
)

var ErrNoURL = errors.New("gif has no media URL")

// Launcher picks the first installed viewer from the configured lists and
// starts it detached.
type Launcher struct {
	imageViewer   string
	videoViewer   string
	defaultOpener string
	registry      *Registry
	detector      *Detector

	// start runs the built command; replaced in tests.
	start func(*exec.Cmd) error
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewRegistry(userViewersPath())
	if err != nil {
		debuglog.Warnf("media: %v", err)
		registry = &Registry{viewers: make(map[string]ViewerDefinition)}
	}

	detector, err := NewDetector()
	if err != nil {
		debuglog.Warnf("media: %v", err)
		detector = &Detector{}
	}

	l := &Launcher{
		defaultOpener: cfg.Media.DefaultOpener,
		registry:      registry,
		detector:      detector,
		start:         startDetached,
	}
	if l.defaultOpener == "" {
		l.defaultOpener = detector.DefaultOpener()
	}

	viewers := platformViewers(&cfg.Media)
	l.imageViewer = findCommand(registry, viewers.Image...)
	l.videoViewer = findCommand(registry, viewers.Video...)
	if l.imageViewer == "" {
		l.imageViewer = l.defaultOpener
	}
	if l.videoViewer == "" {
		l.videoViewer = l.defaultOpener
	}

	return l
}

func platformViewers(m *config.MediaConfig) config.MediaViewers {
	switch runtime.GOOS {
	case "linux":
		return m.Linux
	case "windows":
		return m.Windows
	default:
		return m.Darwin
	}
}

func userViewersPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gifr", "viewers.toml")
}

// Open shows the full-size rendition of gif, or the preview when the
// original URL is missing.
func (l *Launcher) Open(gif *storage.Gif) error {
	if gif == nil {
		return ErrNoURL
	}
	target := gif.FullURL
	if target == "" {
		target = gif.URL
	}
	if target == "" {
		return ErrNoURL
	}
	return l.OpenURL(target)
}

// OpenURL starts the viewer registered for the URL's kind.
func (l *Launcher) OpenURL(target string) error {
	kind := l.detector.Detect(target)

	viewer := l.defaultOpener
	switch kind {
	case KindImage:
		viewer = l.imageViewer
	case KindVideo:
		viewer = l.videoViewer
	}
	if viewer == "" {
		return fmt.Errorf("no application found to open %s", target)
	}

	cmd, err := l.registry.Command(viewer, kind, target)
	if err != nil {
		debuglog.Debugf("media: %v, falling back to %s", err, l.defaultOpener)
		cmd, err = l.registry.Command(l.defaultOpener, kind, target)
		if err != nil {
			cmd = exec.Command(l.defaultOpener, target)
		}
	}

	debuglog.WithFields(map[string]interface{}{
		"viewer": viewer,
		"kind":   kind.String(),
	}).Debugf("media: opening %s", target)

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", viewer, err)
	}
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// findCommand returns the first candidate that resolves to an installed
// executable, honouring command overrides from the registry.
func findCommand(r *Registry, candidates ...string) string {
	for _, name := range candidates {
		bin := name
		if def, ok := r.Lookup(name); ok && def.Command != "" {
			bin = def.Command
		}
		if _, err := lookPath(bin); err == nil {
			return name
		}
	}
	return ""
}
