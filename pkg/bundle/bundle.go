// Package bundle assembles the distributable archive of the Frontier counter demo.
//
// The native host binary and the guest component are produced by a separate
// build and must already be present in the dist directory. The writer adds a
// generated README next to them and zips the three files flat into one archive.
package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/flowshot-io/frontier-dist/pkg/archiver"
	"github.com/flowshot-io/frontier-dist/pkg/logger"
	"github.com/spf13/afero"
)

const (
	DefaultDistDir   = "dist"
	DefaultArchive   = "frontier-demo.zip"
	DefaultHost      = "frontier-wasm-host"
	DefaultComponent = "counter_component.wasm"
	ReadmeName       = "README.md"
)

var (
	// ErrMissingInput is returned when a file required in the archive is absent.
	ErrMissingInput = errors.New("missing bundle input")
	// ErrArchiveCollides is returned when the archive name matches one of its entries.
	ErrArchiveCollides = errors.New("archive name collides with bundle entry")
)

type (
	// Layout names the dist directory and the files that go into the bundle.
	Layout struct {
		DistDir     string
		ArchiveName string
		HostBinary  string
		Component   string
		Readme      string
	}

	Options struct {
		Fs     afero.Fs
		Layout *Layout
		Logger logger.Logger
	}

	// Writer produces the bundle archive.
	Writer struct {
		fs       afero.Fs
		layout   Layout
		archiver *archiver.Archiver
		logger   logger.Logger
	}

	// Result describes a written archive.
	Result struct {
		ArchivePath string
		Entries     []string
		Size        int64
	}
)

func DefaultLayout() Layout {
	return Layout{
		DistDir:     DefaultDistDir,
		ArchiveName: DefaultArchive,
		HostBinary:  DefaultHost,
		Component:   DefaultComponent,
		Readme:      ReadmeName,
	}
}

// Entries returns the archive entry names in the order they are stored.
func (l Layout) Entries() []string {
	return []string{l.HostBinary, l.Component, l.Readme}
}

func (l Layout) ArchivePath() string {
	return filepath.Join(l.DistDir, l.ArchiveName)
}

func (l Layout) checkArchiveName() error {
	for _, name := range l.Entries() {
		if name == l.ArchiveName {
			return fmt.Errorf("%w: %s", ErrArchiveCollides, name)
		}
	}
	return nil
}

func (l Layout) path(name string) string {
	return filepath.Join(l.DistDir, name)
}

// New creates a Writer. Missing options fall back to the OS filesystem,
// the default layout and a default logger.
func New(opts *Options) *Writer {
	if opts == nil {
		opts = &Options{}
	}

	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	layout := DefaultLayout()
	if opts.Layout != nil {
		layout = *opts.Layout
	}

	if opts.Logger == nil {
		opts.Logger = logger.New(nil)
	}

	return &Writer{
		fs:       opts.Fs,
		layout:   layout,
		archiver: archiver.New(opts.Fs),
		logger:   opts.Logger,
	}
}

func (w *Writer) Layout() Layout {
	return w.layout
}

// EnsureDir creates the dist directory and any missing parents.
func (w *Writer) EnsureDir() error {
	if err := w.fs.MkdirAll(w.layout.DistDir, 0755); err != nil {
		return fmt.Errorf("error creating dist directory %s: %w", w.layout.DistDir, err)
	}

	w.logger.Debug("Dist directory ready", map[string]interface{}{
		"dir": w.layout.DistDir,
	})
	return nil
}

// WriteReadme writes the README into the dist directory, replacing any existing one.
func (w *Writer) WriteReadme() ([]byte, error) {
	content, err := RenderReadme(w.layout)
	if err != nil {
		return nil, err
	}

	path := w.layout.path(w.layout.Readme)
	if err := afero.WriteFile(w.fs, path, content, 0644); err != nil {
		return nil, fmt.Errorf("error writing readme %s: %w", path, err)
	}

	w.logger.Info("README written", map[string]interface{}{
		"path": path,
	})
	return content, nil
}

// RemoveStale deletes a previous archive so the next one starts empty.
// It refuses to run when the archive path is one of the bundle inputs.
func (w *Writer) RemoveStale() error {
	if err := w.layout.checkArchiveName(); err != nil {
		return err
	}

	path := w.layout.ArchivePath()

	err := w.fs.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error removing stale archive %s: %w", path, err)
	}

	w.logger.Info("Removed stale archive", map[string]interface{}{
		"path": path,
	})
	return nil
}

// BuildArchive zips the host binary, the component and the README into the
// archive path. All inputs are checked before the archive file is created.
func (w *Writer) BuildArchive() (*Result, error) {
	names := w.layout.Entries()

	sources := make([]archiver.Source, 0, len(names))
	for _, name := range names {
		path := w.layout.path(name)

		exists, err := afero.Exists(w.fs, path)
		if err != nil {
			return nil, fmt.Errorf("error checking input %s: %w", path, err)
		}
		if !exists {
			w.logger.Error("Bundle input is missing", map[string]interface{}{
				"path": path,
			})
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}

		sources = append(sources, archiver.Source{Path: path, Name: filepath.Base(name)})
	}

	archivePath := w.layout.ArchivePath()
	if err := w.archiver.Create(archivePath, sources); err != nil {
		return nil, fmt.Errorf("error building archive %s: %w", archivePath, err)
	}

	info, err := w.fs.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("error stating archive %s: %w", archivePath, err)
	}

	w.logger.Info("Archive written", map[string]interface{}{
		"path":    archivePath,
		"entries": len(sources),
		"size":    humanize.Bytes(uint64(info.Size())),
	})

	return &Result{
		ArchivePath: archivePath,
		Entries:     names,
		Size:        info.Size(),
	}, nil
}

// Write runs the whole procedure, stopping at the first failure.
func (w *Writer) Write() (*Result, error) {
	if err := w.layout.checkArchiveName(); err != nil {
		return nil, err
	}

	if err := w.EnsureDir(); err != nil {
		return nil, err
	}

	if _, err := w.WriteReadme(); err != nil {
		return nil, err
	}

	if err := w.RemoveStale(); err != nil {
		return nil, err
	}

	return w.BuildArchive()
}
