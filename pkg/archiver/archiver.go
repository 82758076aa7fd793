package archiver

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mholt/archiver/v3"
	"github.com/spf13/afero"
)

var (
	// ErrExists is returned when the destination archive is already present.
	ErrExists = errors.New("archive already exists")
	// ErrMissingSource is returned when a source file cannot be found.
	ErrMissingSource = errors.New("source file does not exist")
)

type (
	// Source is a file to add to an archive.
	Source struct {
		// Path on the filesystem.
		Path string
		// Name stored in the archive.
		Name string
	}

	// Entry is a file read back from an archive.
	Entry struct {
		Name    string
		Size    int64
		Content []byte
	}

	Archiver struct {
		fs afero.Fs
	}
)

func New(fs afero.Fs) *Archiver {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Archiver{fs: fs}
}

// Create writes a new zip archive at destination holding sources in order.
// Every source is checked before the destination file is created.
func (a *Archiver) Create(destination string, sources []Source) (err error) {
	exists, err := afero.Exists(a.fs, destination)
	if err != nil {
		return fmt.Errorf("error checking destination %s: %w", destination, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrExists, destination)
	}

	for _, src := range sources {
		info, err := a.fs.Stat(src.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrMissingSource, src.Path)
			}
			return fmt.Errorf("error stating source %s: %w", src.Path, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("source %s is not a regular file", src.Path)
		}
	}

	out, err := a.fs.Create(destination)
	if err != nil {
		return fmt.Errorf("error creating archive %s: %w", destination, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing archive %s: %w", destination, cerr)
		}
	}()

	z := archiver.NewZip()
	if err := z.Create(out); err != nil {
		return fmt.Errorf("error starting zip stream: %w", err)
	}

	for _, src := range sources {
		if err := a.writeSource(z, src); err != nil {
			z.Close()
			return err
		}
	}

	if err := z.Close(); err != nil {
		return fmt.Errorf("error finishing zip stream: %w", err)
	}

	return nil
}

func (a *Archiver) writeSource(z *archiver.Zip, src Source) error {
	file, err := a.fs.Open(src.Path)
	if err != nil {
		return fmt.Errorf("error opening source %s: %w", src.Path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("error stating source %s: %w", src.Path, err)
	}

	err = z.Write(archiver.File{
		FileInfo: archiver.FileInfo{
			FileInfo:   info,
			CustomName: src.Name,
		},
		ReadCloser: file,
	})
	if err != nil {
		return fmt.Errorf("error adding %s to archive: %w", src.Name, err)
	}

	return nil
}

// List reads every entry of the zip archive at path, in archive order.
func (a *Archiver) List(path string) ([]Entry, error) {
	in, err := a.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening archive %s: %w", path, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, fmt.Errorf("error stating archive %s: %w", path, err)
	}

	z := archiver.NewZip()
	if err := z.Open(in, info.Size()); err != nil {
		return nil, fmt.Errorf("error opening zip stream %s: %w", path, err)
	}
	defer z.Close()

	var entries []Entry
	for {
		f, err := z.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading archive %s: %w", path, err)
		}

		entry, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func readEntry(f archiver.File) (Entry, error) {
	defer f.Close()

	name := f.Name()
	if header, ok := f.Header.(zip.FileHeader); ok {
		name = header.Name
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return Entry{}, fmt.Errorf("error reading entry %s: %w", name, err)
	}

	return Entry{
		Name:    name,
		Size:    int64(len(content)),
		Content: content,
	}, nil
}
