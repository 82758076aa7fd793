// Package publish uploads a finished bundle archive to object storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/flowshot-io/frontier-dist/pkg/logger"
	"github.com/spf13/afero"
	"go.beyondstorage.io/v5/types"
	"golang.org/x/sync/errgroup"
)

type (
	// Uploader is the part of a storager the publisher needs.
	Uploader interface {
		WriteWithContext(ctx context.Context, path string, r io.Reader, size int64, pairs ...types.Pair) (int64, error)
	}

	// Target is a named upload destination.
	Target struct {
		Name  string
		Store Uploader
	}

	Options struct {
		Fs     afero.Fs
		Logger logger.Logger
	}

	Publisher struct {
		fs     afero.Fs
		logger logger.Logger
	}
)

func New(opts *Options) *Publisher {
	if opts == nil {
		opts = &Options{}
	}

	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	if opts.Logger == nil {
		opts.Logger = logger.New(nil)
	}

	return &Publisher{
		fs:     opts.Fs,
		logger: opts.Logger,
	}
}

// Publish uploads the archive to every target concurrently under its base name.
// The first failure cancels the remaining uploads and is returned.
func (p *Publisher) Publish(ctx context.Context, archivePath string, targets []Target) error {
	if len(targets) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		// Copy variables to prevent data race
		target := target

		g.Go(func() error {
			if err := p.upload(ctx, archivePath, target); err != nil {
				p.logger.Error(fmt.Sprintf("Error publishing to %s", target.Name), map[string]interface{}{
					"error": err.Error(),
				})
				return fmt.Errorf("error publishing to %s: %w", target.Name, err)
			}

			p.logger.Info(fmt.Sprintf("Published to %s", target.Name))
			return nil
		})
	}

	return g.Wait()
}

func (p *Publisher) upload(ctx context.Context, archivePath string, target Target) error {
	if target.Store == nil {
		return errors.New("target has no store")
	}

	file, err := p.fs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("error opening archive: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("error stating archive: %w", err)
	}

	n, err := target.Store.WriteWithContext(ctx, filepath.Base(archivePath), file, info.Size())
	if err != nil {
		return err
	}
	if n != info.Size() {
		return fmt.Errorf("short upload: wrote %d of %d bytes", n, info.Size())
	}

	return nil
}
