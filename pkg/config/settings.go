package config

import (
	"path/filepath"

	"github.com/flowshot-io/frontier-dist/pkg/bundle"
)

// Settings overrides the bundle layout and lists storage targets the archive is
// published to. Fields left out of the file keep their defaults.
type Settings struct {
	DistDir     string   `json:"distDir" validate:"required"`
	ArchiveName string   `json:"archiveName" validate:"required,basename,nefield=HostBinary,nefield=Component,nefield=Readme"`
	HostBinary  string   `json:"hostBinary" validate:"required,basename"`
	Component   string   `json:"component" validate:"required,basename,nefield=HostBinary"`
	Readme      string   `json:"readme" validate:"required,basename,nefield=HostBinary,nefield=Component"`
	Publish     []string `json:"publish" validate:"dive,required"`
}

func Default() Settings {
	l := bundle.DefaultLayout()
	return Settings{
		DistDir:     l.DistDir,
		ArchiveName: l.ArchiveName,
		HostBinary:  l.HostBinary,
		Component:   l.Component,
		Readme:      l.Readme,
	}
}

// LoadSettings reads settings from the YAML file at path on top of the
// defaults. An empty path returns the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}

	if err := Load(filepath.Dir(path), filepath.Base(path), &settings); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func (s Settings) Layout() bundle.Layout {
	return bundle.Layout{
		DistDir:     s.DistDir,
		ArchiveName: s.ArchiveName,
		HostBinary:  s.HostBinary,
		Component:   s.Component,
		Readme:      s.Readme,
	}
}
