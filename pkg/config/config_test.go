package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/flowshot-io/frontier-dist/pkg/bundle"
	"github.com/flowshot-io/frontier-dist/pkg/config"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}
	return path
}

func TestLoadSettings(t *testing.T) {
	t.Run("Empty Path Returns Defaults", func(t *testing.T) {
		settings, err := config.LoadSettings("")
		if err != nil {
			t.Fatalf("Failed to load settings: %v", err)
		}
		if !reflect.DeepEqual(settings.Layout(), bundle.DefaultLayout()) {
			t.Errorf("Layout = %+v, want defaults", settings.Layout())
		}
		if len(settings.Publish) != 0 {
			t.Errorf("Expected no publish targets, got %v", settings.Publish)
		}
	})

	t.Run("File Overrides Defaults", func(t *testing.T) {
		path := writeSettings(t, "distDir: out\narchiveName: demo.zip\npublish:\n  - minio://bucket/demo\n")

		settings, err := config.LoadSettings(path)
		if err != nil {
			t.Fatalf("Failed to load settings: %v", err)
		}

		layout := settings.Layout()
		if layout.DistDir != "out" || layout.ArchiveName != "demo.zip" {
			t.Errorf("Overrides not applied: %+v", layout)
		}
		if layout.HostBinary != bundle.DefaultHost || layout.Component != bundle.DefaultComponent {
			t.Errorf("Unset fields lost their defaults: %+v", layout)
		}
		if !reflect.DeepEqual(settings.Publish, []string{"minio://bucket/demo"}) {
			t.Errorf("Publish = %v", settings.Publish)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := config.LoadSettings(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatalf("Expected error for missing file")
		}
	})

	t.Run("Unreadable Path Names The File", func(t *testing.T) {
		parent := writeSettings(t, "distDir: out\n")
		path := filepath.Join(parent, "settings.yaml")

		_, err := config.LoadSettings(path)
		if err == nil {
			t.Fatalf("Expected error for path below a regular file")
		}
		if !strings.Contains(err.Error(), path) {
			t.Errorf("Error does not name %s: %v", path, err)
		}
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		if _, err := config.LoadSettings(writeSettings(t, "distDir: [")); err == nil {
			t.Fatalf("Expected parse error")
		}
	})

	t.Run("Rejects Invalid Values", func(t *testing.T) {
		tests := map[string]string{
			"empty dist dir":                  "distDir: \"\"\n",
			"nested entry":                    "component: build/counter.wasm\n",
			"duplicate entry":                 "component: frontier-wasm-host\n",
			"readme collides":                 "readme: counter_component.wasm\n",
			"empty publish target":            "publish:\n  - \"\"\n",
			"archive collides with host":      "archiveName: frontier-wasm-host\n",
			"archive collides with component": "archiveName: counter_component.wasm\n",
			"archive collides with readme":    "archiveName: README.md\n",
		}

		for name, content := range tests {
			t.Run(name, func(t *testing.T) {
				if _, err := config.LoadSettings(writeSettings(t, content)); err == nil {
					t.Errorf("Expected validation error")
				}
			})
		}
	})
}

func TestLoad(t *testing.T) {
	type target struct {
		Name string `json:"name" validate:"required"`
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte("name: demo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var got target
	if err := config.Load(dir, "", &got); err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if got.Name != "demo" {
		t.Errorf("Name = %q", got.Name)
	}
}
