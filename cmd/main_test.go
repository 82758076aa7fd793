package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupDist(t *testing.T, withComponent bool) (dist string, settings string) {
	t.Helper()
	dir := t.TempDir()
	dist = filepath.Join(dir, "dist")
	if err := os.MkdirAll(dist, 0755); err != nil {
		t.Fatal(err)
	}

	inputs := []string{"frontier-wasm-host"}
	if withComponent {
		inputs = append(inputs, "counter_component.wasm")
	}
	for _, name := range inputs {
		if err := os.WriteFile(filepath.Join(dist, name), []byte(name), 0755); err != nil {
			t.Fatal(err)
		}
	}

	settings = filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(settings, []byte(fmt.Sprintf("distDir: %q\n", dist)), 0644); err != nil {
		t.Fatal(err)
	}
	return dist, settings
}

func TestRootCommand(t *testing.T) {
	t.Run("Writes Bundle And Lists It", func(t *testing.T) {
		dist, settings := setupDist(t, true)

		root := newRootCommand()
		root.SetArgs([]string{"--config", settings, "--log-level", "error"})
		if err := root.Execute(); err != nil {
			t.Fatalf("Bundle command failed: %v", err)
		}

		if _, err := os.Stat(filepath.Join(dist, "frontier-demo.zip")); err != nil {
			t.Fatalf("Archive not written: %v", err)
		}

		var out bytes.Buffer
		list := newRootCommand()
		list.SetOut(&out)
		list.SetArgs([]string{"list", "--config", settings})
		if err := list.Execute(); err != nil {
			t.Fatalf("List command failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("Expected 3 entries, got %q", out.String())
		}
		for i, name := range []string{"frontier-wasm-host", "counter_component.wasm", "README.md"} {
			if !strings.HasPrefix(lines[i], name) {
				t.Errorf("Line %d = %q, want entry %s", i, lines[i], name)
			}
		}
	})

	t.Run("Fails Without Component", func(t *testing.T) {
		dist, settings := setupDist(t, false)

		root := newRootCommand()
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"--config", settings, "--log-level", "disabled"})
		if err := root.Execute(); err == nil {
			t.Fatalf("Expected failure without guest component")
		}

		if _, err := os.Stat(filepath.Join(dist, "frontier-demo.zip")); !os.IsNotExist(err) {
			t.Errorf("Archive should not exist, stat err = %v", err)
		}
	})
}
