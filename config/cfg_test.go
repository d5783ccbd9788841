package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cssrebase/config"
)

func TestLoadConfiguration_Defaults(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
	if cfg.Rewrite.Engine != "tdewolff" {
		t.Errorf("expected default engine tdewolff, got %q", cfg.Rewrite.Engine)
	}
	if !cfg.Rewrite.SourceMap {
		t.Error("expected source maps on by default")
	}
	if cfg.Rewrite.Root != nil {
		t.Errorf("expected no root by default, got %q", *cfg.Rewrite.Root)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("expected normal console logging, got %q", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `rewrite:
  engine: regex
  keep_query: true
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadConfiguration(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Rewrite.Engine != "regex" {
		t.Errorf("expected engine override, got %q", cfg.Rewrite.Engine)
	}
	if !cfg.Rewrite.KeepQuery {
		t.Error("expected keep_query override")
	}
	// untouched values keep their defaults
	if !cfg.Rewrite.SourceMap {
		t.Error("expected source_map default to survive the merge")
	}
}

func TestLoadConfiguration_Invalid(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"unknown engine", "rewrite:\n  engine: bogus\n"},
		{"unknown field", "rewrite:\n  no_such_option: true\n"},
		{"wrong version", "version: 7\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := config.LoadConfiguration(path); err == nil {
				t.Error("expected error, got none")
			}
		})
	}
}

func TestDump(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := config.Dump(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "engine: tdewolff") {
		t.Errorf("dump is missing rewrite settings:\n%s", data)
	}
}
