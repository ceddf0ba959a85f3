package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
database: shop
medium:
  kind: sqlite
  path: shop.db
  quota_bytes: 5242880
log:
  level: debug
  seq_url: http://localhost:5341
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Database != "shop" || cfg.Medium.Kind != "sqlite" || cfg.Medium.Path != "shop.db" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Medium.QuotaBytes != 5<<20 {
		t.Errorf("QuotaBytes = %d", cfg.Medium.QuotaBytes)
	}
	if cfg.Log.SeqURL != "http://localhost:5341" {
		t.Errorf("SeqURL = %q", cfg.Log.SeqURL)
	}
	// unset keys keep their defaults
	if cfg.Server.Port != Default().Server.Port {
		t.Errorf("Port = %d, want default", cfg.Server.Port)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "database: [unterminated"},
		{"empty database", `database: ""`},
		{"unknown medium", "medium:\n  kind: floppy"},
		{"file without path", "medium:\n  kind: file\n  path: \"\""},
		{"unknown level", "log:\n  level: loud"},
		{"port out of range", "server:\n  port: 70000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse(%q) succeeded", tt.yaml)
			}
		})
	}
}

func TestLoadRoundTrip(t *testing.T) {
	want := Default()
	want.Database = "app"
	want.Medium.Kind = "moss"
	want.Medium.Path = ""

	b, err := want.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "lsdb.yaml")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		if got, err := ParseLevel(name); err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
}
