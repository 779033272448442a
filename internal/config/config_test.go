package config

import (
	"slices"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"LIBRARY_DIR", "RENDERER_PROFILE", "RENDERER_BINARY", "EXPORT_DIR", "EXPORT_CONCURRENCY", "SHARE_DIR"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	if cfg.LibraryDir() != "." {
		t.Errorf("expected current directory default, got %q", cfg.LibraryDir())
	}
	if cfg.ExportDir() == "" {
		t.Error("expected a temp dir fallback for the export dir")
	}
	if cfg.Export.Concurrency != 5 {
		t.Errorf("expected default concurrency 5, got %d", cfg.Export.Concurrency)
	}
	if cfg.Share.Dir != "" {
		t.Errorf("sharing should be disabled by default, got %q", cfg.Share.Dir)
	}

	name, profile, err := cfg.ResolveProfile()
	if err != nil {
		t.Fatalf("ResolveProfile: %v", err)
	}
	if name != DefaultRendererProfile {
		t.Errorf("expected default profile %q, got %q", DefaultRendererProfile, name)
	}
	if profile.Command != "weasyprint" {
		t.Errorf("expected weasyprint command, got %q", profile.Command)
	}
	if profile.Direct {
		t.Error("the default profile must produce a file")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("LIBRARY_DIR", "/photos")
	t.Setenv("RENDERER_PROFILE", "chromium")
	t.Setenv("RENDERER_BINARY", "google-chrome")
	t.Setenv("EXPORT_DIR", "/exports")
	t.Setenv("EXPORT_CONCURRENCY", "8")
	t.Setenv("SHARE_DIR", "/shared")

	cfg := Load()
	if cfg.LibraryDir() != "/photos" {
		t.Errorf("library dir: got %q", cfg.LibraryDir())
	}
	if cfg.ExportDir() != "/exports" {
		t.Errorf("export dir: got %q", cfg.ExportDir())
	}
	if cfg.Export.Concurrency != 8 {
		t.Errorf("concurrency: got %d", cfg.Export.Concurrency)
	}
	if cfg.Share.Dir != "/shared" {
		t.Errorf("share dir: got %q", cfg.Share.Dir)
	}

	name, profile, err := cfg.ResolveProfile()
	if err != nil {
		t.Fatalf("ResolveProfile: %v", err)
	}
	if name != "chromium" {
		t.Errorf("profile: got %q", name)
	}
	if profile.Command != "google-chrome" {
		t.Errorf("binary override not applied: got %q", profile.Command)
	}
}

func TestEnvInt_Invalid(t *testing.T) {
	t.Setenv("EXPORT_CONCURRENCY", "not-a-number")
	if got := Load().Export.Concurrency; got != 5 {
		t.Errorf("invalid value should fall back to 5, got %d", got)
	}

	t.Setenv("EXPORT_CONCURRENCY", "-3")
	if got := Load().Export.Concurrency; got != 5 {
		t.Errorf("negative value should fall back to 5, got %d", got)
	}
}

func TestEmbeddedProfiles(t *testing.T) {
	cfg := Load()

	names := cfg.ProfileNames()
	for _, want := range []string{"weasyprint", "wkhtmltopdf", "chromium", "lp"} {
		if !slices.Contains(names, want) {
			t.Errorf("embedded catalog missing profile %q (have %v)", want, names)
		}
	}

	for name, profile := range cfg.Renderer.Profiles.Profiles {
		if profile.Command == "" {
			t.Errorf("profile %q has no command", name)
		}
		joined := strings.Join(profile.Args, " ")
		if !strings.Contains(joined, "{input}") {
			t.Errorf("profile %q never receives the document", name)
		}
		if profile.Direct {
			continue
		}
		if !strings.Contains(joined, "{output}") {
			t.Errorf("file producing profile %q has no output placeholder", name)
		}
	}

	lp := cfg.Renderer.Profiles.Profiles["lp"]
	if !lp.Direct {
		t.Error("the lp profile must be marked direct")
	}
}

func TestResolveProfile_Unknown(t *testing.T) {
	t.Setenv("RENDERER_PROFILE", "imaginary")
	_, _, err := Load().ResolveProfile()
	if err == nil {
		t.Fatal("expected an error for an unknown profile")
	}
	if !strings.Contains(err.Error(), "imaginary") {
		t.Errorf("error should name the profile: %v", err)
	}
}
