package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed renderers.yaml
var renderersYAML []byte

// DefaultRendererProfile is used when RENDERER_PROFILE is unset.
const DefaultRendererProfile = "weasyprint"

type Config struct {
	Library  LibraryConfig
	Renderer RendererConfig
	Export   ExportConfig
	Share    ShareConfig
}

type LibraryConfig struct {
	Dir string // photo library root (defaults to the current directory)
}

type RendererConfig struct {
	Profile  string // profile name from renderers.yaml (defaults to weasyprint)
	Binary   string // overrides the profile's command, e.g. a chromium at a custom path
	Profiles ProfilesConfig
}

type ExportConfig struct {
	Dir         string // where finished documents land (defaults to the system temp dir)
	Concurrency int    // parallel photo reads during an export (default 5)
}

type ShareConfig struct {
	Dir string // hand-off directory for sharing; empty disables sharing
}

type ProfilesConfig struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile describes one way to turn markup into a printed or saved
// document. Args may carry placeholders expanded per document; direct
// profiles print without leaving a file behind.
type Profile struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Direct  bool     `yaml:"direct"`
	About   string   `yaml:"about"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func Load() *Config {
	var profiles ProfilesConfig
	if err := yaml.Unmarshal(renderersYAML, &profiles); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded renderers.yaml: " + err.Error())
	}

	return &Config{
		Library: LibraryConfig{
			Dir: os.Getenv("LIBRARY_DIR"),
		},
		Renderer: RendererConfig{
			Profile:  os.Getenv("RENDERER_PROFILE"),
			Binary:   os.Getenv("RENDERER_BINARY"),
			Profiles: profiles,
		},
		Export: ExportConfig{
			Dir:         os.Getenv("EXPORT_DIR"),
			Concurrency: envInt("EXPORT_CONCURRENCY", 5),
		},
		Share: ShareConfig{
			Dir: os.Getenv("SHARE_DIR"),
		},
	}
}

// LibraryDir returns the configured photo library root, defaulting to the
// current directory.
func (c *Config) LibraryDir() string {
	if c.Library.Dir != "" {
		return c.Library.Dir
	}
	return "."
}

// ExportDir returns where finished documents land, defaulting to the
// system temp dir.
func (c *Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return os.TempDir()
}

// ResolveProfile picks the renderer profile selected by the config and
// applies the RENDERER_BINARY override.
func (c *Config) ResolveProfile() (string, Profile, error) {
	name := c.Renderer.Profile
	if name == "" {
		name = DefaultRendererProfile
	}
	profile, ok := c.Renderer.Profiles.Profiles[name]
	if !ok {
		return "", Profile{}, fmt.Errorf("unknown renderer profile %q (available: %v)", name, c.ProfileNames())
	}
	if c.Renderer.Binary != "" {
		profile.Command = c.Renderer.Binary
	}
	return name, profile, nil
}

// ProfileNames lists the embedded renderer profiles in stable order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Renderer.Profiles.Profiles))
	for name := range c.Renderer.Profiles.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
