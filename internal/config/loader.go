package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// SourceEmbedded is reported when no config file was found.
const SourceEmbedded = "embedded"

// Format is a config file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the encoding from a file extension. Anything that is
// not .toml is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// ParseFormat converts a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("config: unknown format %q (valid: yaml, toml)", s)
	}
}

// Load loads the match configuration and reports where it came from.
// Search order: customPath -> ~/.pong/pong.{yaml,toml} -> ./configs/pong.{yaml,toml} -> embedded default.
// Files are overlaid on the defaults, so a partial file only changes the keys it sets.
func Load(customPath string) (PongConfig, string, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return cfg, customPath, err
		}
		return cfg, customPath, nil
	}

	for _, path := range searchPaths() {
		if cfg, err := loadFile(path); err == nil {
			return cfg, path, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Decode(defaultPongYAML, FormatYAML)
	if err != nil {
		return DefaultPongConfig(), SourceEmbedded, nil // Fallback to hardcoded if embed fails
	}
	return cfg, SourceEmbedded, nil
}

// Decode parses data in the given format on top of the defaults and validates the result.
func Decode(data []byte, format Format) (PongConfig, error) {
	cfg := DefaultPongConfig()

	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("config: cannot parse %s: %w", format, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: invalid settings: %w", err)
	}
	return cfg, nil
}

// Encode writes cfg in the given format.
func Encode(w io.Writer, cfg PongConfig, format Format) error {
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return fmt.Errorf("config: cannot encode toml: %w", err)
		}
		return nil
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("config: cannot encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("config: cannot encode yaml: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	}
}

func loadFile(path string) (PongConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultPongConfig(), fmt.Errorf("config: cannot read %s: %w", path, err)
	}
	cfg, err := Decode(data, FormatFor(path))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// searchPaths lists the implicit config locations in priority order.
func searchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".pong")
		paths = append(paths, filepath.Join(dir, "pong.yaml"), filepath.Join(dir, "pong.toml"))
	}
	return append(paths,
		filepath.Join("configs", "pong.yaml"),
		filepath.Join("configs", "pong.toml"),
	)
}
