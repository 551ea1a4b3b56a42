package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaultsMatchBuiltin(t *testing.T) {
	cfg, err := Decode(DefaultYAML(), FormatYAML)
	if err != nil {
		t.Fatalf("Decode(embedded) failed: %v", err)
	}
	if cfg != DefaultPongConfig() {
		t.Errorf("embedded defaults drifted from DefaultPongConfig:\n got %+v\nwant %+v", cfg, DefaultPongConfig())
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultPongConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PongConfig)
		want   string
	}{
		{"zero field width", func(c *PongConfig) { c.Field.Width = 0 }, "field.width"},
		{"negative paddle speed", func(c *PongConfig) { c.Paddles.Speed = -1 }, "paddles.speed"},
		{"paddle taller than field", func(c *PongConfig) { c.Paddles.Height = 600 }, "exceeds field.height"},
		{"unknown difficulty", func(c *PongConfig) { c.Difficulty.Default = "insane" }, "unknown difficulty"},
		{"unknown end phase", func(c *PongConfig) { c.Gameplay.EndPhase = "idle" }, "gameplay.end_phase"},
		{"zero win score", func(c *PongConfig) { c.Gameplay.WinScore = 0 }, "gameplay.win_score"},
		{"zero history", func(c *PongConfig) { c.Gameplay.HistoryLimit = 0 }, "gameplay.history_limit"},
		{"inverted cpu skill", func(c *PongConfig) { c.CPU.MinSkill = 0.9; c.CPU.MaxSkill = 0.5 }, "cpu skill"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultPongConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %q, expected mention of %q", err, tc.want)
			}
		})
	}
}

func TestBallSpeed(t *testing.T) {
	cfg := DefaultPongConfig()
	tests := []struct {
		d    Difficulty
		want float64
	}{
		{DifficultyEasy, 4},
		{DifficultyMedium, 6},
		{DifficultyHard, 8},
		{"", 6},
	}
	for _, tc := range tests {
		if got := cfg.BallSpeed(tc.d); got != tc.want {
			t.Errorf("BallSpeed(%q) = %v, expected %v", tc.d, got, tc.want)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{" Hard ", DifficultyHard, false},
		{"normal", DifficultyMedium, false},
		{"MEDIUM", DifficultyMedium, false},
		{"nightmare", "", true},
	}
	for _, tc := range tests {
		got, err := ParseDifficulty(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDifficulty(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestDifficultyCycle(t *testing.T) {
	if DifficultyEasy.Next() != DifficultyMedium || DifficultyHard.Next() != DifficultyEasy {
		t.Error("Next() should cycle easy -> medium -> hard -> easy")
	}
	if DifficultyEasy.Prev() != DifficultyHard {
		t.Error("Prev() should wrap from easy to hard")
	}
	if DifficultyHard.Title() != "Hard" {
		t.Errorf("Title() = %q", DifficultyHard.Title())
	}
}

func TestLoadCustomYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.yaml")
	data := "gameplay:\n  win_score: 3\n  end_phase: menu\ndifficulty:\n  default: hard\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, source, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if source != path {
		t.Errorf("source = %q, expected %q", source, path)
	}
	if cfg.Gameplay.WinScore != 3 || cfg.Gameplay.EndPhase != EndPhaseMenu {
		t.Errorf("gameplay not applied: %+v", cfg.Gameplay)
	}
	if cfg.Difficulty.Default != DifficultyHard {
		t.Errorf("default difficulty = %q, expected hard", cfg.Difficulty.Default)
	}
	// Keys absent from the file keep their defaults
	if cfg.Field.Width != 800 || cfg.Paddles.Height != 80 {
		t.Errorf("defaults lost on overlay: field %+v paddles %+v", cfg.Field, cfg.Paddles)
	}
}

func TestLoadCustomTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.toml")
	data := "[field]\nwidth = 1000.0\nheight = 600.0\n\n[difficulty.speeds]\nhard = 10.0\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Field.Width != 1000 || cfg.Field.Height != 600 {
		t.Errorf("field = %+v, expected 1000x600", cfg.Field)
	}
	if cfg.BallSpeed(DifficultyHard) != 10 || cfg.BallSpeed(DifficultyEasy) != 4 {
		t.Errorf("speeds = %+v", cfg.Difficulty.Speeds)
	}
}

func TestLoadCustomMissing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() should fail for a missing custom path")
	}
	if !strings.HasPrefix(err.Error(), "config:") {
		t.Errorf("error should carry the config prefix, got %q", err)
	}
}

func TestLoadCustomInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("gameplay:\n  win_score: -2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path); err == nil {
		t.Fatal("Load() should reject invalid settings")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			cfg := DefaultPongConfig()
			cfg.Gameplay.WinScore = 7

			var buf bytes.Buffer
			if err := Encode(&buf, cfg, format); err != nil {
				t.Fatalf("Encode() failed: %v", err)
			}
			got, err := Decode(buf.Bytes(), format)
			if err != nil {
				t.Fatalf("Decode() failed: %v\n%s", err, buf.String())
			}
			if got != cfg {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
			}
		})
	}
}

func TestFormatFor(t *testing.T) {
	if FormatFor("a/b/pong.TOML") != FormatTOML {
		t.Error("expected toml for .TOML")
	}
	if FormatFor("pong.yml") != FormatYAML || FormatFor("pong") != FormatYAML {
		t.Error("expected yaml fallback")
	}
}
