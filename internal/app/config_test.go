package app

import (
	"testing"

	"pironman5/internal/config"
	"pironman5/internal/formatting"
	"pironman5/pkg/logging"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name         string
		debug        bool
		configPath   string
		mode         Mode
		expectedPath string
	}{
		{
			name:         "default path",
			configPath:   "",
			mode:         ModeStart,
			expectedPath: config.DefaultConfigPath,
		},
		{
			name:         "custom path with debug",
			debug:        true,
			configPath:   "/tmp/pironman5/config.json",
			mode:         ModeShowConfig,
			expectedPath: "/tmp/pironman5/config.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(tt.debug, tt.configPath, tt.mode)

			if cfg.Debug != tt.debug {
				t.Errorf("Expected Debug=%v, got %v", tt.debug, cfg.Debug)
			}
			if cfg.ConfigPath != tt.expectedPath {
				t.Errorf("Expected ConfigPath=%s, got %s", tt.expectedPath, cfg.ConfigPath)
			}
			if cfg.Mode != tt.mode {
				t.Errorf("Expected Mode=%s, got %s", tt.mode, cfg.Mode)
			}
			if cfg.ForceChip != DefaultForceChip {
				t.Errorf("Expected ForceChip=%s, got %s", DefaultForceChip, cfg.ForceChip)
			}
			if cfg.Output != formatting.FormatJSON {
				t.Errorf("Expected Output=json, got %s", cfg.Output)
			}
			if cfg.LogFormat != logging.FormatText {
				t.Errorf("Expected LogFormat=text, got %s", cfg.LogFormat)
			}
			if cfg.Auto == nil || len(cfg.Auto) != 0 {
				t.Errorf("Expected empty Auto override, got %v", cfg.Auto)
			}
		})
	}
}
