package logging

import (
	"testing"

	"github.com/lookbook-app/lookbook/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{
			name:   "json info",
			level:  "INFO",
			format: "json",
		},
		{
			name:   "text debug",
			level:  "DEBUG",
			format: "text",
		},
		{
			name:   "unknown level falls back to info",
			level:  "bogus",
			format: "json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.LoggingConfig{Level: tt.level, Format: tt.format}
			if err := InitLogger(cfg); err != nil {
				t.Fatalf("InitLogger() error: %v", err)
			}
			if Logger == nil {
				t.Fatal("InitLogger() left Logger nil")
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	Logger = nil
	logger := WithComponent("feed-assembler")
	if logger == nil {
		t.Fatal("WithComponent() returned nil")
	}
}
