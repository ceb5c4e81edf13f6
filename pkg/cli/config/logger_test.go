package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/simstack-go/dftvasp/pkg/cli/config"
)

func TestLoggerConfigure(t *testing.T) {
	cases := []struct {
		name  string
		level string
		json  bool
	}{
		{name: "debug console", level: "debug"},
		{name: "info console", level: "info"},
		{name: "warn json", level: "warn", json: true},
		{name: "error json", level: "error", json: true},
		{name: "unknown level falls back to info", level: "trace"},
		{name: "empty level falls back to info", level: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Logger{Level: tc.level, JSON: tc.json}
			logger, err := cfg.Configure()
			gt.NoError(t, err)
			gt.NotNil(t, logger)
		})
	}
}

func TestLoggerFlags(t *testing.T) {
	cfg := &config.Logger{}
	flags := cfg.Flags()
	gt.Number(t, len(flags)).Equal(2)
}
