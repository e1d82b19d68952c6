// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPair_Name(t *testing.T) {
	assert.Equal(t, "markdown-to-jira", FormatPair{From: "markdown", To: "jira"}.Name())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Engine:   "pandoc",
		Timeout:  time.Second,
		Fallback: DefaultFallback,
		LogLevel: "info",
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing engine", mutate: func(c *Config) { c.Engine = "" }, wantErr: "engine"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: "timeout"},
		{name: "sub-millisecond timeout", mutate: func(c *Config) { c.Timeout = time.Microsecond }, wantErr: "timeout"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "chatty" }, wantErr: "log_level"},
		{name: "empty fallback target", mutate: func(c *Config) { c.Fallback.To = "" }, wantErr: "fallback"},
		{
			name:   "format with extensions",
			mutate: func(c *Config) { c.Commands = []FormatPair{{From: "markdown+smart", To: "gfm-raw_html"}} },
		},
		{
			name:    "command with shell characters",
			mutate:  func(c *Config) { c.Commands = []FormatPair{{From: "markdown", To: "html; rm -rf"}} },
			wantErr: "commands",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
