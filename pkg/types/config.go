// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// formatPattern accepts pandoc format names including extension toggles,
// e.g. "gfm" or "markdown+smart-fancy_lists".
var formatPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.+-]*$`)

// FormatPair names a source and target format for one conversion.
type FormatPair struct {
	From string `json:"from" yaml:"from" mapstructure:"from"`
	To   string `json:"to" yaml:"to" mapstructure:"to"`
}

// Name returns the action name for the pair, e.g. "markdown-to-jira".
func (p FormatPair) Name() string {
	return p.From + "-to-" + p.To
}

// Validate checks that both sides are usable format names.
func (p FormatPair) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.From, validation.Required, validation.Match(formatPattern)),
		validation.Field(&p.To, validation.Required, validation.Match(formatPattern)),
	)
}

// DefaultCommands are the fixed-pair conversions every host exposes.
var DefaultCommands = []FormatPair{
	{From: "markdown", To: "jira"},
	{From: "markdown", To: "mediawiki"},
	{From: "markdown", To: "rst"},
	{From: "markdown", To: "textile"},
}

// BaselineFormat is the source format of the target-only prompt.
const BaselineFormat = "markdown"

// DefaultFallback is used when the user cancels a format picker.
var DefaultFallback = FormatPair{From: BaselineFormat, To: "html"}

// Config holds the settings shared by every host.
type Config struct {
	// Engine is the conversion engine command: a bare name looked up on PATH
	// or an absolute path (default "pandoc").
	Engine string `json:"engine" yaml:"engine" mapstructure:"engine"`

	// Timeout bounds each engine call (default 1s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// Fallback is the pair used when a picker is cancelled.
	Fallback FormatPair `json:"fallback" yaml:"fallback" mapstructure:"fallback"`

	// Commands lists extra fixed-pair actions on top of DefaultCommands.
	Commands []FormatPair `json:"commands,omitempty" yaml:"commands,omitempty" mapstructure:"commands"`

	// LogLevel is one of debug, info, warn, error (default info).
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// Validate checks the configuration after defaults have been applied.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Engine, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Fallback),
		validation.Field(&c.Commands),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}
