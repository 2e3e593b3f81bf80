// Package controller presents analysis results on the terminal.
package controller

import (
	m "github.com/mouse-blink/auditor/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeAnalyze StartMode = iota
	ModeList
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithAnalyzeMode sets the UI to show the findings of a fresh run.
func WithAnalyzeMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeAnalyze
	}
}

// WithListMode sets the UI to list rules.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithViewMode sets the UI to show a saved report.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI defines how the workflow talks to the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(options ...StartOption) error
	Close()
	Wait() // Wait for UI to finish (user closes it)
	DisplayRunInfo(files, rules, threads int)
	DisplayRules(rules []m.RuleInfo) error
	DisplayFindings(report m.Report) error
	DisplayIntakeWarning(err error)
}
