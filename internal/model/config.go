package model

// Intake limits applied when collecting files.
const (
	DefaultMaxFileSize int64 = 50 * 1024 * 1024
	DefaultMaxZipSize  int64 = 500 * 1024 * 1024
	DefaultEncoding          = "utf-8"
)

// DefaultExtensions are the file types accepted by intake.
var DefaultExtensions = []string{".pod", ".pmd", ".script", ".amd", ".smd"}

// Config is the full run configuration.
type Config struct {
	ApplicationID string
	FailOn        Severity
	Intake        IntakeConfig
	Rules         map[string]RuleConfig
}

// IntakeConfig bounds what the file intake accepts.
type IntakeConfig struct {
	MaxFileSize        int64
	MaxZipSize         int64
	RelevantExtensions []string
	Encoding           string
	FallbackEncodings  []string
}

// RuleConfig overrides one rule. A nil Enabled keeps the rule's default.
type RuleConfig struct {
	Enabled  *bool
	Severity string
	Settings RuleSettings
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Intake: IntakeConfig{
			MaxFileSize:        DefaultMaxFileSize,
			MaxZipSize:         DefaultMaxZipSize,
			RelevantExtensions: append([]string(nil), DefaultExtensions...),
			Encoding:           DefaultEncoding,
			FallbackEncodings:  []string{"latin-1", "cp1252"},
		},
		Rules: map[string]RuleConfig{},
	}
}

// RuleInfo describes a registered rule for listing.
type RuleInfo struct {
	ID          string
	Kind        string
	Severity    Severity
	Enabled     bool
	Description string
}
