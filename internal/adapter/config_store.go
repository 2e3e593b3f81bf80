package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	m "github.com/mouse-blink/auditor/internal/model"
)

// DefaultConfigFile is the configuration file looked up from the working directory.
const DefaultConfigFile = "auditor.toml"

// ConfigStore loads run configuration.
type ConfigStore interface {
	// Find returns the nearest DefaultConfigFile at or above dir, or "".
	Find(dir m.Path) (m.Path, error)
	// Load reads path over the defaults. On a malformed file it returns the
	// defaults together with the error; bad individual values are skipped.
	Load(path m.Path) (m.Config, error)
}

type configStore struct {
	logger *slog.Logger
}

// NewConfigStore creates a TOML ConfigStore. A nil logger discards output.
func NewConfigStore(logger *slog.Logger) ConfigStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &configStore{logger: logger}
}

type configFile struct {
	ApplicationID string                    `toml:"application_id"`
	FailOn        string                    `toml:"fail_on"`
	Intake        intakeFile                `toml:"intake"`
	Rules         map[string]ruleConfigFile `toml:"rules"`
}

type intakeFile struct {
	MaxFileSize        int64    `toml:"max_file_size"`
	MaxZipSize         int64    `toml:"max_zip_size"`
	RelevantExtensions []string `toml:"relevant_extensions"`
	Encoding           string   `toml:"encoding"`
	FallbackEncodings  []string `toml:"fallback_encodings"`
}

type ruleConfigFile struct {
	Enabled  *bool          `toml:"enabled"`
	Severity string         `toml:"severity"`
	Settings map[string]any `toml:"settings"`
}

func (s *configStore) Find(dir m.Path) (m.Path, error) {
	start := string(dir)
	if start == "" {
		start = "."
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		candidate := filepath.Join(abs, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return m.Path(candidate), nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", nil
		}

		abs = parent
	}
}

func (s *configStore) Load(path m.Path) (m.Config, error) {
	cfg := m.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	var file configFile

	meta, err := toml.DecodeFile(string(path), &file)
	if err != nil {
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	for _, key := range meta.Undecoded() {
		s.logger.Warn("unknown configuration key", "path", path, "key", key.String())
	}

	cfg.ApplicationID = strings.TrimSpace(file.ApplicationID)

	if file.FailOn != "" {
		sev, err := m.ParseSeverity(file.FailOn)
		if err != nil {
			s.logger.Warn("ignoring fail_on", "path", path, "error", err)
		} else {
			cfg.FailOn = sev
		}
	}

	s.applyIntake(&cfg.Intake, file.Intake, meta, path)

	for id, rc := range file.Rules {
		cfg.Rules[id] = m.RuleConfig{
			Enabled:  rc.Enabled,
			Severity: rc.Severity,
			Settings: m.RuleSettings(rc.Settings),
		}
	}

	return cfg, nil
}

func (s *configStore) applyIntake(dst *m.IntakeConfig, src intakeFile, meta toml.MetaData, path m.Path) {
	positive := func(key string, v int64, into *int64) {
		if !meta.IsDefined("intake", key) {
			return
		}

		if v <= 0 {
			s.logger.Warn("ignoring non-positive limit", "path", path, "key", "intake."+key, "value", v)
			return
		}

		*into = v
	}

	positive("max_file_size", src.MaxFileSize, &dst.MaxFileSize)
	positive("max_zip_size", src.MaxZipSize, &dst.MaxZipSize)

	if len(src.RelevantExtensions) > 0 {
		exts := make([]string, 0, len(src.RelevantExtensions))
		for _, e := range src.RelevantExtensions {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}

			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}

			exts = append(exts, e)
		}

		if len(exts) > 0 {
			dst.RelevantExtensions = exts
		}
	}

	if src.Encoding != "" {
		dst.Encoding = src.Encoding
	}

	if meta.IsDefined("intake", "fallback_encodings") {
		dst.FallbackEncodings = src.FallbackEncodings
	}
}
