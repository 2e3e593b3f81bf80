package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/auditor/internal/model"
)

const sampleConfig = `
application_id = "expense_kqjzvb"
fail_on = "warning"

[intake]
max_file_size = 1024
relevant_extensions = ["pmd", ".script"]
fallback_encodings = ["cp1252"]

[rules.ScriptFunctionParameterCountRule]
severity = "error"

[rules.ScriptFunctionParameterCountRule.settings]
maxParameters = 3

[rules.HardcodedWidRule]
enabled = false
`

func TestConfigStore_Load(t *testing.T) {
	t.Run("reads every section", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		writeTestFile(t, path, sampleConfig)

		cfg, err := NewConfigStore(nil).Load(m.Path(path))
		require.NoError(t, err)

		assert.Equal(t, "expense_kqjzvb", cfg.ApplicationID)
		assert.Equal(t, m.SeverityWarning, cfg.FailOn)
		assert.Equal(t, int64(1024), cfg.Intake.MaxFileSize)
		assert.Equal(t, m.DefaultMaxZipSize, cfg.Intake.MaxZipSize)
		assert.Equal(t, []string{".pmd", ".script"}, cfg.Intake.RelevantExtensions)
		assert.Equal(t, "utf-8", cfg.Intake.Encoding)
		assert.Equal(t, []string{"cp1252"}, cfg.Intake.FallbackEncodings)

		params := cfg.Rules["ScriptFunctionParameterCountRule"]
		assert.Equal(t, "error", params.Severity)
		assert.Equal(t, 3, params.Settings.Int(0, "maxParameters"))

		wid := cfg.Rules["HardcodedWidRule"]
		require.NotNil(t, wid.Enabled)
		assert.False(t, *wid.Enabled)
	})

	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := NewConfigStore(nil).Load("")

		require.NoError(t, err)
		assert.Equal(t, m.DefaultConfig(), cfg)
	})

	t.Run("invalid values keep defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		writeTestFile(t, path, "fail_on = \"fatal\"\nunknown = 1\n\n[intake]\nmax_zip_size = -1\n")

		cfg, err := NewConfigStore(nil).Load(m.Path(path))
		require.NoError(t, err)

		assert.Empty(t, cfg.FailOn)
		assert.Equal(t, m.DefaultMaxZipSize, cfg.Intake.MaxZipSize)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		writeTestFile(t, path, "application_id = \n")

		cfg, err := NewConfigStore(nil).Load(m.Path(path))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse TOML")
		assert.Equal(t, m.DefaultConfig(), cfg)
	})
}

func TestConfigStore_Find(t *testing.T) {
	t.Run("walks up to the nearest config", func(t *testing.T) {
		root := t.TempDir()
		nested := filepath.Join(root, "app", "presentation")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		writeTestFile(t, filepath.Join(root, DefaultConfigFile), "")

		found, err := NewConfigStore(nil).Find(m.Path(nested))

		require.NoError(t, err)
		assert.Equal(t, m.Path(filepath.Join(root, DefaultConfigFile)), found)
	})

	t.Run("nothing found", func(t *testing.T) {
		root := t.TempDir()

		found, err := NewConfigStore(nil).Find(m.Path(root))

		require.NoError(t, err)
		if found != "" {
			// A config above the temp dir belongs to the machine running the tests.
			assert.NotContains(t, string(found), root)
		}
	})
}
