package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/auditor/internal/domain"
	m "github.com/mouse-blink/auditor/internal/model"
)

func TestRunCmd_Analyze(t *testing.T) {
	mockWorkflow, mockConfig := useMocks(t)
	expectDefaultConfig(mockConfig)

	mockWorkflow.On("Analyze", mock.Anything, mock.MatchedBy(func(args domain.AnalyzeArgs) bool {
		return args.Threads == 2 &&
			len(args.Paths) == 1 && args.Paths[0] == "./app/..." &&
			args.Config.ApplicationID == "expense_kqjzvb" &&
			args.Reports == m.Path(".auditor-reports")
	})).Return(nil)

	cmd := newTestRootCmd(newRunCmd())
	cmd.SetArgs([]string{"run", "--parallel", "2", "--app-id", "expense_kqjzvb", "./app/..."})

	require.NoError(t, cmd.Execute())
	mockWorkflow.AssertExpectations(t)
}

func TestRunCmd_Exclude(t *testing.T) {
	mockWorkflow, mockConfig := useMocks(t)
	expectDefaultConfig(mockConfig)

	mockWorkflow.On("Analyze", mock.Anything, mock.MatchedBy(func(args domain.AnalyzeArgs) bool {
		return len(args.Exclude) == 1 && args.Exclude[0] == "^vendor/"
	})).Return(nil)

	cmd := newTestRootCmd(newRunCmd())
	cmd.SetArgs([]string{"run", "-x", "^vendor/", "./..."})

	require.NoError(t, cmd.Execute())
}

func TestNewRunCmd(t *testing.T) {
	cmd := newRunCmd()

	assert.Equal(t, "run [paths...]", cmd.Use)
	assert.Equal(t, runLongDescription, cmd.Long)

	for _, name := range []string{"parallel", "app-id", "fail-on", "exclude"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
