package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/auditor/internal/domain"
	m "github.com/mouse-blink/auditor/internal/model"
)

func TestViewCmd_UsesRootReportsFlagByDefault(t *testing.T) {
	mockWorkflow, _ := useMocks(t)

	mockWorkflow.On("View", mock.MatchedBy(func(args domain.ViewArgs) bool {
		return args.Reports == m.Path(".auditor-reports") && args.FailOn == ""
	})).Return(nil)

	cmd := newTestRootCmd(newViewCmd())
	cmd.SetArgs([]string{"view"})

	require.NoError(t, cmd.Execute())
}

func TestViewCmd_RootReportsFlagIsPassedThrough(t *testing.T) {
	mockWorkflow, _ := useMocks(t)

	mockWorkflow.On("View", mock.MatchedBy(func(args domain.ViewArgs) bool {
		return args.Reports == m.Path("./reports-dir")
	})).Return(nil)

	cmd := newTestRootCmd(newViewCmd())
	cmd.SetArgs([]string{"--reports", "./reports-dir", "view"})

	require.NoError(t, cmd.Execute())
}

func TestViewCmd_FailOn(t *testing.T) {
	mockWorkflow, _ := useMocks(t)

	mockWorkflow.On("View", mock.MatchedBy(func(args domain.ViewArgs) bool {
		return args.FailOn == m.SeverityAdvice
	})).Return(domain.ErrThresholdExceeded)

	cmd := newTestRootCmd(newViewCmd())
	cmd.SetArgs([]string{"view", "--fail-on", "advice"})

	require.ErrorIs(t, cmd.Execute(), domain.ErrThresholdExceeded)
}

func TestViewCmd_InvalidFailOn(t *testing.T) {
	useMocks(t)

	cmd := newTestRootCmd(newViewCmd())
	cmd.SetArgs([]string{"view", "--fail-on", "loud"})

	assert.Error(t, cmd.Execute())
}

func TestViewCmd_PositionalArgsAreRejected(t *testing.T) {
	useMocks(t)

	cmd := newTestRootCmd(newViewCmd())
	cmd.SetArgs([]string{"view", "extra"})

	assert.Error(t, cmd.Execute())
}
