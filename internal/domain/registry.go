package domain

import (
	"log/slog"
	"strings"

	"github.com/mouse-blink/auditor/internal/domain/detectors"
	m "github.com/mouse-blink/auditor/internal/model"
)

// Rule identifiers.
const (
	ParameterCountRuleID = "ScriptFunctionParameterCountRule"
	LongBlockRuleID      = "ScriptLongBlockRule"
	LongFunctionRuleID   = "ScriptLongFunctionRule"
	ApplicationIDRuleID  = "HardcodedApplicationIdRule"
	WIDRuleID            = "HardcodedWidRule"
	SectionOrderRuleID   = "PMDSectionOrderingRule"
)

// DefaultRules returns a fresh instance of every built-in rule. Script rules
// share cache.
func DefaultRules(cache ASTCache, logger *slog.Logger) []Rule {
	if cache == nil {
		cache = NewMemoryCache(0)
	}

	if logger == nil {
		logger = discardLogger()
	}

	shared := []RuleOption{WithCache(cache), WithLogger(logger)}
	pages := ForKinds(m.KindPMD, m.KindPOD)

	return []Rule{
		NewScriptRule(ParameterCountRuleID,
			"Functions should not have too many parameters (max 4 by default)",
			m.SeverityWarning, detectors.NewParameterCount(), shared...),
		NewScriptRule(LongBlockRuleID,
			"Ensures non-function script blocks in PMD/POD files don't exceed maximum line count (max 30 lines). "+
				"Excludes function definitions which are handled by ScriptLongFunctionRule.",
			m.SeverityAdvice, detectors.NewBlockLength(), append(shared, SkipStandalone())...),
		NewScriptRule(LongFunctionRuleID,
			"Ensures functions don't exceed maximum line count (max 50 lines)",
			m.SeverityAdvice, detectors.NewFunctionLength(), shared...),
		NewStructureRule(ApplicationIDRuleID,
			"Detects hardcoded applicationId values that should be replaced with site.applicationId",
			m.SeverityAdvice, detectors.NewHardcodedApplicationID(),
			WithLogger(logger), pages, When(hasApplicationID)),
		NewStructureRule(WIDRuleID,
			"Detects hardcoded WID values that should be configured in app attributes",
			m.SeverityWarning, detectors.NewHardcodedWID(), WithLogger(logger), pages),
		NewStructureRule(SectionOrderRuleID,
			"Ensures PMD file root-level sections follow consistent ordering for better readability",
			m.SeverityInfo, detectors.NewSectionOrder(), WithLogger(logger), ForKinds(m.KindPMD)),
	}
}

func hasApplicationID(project *m.ProjectContext) bool {
	return project != nil && strings.TrimSpace(project.ApplicationID) != ""
}

// Configure applies per-rule configuration and returns the enabled rules
// together with a listing of all of them. It must run before any analysis.
// Invalid severities are logged and the rule keeps its default.
func Configure(rules []Rule, cfg map[string]m.RuleConfig, logger *slog.Logger) ([]Rule, []m.RuleInfo) {
	if logger == nil {
		logger = discardLogger()
	}

	enabled := make([]Rule, 0, len(rules))
	infos := make([]m.RuleInfo, 0, len(rules))

	for _, rule := range rules {
		rc, ok := cfg[rule.ID()]
		on := !ok || rc.Enabled == nil || *rc.Enabled

		if ok && rc.Severity != "" {
			sev, err := m.ParseSeverity(rc.Severity)
			if err != nil {
				logger.Warn("ignoring severity override", "rule", rule.ID(), "error", err)
			} else {
				rule.SetSeverity(sev)
			}
		}

		if ok && len(rc.Settings) > 0 {
			rule.ApplySettings(rc.Settings)
		}

		infos = append(infos, m.RuleInfo{
			ID:          rule.ID(),
			Kind:        rule.Kind().String(),
			Severity:    rule.Severity(),
			Enabled:     on,
			Description: rule.Describe(),
		})

		if on {
			enabled = append(enabled, rule)
		}
	}

	for id := range cfg {
		if !known(rules, id) {
			logger.Warn("configuration names an unknown rule", "rule", id)
		}
	}

	return enabled, infos
}

func known(rules []Rule, id string) bool {
	for _, r := range rules {
		if r.ID() == id {
			return true
		}
	}

	return false
}
