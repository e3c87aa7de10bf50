// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

// Package rules defines the shared finding model used by all analysis
// engines: severity grading, the Finding record, and the ordering
// guarantees the API exposes.
//
// Each engine owns its rule set; this package only carries the common
// vocabulary so that config diagnostics, pre-roll format checks and setup
// recommendations all report through one shape.
package rules

import "sort"

// Severity grades a finding. The ordering is total:
// critical > warning > info.
type Severity string

const (
	// SeverityCritical marks issues that break the signal chain or
	// reliably cause a visible failure (handshake blackout, lost HDR).
	SeverityCritical Severity = "critical"

	// SeverityWarning marks issues that degrade the experience but do
	// not break playback.
	SeverityWarning Severity = "warning"

	// SeverityInfo marks advisory findings. Info findings are never
	// auto-applied by any optimizer.
	SeverityInfo Severity = "info"
)

// rank returns the sort rank of a severity; lower sorts first.
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// Valid reports whether s is one of the three known severities.
func (s Severity) Valid() bool {
	return s.rank() < 3
}

// Finding is one diagnostic result produced by a rule. Every finding
// carries the identity of the rule that produced it; a given rule fires
// at most once per analysis.
type Finding struct {
	// Rule is the stable identifier of the rule that produced this finding.
	Rule string `json:"rule"`

	Severity Severity `json:"severity"`

	// Setting names the configuration field the finding is about,
	// when the rule targets a specific field.
	Setting string `json:"setting,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Current and Recommended carry the observed and suggested values
	// for findings that propose a concrete change.
	Current     interface{} `json:"current_value,omitempty"`
	Recommended interface{} `json:"recommended_value,omitempty"`
}

// HasSuggestion reports whether the finding proposes a concrete value.
func (f *Finding) HasSuggestion() bool {
	return f.Setting != "" && f.Recommended != nil
}

// SortBySeverity orders findings critical-before-warning-before-info,
// preserving the original (rule declaration) order within each severity.
func SortBySeverity(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Severity.rank() < findings[j].Severity.rank()
	})
}

// Count tallies findings per severity.
func Count(findings []Finding) map[Severity]int {
	counts := map[Severity]int{
		SeverityCritical: 0,
		SeverityWarning:  0,
		SeverityInfo:     0,
	}
	for i := range findings {
		counts[findings[i].Severity]++
	}
	return counts
}
