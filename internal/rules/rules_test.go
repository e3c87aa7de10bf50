// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package rules

import "testing"

func TestSortBySeverity_Order(t *testing.T) {
	findings := []Finding{
		{Rule: "a", Severity: SeverityInfo},
		{Rule: "b", Severity: SeverityCritical},
		{Rule: "c", Severity: SeverityWarning},
		{Rule: "d", Severity: SeverityCritical},
		{Rule: "e", Severity: SeverityInfo},
	}

	SortBySeverity(findings)

	wantOrder := []string{"b", "d", "c", "a", "e"}
	for i, want := range wantOrder {
		if findings[i].Rule != want {
			t.Errorf("position %d: got rule %q, want %q", i, findings[i].Rule, want)
		}
	}
}

func TestSortBySeverity_StableWithinSeverity(t *testing.T) {
	findings := []Finding{
		{Rule: "first", Severity: SeverityWarning},
		{Rule: "second", Severity: SeverityWarning},
		{Rule: "third", Severity: SeverityWarning},
	}

	SortBySeverity(findings)

	for i, want := range []string{"first", "second", "third"} {
		if findings[i].Rule != want {
			t.Errorf("declaration order not preserved: position %d = %q", i, findings[i].Rule)
		}
	}
}

func TestCount(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityCritical},
		{Severity: SeverityCritical},
		{Severity: SeverityInfo},
	}

	counts := Count(findings)
	if counts[SeverityCritical] != 2 {
		t.Errorf("critical = %d, want 2", counts[SeverityCritical])
	}
	if counts[SeverityWarning] != 0 {
		t.Errorf("warning = %d, want 0", counts[SeverityWarning])
	}
	if counts[SeverityInfo] != 1 {
		t.Errorf("info = %d, want 1", counts[SeverityInfo])
	}
}

func TestSeverityValid(t *testing.T) {
	for _, s := range []Severity{SeverityCritical, SeverityWarning, SeverityInfo} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Severity("fatal").Valid() {
		t.Error("unknown severity should be invalid")
	}
}

func TestHasSuggestion(t *testing.T) {
	f := Finding{Setting: "edidmode", Recommended: "automix"}
	if !f.HasSuggestion() {
		t.Error("finding with setting and recommended value should have suggestion")
	}

	f = Finding{Setting: "cec"}
	if f.HasSuggestion() {
		t.Error("finding without recommended value should not have suggestion")
	}
}
