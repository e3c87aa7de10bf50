// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package analyzer

import (
	"fmt"

	"github.com/mwrenn/avsignallab/internal/catalog"
	"github.com/mwrenn/avsignallab/internal/rules"
)

// Unmute delay thresholds and the values the optimizer applies. Both
// replacement values sit inside the safe band so re-analysis of an
// optimized configuration never flags the delay again.
const (
	unmuteDelayMax      = 500 // ms; above this the audio gap is audible
	unmuteDelayDefault  = 150 // applied when delay is 0
	unmuteDelayModerate = 250 // applied when delay exceeds the max
)

// Engine evaluates the configuration rule set. It holds only a handle
// to the read-only device catalog, so a single Engine serves unlimited
// concurrent analyses.
type Engine struct {
	catalog catalog.Lookup
}

// NewEngine returns an engine backed by the given catalog. The catalog
// is consulted by display-dependent rules; it may be nil, in which case
// those rules are skipped.
func NewEngine(cat catalog.Lookup) *Engine {
	return &Engine{catalog: cat}
}

// Report is the result of one analysis pass.
type Report struct {
	Issues    []rules.Finding `json:"issues"`
	Optimized *Settings       `json:"optimized"`
}

// rule couples a check with the rewrite the optimizer applies when the
// check fires. Rules run in the order declared in configRules; each is
// a pure function of the settings (plus the read-only catalog).
type rule struct {
	id    string
	check func(e *Engine, s *Settings) *rules.Finding
	apply func(s *Settings)
}

// configRules is the fixed evaluation order. Ordering matters for
// reproducibility, not correctness: every rule reads only the input
// settings, never another rule's output.
var configRules = []rule{
	{
		id:    "unmute-delay",
		check: checkUnmuteDelay,
		apply: applyUnmuteDelay,
	},
	{
		id:    "dv-without-hdr",
		check: checkDVWithoutHDR,
		apply: func(s *Settings) { s.HDREnable = true; s.markSet(keyHDRFlag) },
	},
	{
		id:    "edid-mode",
		check: checkEDIDMode,
		apply: func(s *Settings) { s.EDIDMode = "automix"; s.markSet(keyEDIDMode) },
	},
	{
		id:    "lldv-preset",
		check: checkLLDVPreset,
		apply: func(s *Settings) { s.DVMode = 0; s.markSet(keyDVMode) },
	},
	{
		id:    "hdcp-forced",
		check: checkHDCPForced,
		apply: func(s *Settings) { s.HDCPMode = "auto"; s.markSet(keyHDCPMode) },
	},
	{
		id:    "cec-enabled",
		check: checkCEC,
		apply: nil, // info only, never auto-applied
	},
}

// Analyze runs every rule against s in declared order, then applies the
// suggested value of each critical and warning finding to a copy of s.
// The returned issue list is sorted by severity; the optimized settings
// re-analyze clean of critical and warning findings.
func (e *Engine) Analyze(s *Settings) *Report {
	optimized := s.Clone()
	var issues []rules.Finding

	for _, r := range configRules {
		f := r.check(e, s)
		if f == nil {
			continue
		}
		f.Rule = r.id
		issues = append(issues, *f)

		if f.Severity == rules.SeverityInfo || r.apply == nil {
			continue
		}
		r.apply(optimized)
	}

	rules.SortBySeverity(issues)
	return &Report{Issues: issues, Optimized: optimized}
}

func checkUnmuteDelay(_ *Engine, s *Settings) *rules.Finding {
	if !s.Has(keyUnmuteDelay) {
		return nil
	}
	switch {
	case s.UnmuteDelay == 0:
		return &rules.Finding{
			Severity:    rules.SeverityCritical,
			Setting:     keyUnmuteDelay,
			Title:       "Audio Unmute Delay Disabled",
			Description: "A zero unmute delay risks pops and crackles on every format change. Set a short delay to let the audio path settle.",
			Current:     0,
			Recommended: unmuteDelayDefault,
		}
	case s.UnmuteDelay > unmuteDelayMax:
		return &rules.Finding{
			Severity:    rules.SeverityCritical,
			Setting:     keyUnmuteDelay,
			Title:       "Audio Unmute Delay Too Long",
			Description: fmt.Sprintf("An unmute delay of %dms leaves an unnecessary audio gap after every format change.", s.UnmuteDelay),
			Current:     s.UnmuteDelay,
			Recommended: unmuteDelayModerate,
		}
	}
	return nil
}

func applyUnmuteDelay(s *Settings) {
	if s.UnmuteDelay == 0 {
		s.UnmuteDelay = unmuteDelayDefault
	} else {
		s.UnmuteDelay = unmuteDelayModerate
	}
	s.markSet(keyUnmuteDelay)
}

func checkDVWithoutHDR(_ *Engine, s *Settings) *rules.Finding {
	if !s.Has(keyDVFlag) || !s.DVEnable {
		return nil
	}
	if s.Has(keyHDRFlag) && s.HDREnable {
		return nil
	}
	return &rules.Finding{
		Severity:    rules.SeverityCritical,
		Setting:     keyHDRFlag,
		Title:       "Dolby Vision Without HDR Path",
		Description: "Dolby Vision is advertised while the HDR EDID flag is off. DV requires the HDR path to be active; enabling HDR keeps DV working.",
		Current:     flagString(s.HDREnable),
		Recommended: "on",
	}
}

// checkEDIDMode flags custom/fixed EDID modes unless a custom DV string
// is in use, which is the one legitimate reason for a custom EDID.
func checkEDIDMode(_ *Engine, s *Settings) *rules.Finding {
	if s.EDIDMode != "custom" && s.EDIDMode != "fixed" {
		return nil
	}
	if s.DVEnable && s.DVMode == 1 {
		return nil
	}
	return &rules.Finding{
		Severity:    rules.SeverityWarning,
		Setting:     keyEDIDMode,
		Title:       "Use AutoMix EDID Mode",
		Description: fmt.Sprintf("EDID mode %q can hide sink capabilities from sources. AutoMix combines the sink EDID with overrides and is recommended for mixed HDR/SDR content.", s.EDIDMode),
		Current:     s.EDIDMode,
		Recommended: "automix",
	}
}

// checkLLDVPreset needs a target display hint; without one (or with an
// unrecognized one) the rule is skipped rather than failed.
func checkLLDVPreset(e *Engine, s *Settings) *rules.Finding {
	if e.catalog == nil || s.TargetDisplay == "" {
		return nil
	}
	display, ok := e.catalog.Device(catalog.CategoryDisplay, s.TargetDisplay)
	if !ok || display.NativeDV || !display.LLDVCompatible {
		return nil
	}
	if !s.DVEnable || s.DVMode != 2 {
		return nil
	}
	return &rules.Finding{
		Severity:    rules.SeverityWarning,
		Setting:     keyDVMode,
		Title:       "DV String Removed on LLDV Display",
		Description: fmt.Sprintf("%s has no native Dolby Vision but supports LLDV conversion, which requires a DV string in the EDID. Advertise the standard DV string instead of removing it.", display.Name),
		Current:     s.DVMode,
		Recommended: 0,
	}
}

func checkHDCPForced(_ *Engine, s *Settings) *rules.Finding {
	if !s.Has(keyHDCPMode) || s.HDCPMode == "auto" || s.HDCPMode == "" {
		return nil
	}
	if s.HDCPReason != "" {
		return nil
	}
	return &rules.Finding{
		Severity:    rules.SeverityWarning,
		Setting:     keyHDCPMode,
		Title:       "HDCP Version Forced",
		Description: fmt.Sprintf("HDCP is forced to %q without a documented compatibility reason. Forced HDCP can break handshakes with devices that negotiate a different version.", s.HDCPMode),
		Current:     s.HDCPMode,
		Recommended: "auto",
	}
}

func checkCEC(_ *Engine, s *Settings) *rules.Finding {
	if !s.Has(keyCEC) || !s.CECEnable {
		return nil
	}
	return &rules.Finding{
		Severity:    rules.SeverityInfo,
		Setting:     keyCEC,
		Title:       "CEC Enabled",
		Description: "CEC can cause unexpected power cycling of chained devices. Disable it if devices turn on or off by themselves.",
		Current:     "on",
		Recommended: "off",
	}
}
