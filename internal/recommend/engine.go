// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package recommend

import (
	"fmt"
	"sort"

	"github.com/mwrenn/avsignallab/internal/catalog"
	"github.com/mwrenn/avsignallab/internal/rules"
)

// Selections maps each equipment category to a device identifier.
// Empty strings mean "unspecified"; rules needing that category are
// skipped rather than failed.
type Selections struct {
	Display     string `json:"display,omitempty"`
	Processor   string `json:"processor,omitempty"`
	AVR         string `json:"avr,omitempty"`
	Source      string `json:"source,omitempty"`
	Speakers    string `json:"speakers,omitempty"`
	MediaServer string `json:"media_server,omitempty"`
}

// SourceSetting is one recommendation the user applies on a playback
// source rather than the matrix.
type SourceSetting struct {
	Setting string `json:"setting"`
	Value   string `json:"value"`
	Device  string `json:"device"`
	Reason  string `json:"reason"`
}

// Summary names the resolved equipment and selected goals.
type Summary struct {
	Display     string   `json:"display"`
	Processor   string   `json:"processor"`
	AVR         string   `json:"avr"`
	Source      string   `json:"source"`
	Speakers    string   `json:"speakers"`
	MediaServer string   `json:"media_server"`
	Goals       []string `json:"goals"`
}

// Result is the assembled recommendation.
type Result struct {
	Summary          Summary                  `json:"summary"`
	Findings         []rules.Finding          `json:"findings"`
	Settings         map[string]interface{}   `json:"settings"`
	SettingsDetailed []catalog.SettingDisplay `json:"settings_detailed"`
	SourceSettings   []SourceSetting          `json:"source_settings"`
}

// Engine resolves selections against the read-only catalog and runs
// the per-goal rule sets. One Engine serves unlimited concurrent
// requests.
type Engine struct {
	catalog catalog.Lookup
}

// NewEngine returns an engine backed by the given catalog.
func NewEngine(cat catalog.Lookup) *Engine {
	return &Engine{catalog: cat}
}

// setup carries the resolved device records through the goal handlers.
// A nil pointer means the category was unspecified.
type setup struct {
	display     *catalog.Device
	processor   *catalog.Device
	avr         *catalog.Device
	source      *catalog.Device
	speakers    *catalog.Device
	mediaServer *catalog.Device
}

// candidate is one field value proposed by a goal, before conflict
// resolution.
type candidate struct {
	key   string
	value interface{}
}

// goalOutput collects everything one goal contributes.
type goalOutput struct {
	findings   []rules.Finding
	candidates []candidate
	source     []SourceSetting
}

type goalHandler func(s *setup) goalOutput

var goalHandlers = map[Goal]goalHandler{
	GoalAvoidBonk:            goalAvoidBonk,
	GoalLLDVNonDV:            goalLLDVNonDV,
	GoalHDRPassthrough:       goalHDRPassthrough,
	GoalGamingLowLatency:     goalGamingLowLatency,
	GoalBestAudio:            goalBestAudio,
	GoalFixPreroll:           goalFixPreroll,
	GoalMinimizeFormatSwitch: goalMinimizeFormatSwitch,
}

// Recommend resolves the selections, applies each selected goal's rule
// set in priority order, resolves setting conflicts by goal priority,
// and assembles the result. Identical inputs always produce identical
// output.
func (e *Engine) Recommend(sel Selections, goals []Goal) (*Result, error) {
	s, err := e.resolve(sel)
	if err != nil {
		return nil, err
	}

	ordered, err := orderGoals(goals)
	if err != nil {
		return nil, err
	}

	var findings []rules.Finding
	var sourceSettings []SourceSetting
	settings := make(map[string]interface{})
	owner := make(map[string]Goal) // setting key -> winning goal

	for _, goal := range ordered {
		out := goalHandlers[goal](s)

		for i := range out.findings {
			out.findings[i].Rule = string(goal)
		}
		findings = append(findings, out.findings...)
		sourceSettings = appendSourceSettings(sourceSettings, out.source)

		for _, c := range out.candidates {
			prev, taken := settings[c.key]
			if !taken {
				settings[c.key] = c.value
				owner[c.key] = goal
				continue
			}
			if prev == c.value {
				continue // agreement is not a conflict
			}
			// Earlier goals outrank later ones; surface the loss
			// instead of dropping it silently.
			winMeta, _ := GoalByID(owner[c.key])
			loseMeta, _ := GoalByID(goal)
			display := catalog.DisplaySetting(c.key, c.value)
			findings = append(findings, rules.Finding{
				Rule:        string(goal),
				Severity:    rules.SeverityInfo,
				Setting:     c.key,
				Title:       fmt.Sprintf("%s Yields on %s", loseMeta.Name, display.Name),
				Description: fmt.Sprintf("%s proposed %s = %v, but %s takes priority and sets it to %v.", loseMeta.Name, display.Name, c.value, winMeta.Name, prev),
				Current:     prev,
			})
		}
	}

	rules.SortBySeverity(findings)

	detailed := make([]catalog.SettingDisplay, 0, len(settings))
	for _, key := range sortedKeys(settings) {
		detailed = append(detailed, catalog.DisplaySetting(key, settings[key]))
	}

	return &Result{
		Summary:          e.summary(s, ordered),
		Findings:         findings,
		Settings:         settings,
		SettingsDetailed: detailed,
		SourceSettings:   sourceSettings,
	}, nil
}

// resolve looks up every non-empty selection; unknown identifiers fail
// loudly since the goal rules depend on capability flags.
func (e *Engine) resolve(sel Selections) (*setup, error) {
	s := &setup{}

	lookups := []struct {
		category catalog.Category
		id       string
		slot     **catalog.Device
	}{
		{catalog.CategoryDisplay, sel.Display, &s.display},
		{catalog.CategoryProcessor, sel.Processor, &s.processor},
		{catalog.CategoryAVR, sel.AVR, &s.avr},
		{catalog.CategorySource, sel.Source, &s.source},
		{catalog.CategorySpeakers, sel.Speakers, &s.speakers},
		{catalog.CategoryMediaServer, sel.MediaServer, &s.mediaServer},
	}

	for _, l := range lookups {
		if l.id == "" {
			continue
		}
		d, ok := e.catalog.Device(l.category, l.id)
		if !ok {
			return nil, &catalog.UnknownDeviceError{Category: l.category, ID: l.id}
		}
		dev := d
		*l.slot = &dev
	}
	return s, nil
}

// orderGoals validates and deduplicates the requested goals, returning
// them in priority order regardless of request order.
func orderGoals(goals []Goal) ([]Goal, error) {
	seen := make(map[Goal]bool, len(goals))
	var out []Goal
	for _, g := range goals {
		if _, ok := GoalByID(g); !ok {
			return nil, fmt.Errorf("unknown goal %q", g)
		}
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return priority(out[i]) < priority(out[j]) })
	return out, nil
}

func appendSourceSettings(dst, src []SourceSetting) []SourceSetting {
	for _, s := range src {
		dup := false
		for _, existing := range dst {
			if existing.Setting == s.Setting && existing.Device == s.Device {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, s)
		}
	}
	return dst
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func deviceName(d *catalog.Device) string {
	if d == nil {
		return "Not specified"
	}
	return d.Name
}

func (e *Engine) summary(s *setup, goals []Goal) Summary {
	names := make([]string, 0, len(goals))
	for _, g := range goals {
		meta, _ := GoalByID(g)
		names = append(names, meta.Name)
	}
	return Summary{
		Display:     deviceName(s.display),
		Processor:   deviceName(s.processor),
		AVR:         deviceName(s.avr),
		Source:      deviceName(s.source),
		Speakers:    deviceName(s.speakers),
		MediaServer: deviceName(s.mediaServer),
		Goals:       names,
	}
}
