// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package recommend

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mwrenn/avsignallab/internal/catalog"
	"github.com/mwrenn/avsignallab/internal/rules"
)

func testEngine() *Engine {
	return NewEngine(catalog.New())
}

func TestRecommendConflictResolvedByPriority(t *testing.T) {
	eng := testEngine()
	sel := Selections{
		Display:   "lg_c1_oled",
		Processor: "vrroom",
		AVR:       "denon_avr_x3800h",
		Source:    "ps5",
		Speakers:  "atmos_5_1_4",
	}

	// Gaming wants 100ms, best audio wants 250ms. Gaming outranks
	// best audio, so the setting must land on 100 with exactly one
	// informational note about the yield.
	res, err := eng.Recommend(sel, []Goal{GoalBestAudio, GoalGamingLowLatency})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if got := res.Settings["unmutedelay"]; got != 100 {
		t.Errorf("unmutedelay = %v, want 100", got)
	}

	var yields []rules.Finding
	for _, f := range res.Findings {
		if strings.Contains(f.Title, "Yields") {
			yields = append(yields, f)
		}
	}
	if len(yields) != 1 {
		t.Fatalf("yield findings = %d, want 1", len(yields))
	}
	if yields[0].Rule != string(GoalBestAudio) {
		t.Errorf("yield attributed to %q, want %q", yields[0].Rule, GoalBestAudio)
	}
	if yields[0].Severity != rules.SeverityInfo {
		t.Errorf("yield severity = %q, want info", yields[0].Severity)
	}
}

func TestRecommendUnknownDevice(t *testing.T) {
	eng := testEngine()

	_, err := eng.Recommend(Selections{Display: "NonexistentModel-X"}, []Goal{GoalHDRPassthrough})
	if err == nil {
		t.Fatal("expected error for unknown display")
	}
	var unknownErr *catalog.UnknownDeviceError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("error type = %T, want *catalog.UnknownDeviceError", err)
	}
	if unknownErr.Category != catalog.CategoryDisplay || unknownErr.ID != "NonexistentModel-X" {
		t.Errorf("unexpected error detail: %+v", unknownErr)
	}
}

func TestRecommendUnknownGoal(t *testing.T) {
	eng := testEngine()
	if _, err := eng.Recommend(Selections{}, []Goal{Goal("world_peace")}); err == nil {
		t.Fatal("expected error for unknown goal")
	}
}

func TestRecommendGoalsDedupedAndOrdered(t *testing.T) {
	eng := testEngine()
	sel := Selections{Display: "jvc_dla_nz7", Processor: "vrroom"}

	res, err := eng.Recommend(sel, []Goal{
		GoalBestAudio, GoalAvoidBonk, GoalBestAudio, GoalLLDVNonDV,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	avoidBonk, _ := GoalByID(GoalAvoidBonk)
	lldv, _ := GoalByID(GoalLLDVNonDV)
	bestAudio, _ := GoalByID(GoalBestAudio)
	want := []string{avoidBonk.Name, lldv.Name, bestAudio.Name}
	if !reflect.DeepEqual(res.Summary.Goals, want) {
		t.Errorf("summary goals = %v, want %v", res.Summary.Goals, want)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	eng := testEngine()
	sel := Selections{
		Display:     "jvc_dla_nz7",
		Processor:   "vrroom",
		AVR:         "denon_avr_x3800h",
		Source:      "nvidia_shield_pro",
		Speakers:    "atmos_7_1_4",
		MediaServer: "emby",
	}
	goals := []Goal{GoalAvoidBonk, GoalLLDVNonDV, GoalGamingLowLatency, GoalBestAudio, GoalFixPreroll}

	first, err := eng.Recommend(sel, goals)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := eng.Recommend(sel, goals)
		if err != nil {
			t.Fatalf("Recommend run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestRecommendFindingsSortedBySeverity(t *testing.T) {
	eng := testEngine()
	sel := Selections{
		Display:     "jvc_dla_nz7",
		Processor:   "vrroom",
		AVR:         "denon_avr_x3800h",
		Speakers:    "atmos_5_1_2",
		MediaServer: "plex",
	}

	res, err := eng.Recommend(sel, []Goal{GoalAvoidBonk, GoalLLDVNonDV, GoalBestAudio, GoalFixPreroll})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Findings) == 0 {
		t.Fatal("expected findings")
	}

	order := map[rules.Severity]int{
		rules.SeverityCritical: 0,
		rules.SeverityWarning:  1,
		rules.SeverityInfo:     2,
	}
	for i := 1; i < len(res.Findings); i++ {
		if order[res.Findings[i].Severity] < order[res.Findings[i-1].Severity] {
			t.Fatalf("finding %d (%s) ranked above finding %d (%s)",
				i, res.Findings[i].Severity, i-1, res.Findings[i-1].Severity)
		}
	}
}

func TestRecommendLLDV(t *testing.T) {
	eng := testEngine()

	t.Run("non-dv projector with capable processor", func(t *testing.T) {
		res, err := eng.Recommend(Selections{
			Display:   "jvc_dla_nz7",
			Processor: "vrroom",
			Source:    "nvidia_shield_pro",
		}, []Goal{GoalLLDVNonDV})
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if got := res.Settings["ediddvmode"]; got != 1 {
			t.Errorf("ediddvmode = %v, want 1", got)
		}
		if got := res.Settings["ediddvflag"]; got != "on" {
			t.Errorf("ediddvflag = %v, want on", got)
		}
		if !hasTitle(res.Findings, "Enable LLDV in AutoMix Mode") {
			t.Error("missing the LLDV enable instruction")
		}
	})

	t.Run("native dv display short-circuits", func(t *testing.T) {
		res, err := eng.Recommend(Selections{
			Display:   "lg_c1_oled",
			Processor: "vrroom",
		}, []Goal{GoalLLDVNonDV})
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if _, ok := res.Settings["ediddvmode"]; ok {
			t.Error("ediddvmode set for a native DV display")
		}
		for _, f := range res.Findings {
			if f.Severity == rules.SeverityCritical {
				t.Errorf("unexpected critical finding: %s", f.Title)
			}
		}
	})

	t.Run("processor without lldv injection", func(t *testing.T) {
		res, err := eng.Recommend(Selections{
			Display:   "jvc_dla_nz7",
			Processor: "arcana",
		}, []Goal{GoalLLDVNonDV})
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if !hasTitle(res.Findings, "Processor Does Not Support LLDV") {
			t.Error("missing the incapable-processor finding")
		}
		if _, ok := res.Settings["ediddvmode"]; ok {
			t.Error("ediddvmode set despite incapable processor")
		}
	})
}

func TestRecommendAvoidBonkSlowDisplay(t *testing.T) {
	eng := testEngine()

	// The NZ7 handshake is slow enough to warrant a fixed output
	// resolution recommendation, and the X3800H handshake pushes the
	// unmute delay up.
	res, err := eng.Recommend(Selections{
		Display: "jvc_dla_nz7",
		AVR:     "denon_avr_x3800h",
		Source:  "nvidia_shield_pro",
	}, []Goal{GoalAvoidBonk})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if got := res.Settings["unmutedelay"]; got != 250 {
		t.Errorf("unmutedelay = %v, want 250 for a slow AVR", got)
	}
	if got := res.Settings["edidmode"]; got != "automix" {
		t.Errorf("edidmode = %v, want automix", got)
	}

	found := false
	for _, s := range res.SourceSettings {
		if s.Setting == "Output Resolution" && s.Value == "4K (fixed)" {
			found = true
		}
	}
	if !found {
		t.Error("missing fixed output resolution source setting")
	}
}

func TestRecommendSummaryNames(t *testing.T) {
	eng := testEngine()
	res, err := eng.Recommend(Selections{Display: "sony_vpl_xw5000"}, []Goal{GoalHDRPassthrough})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.Summary.Display != "Sony VPL-XW5000ES" {
		t.Errorf("display name = %q", res.Summary.Display)
	}
	if res.Summary.Processor != "Not specified" {
		t.Errorf("processor = %q, want Not specified", res.Summary.Processor)
	}
}

func hasTitle(findings []rules.Finding, title string) bool {
	for _, f := range findings {
		if f.Title == title {
			return true
		}
	}
	return false
}
