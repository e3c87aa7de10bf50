// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

// Package recommend implements the setup recommendation engine: it
// resolves the user's equipment selections against the device catalog,
// applies goal-specific rule sets, and folds conflicting proposals into
// a single prioritized settings recommendation.
package recommend

// Goal is one user-selectable optimization intent.
type Goal string

const (
	GoalAvoidBonk            Goal = "avoid_bonk"
	GoalLLDVNonDV            Goal = "lldv_non_dv"
	GoalHDRPassthrough       Goal = "hdr_passthrough"
	GoalGamingLowLatency     Goal = "gaming_low_latency"
	GoalBestAudio            Goal = "best_audio"
	GoalFixPreroll           Goal = "fix_preroll"
	GoalMinimizeFormatSwitch Goal = "minimize_format_switch"
)

// GoalMeta describes one goal for presentation.
type GoalMeta struct {
	ID          Goal   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Goals lists every goal in priority order: when two goals propose
// different values for the same setting, the earlier goal in this list
// wins. Handshake avoidance and LLDV enablement outrank latency, which
// outranks audio quality, which outranks the advisory goals. This
// order is the conflict-resolution contract and must not be reordered
// casually.
var Goals = []GoalMeta{
	{
		ID:          GoalAvoidBonk,
		Name:        "Avoid HDMI Bonk / Blank Screen",
		Description: "Minimize or eliminate black screen delays during format changes between pre-roll and main content.",
		Category:    "video",
	},
	{
		ID:          GoalLLDVNonDV,
		Name:        "Dolby Vision on Non-DV Display (LLDV)",
		Description: "Enable Dolby Vision content on displays without native DV support via Low Latency Dolby Vision conversion.",
		Category:    "video",
	},
	{
		ID:          GoalHDRPassthrough,
		Name:        "4K HDR Passthrough",
		Description: "Ensure clean 4K HDR10/HLG passthrough with correct color space and metadata.",
		Category:    "video",
	},
	{
		ID:          GoalGamingLowLatency,
		Name:        "Gaming / Low Latency",
		Description: "Enable VRR, ALLM, and minimize processing for the lowest input lag gaming experience.",
		Category:    "video",
	},
	{
		ID:          GoalBestAudio,
		Name:        "Best Audio Quality (Atmos/DTS:X)",
		Description: "Optimize audio routing for highest quality lossless surround sound passthrough.",
		Category:    "audio",
	},
	{
		ID:          GoalFixPreroll,
		Name:        "Fix Pre-roll Visibility",
		Description: "Fix issues where pre-roll video shows only 1 frame or black screen while audio plays.",
		Category:    "video",
	},
	{
		ID:          GoalMinimizeFormatSwitch,
		Name:        "Minimize Format Switching",
		Description: "Reduce the number of HDMI re-negotiations by standardizing output format across content types.",
		Category:    "video",
	},
}

// GoalByID returns the goal metadata for an identifier.
func GoalByID(id Goal) (GoalMeta, bool) {
	for _, g := range Goals {
		if g.ID == id {
			return g, true
		}
	}
	return GoalMeta{}, false
}

// priority returns the goal's position in the conflict-resolution
// order; lower wins.
func priority(id Goal) int {
	for i, g := range Goals {
		if g.ID == id {
			return i
		}
	}
	return len(Goals)
}
