// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package api

import (
	"net/http"

	"github.com/mwrenn/avsignallab/internal/catalog"
)

// EDIDPresets lists the matrix EDID operating modes with their
// tradeoffs and CLI commands.
func (rt *Router) EDIDPresets(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, catalog.EDIDPresets)
}

// DVStrings lists the known Dolby Vision EDID strings for LLDV
// injection.
func (rt *Router) DVStrings(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, catalog.DVStrings)
}

// SettingsReference maps raw matrix setting keys to human-readable
// names, allowed values, and hints.
func (rt *Router) SettingsReference(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, catalog.SettingsMeta)
}

// Manuals lists documentation links for catalog devices.
func (rt *Router) Manuals(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, catalog.DeviceManuals)
}

// SpeakerTuning lists the speaker calibration guides.
func (rt *Router) SpeakerTuning(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, catalog.TuningGuides)
}
