// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package api

import (
	"fmt"
	"net/http"

	"github.com/mwrenn/avsignallab/internal/logging"
	"github.com/mwrenn/avsignallab/internal/metrics"
	"github.com/mwrenn/avsignallab/internal/recommend"
)

type recommendRequest struct {
	Display     string   `json:"display"`
	Processor   string   `json:"processor"`
	AVR         string   `json:"avr"`
	Source      string   `json:"source"`
	Speakers    string   `json:"speakers"`
	MediaServer string   `json:"media_server"`
	Goals       []string `json:"goals" validate:"required,min=1,dive,oneof=avoid_bonk lldv_non_dv hdr_passthrough gaming_low_latency best_audio fix_preroll minimize_format_switch"`
}

type recommendResponse struct {
	*recommend.Result
	DownloadFilename string `json:"download_filename,omitempty"`
}

// Recommend produces a full signal-chain setup recommendation for the
// selected equipment and goals.
func (rt *Router) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSONBody(w, r, rt.cfg.Server.MaxUploadMB<<20, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", fmt.Sprintf("Invalid JSON: %v", err), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &APIResponse{
			Status: "error",
			Error:  apiErr,
		})
		return
	}

	goals := make([]recommend.Goal, len(req.Goals))
	for i, g := range req.Goals {
		goals[i] = recommend.Goal(g)
	}

	result, err := rt.recommender.Recommend(recommend.Selections{
		Display:     req.Display,
		Processor:   req.Processor,
		AVR:         req.AVR,
		Source:      req.Source,
		Speakers:    req.Speakers,
		MediaServer: req.MediaServer,
	}, goals)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	metrics.RecordRecommendation(req.Goals)

	resp := recommendResponse{Result: result}
	if len(result.Settings) > 0 {
		name, err := rt.exports.WriteConfig("vrroom_recommended", result.Settings)
		if err != nil {
			logging.Error().Err(err).Msg("writing recommended config export")
		} else {
			resp.DownloadFilename = name
		}
	}

	respondData(w, r, http.StatusOK, resp)
}

// Goals lists the selectable optimization goals in priority order.
func (rt *Router) Goals(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, recommend.Goals)
}
