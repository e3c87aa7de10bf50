// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mwrenn/avsignallab/internal/logging"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Health reports service liveness and whether optional collaborators
// are available.
func (rt *Router) Health(w http.ResponseWriter, r *http.Request) {
	ffprobeAvailable := rt.prober != nil
	ffprobePath := ""
	if ffprobeAvailable {
		ffprobePath = rt.prober.Path()
	}

	respondData(w, r, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"version":           Version,
		"ffprobe_available": ffprobeAvailable,
		"ffprobe_path":      ffprobePath,
		"custom_devices":    rt.store != nil,
	})
}

// Download streams a previously exported file back to the client.
func (rt *Router) Download(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	f, err := rt.exports.Open(filename)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	defer f.Close()

	base := f.Name()
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}

	contentType := "application/octet-stream"
	if strings.HasSuffix(base, ".json") {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base))

	if _, err := io.Copy(w, f); err != nil {
		logging.Error().Err(err).Str("filename", base).Msg("download interrupted")
	}
}
