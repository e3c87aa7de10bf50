// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package api

import (
	"errors"
	"net/http"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/mwrenn/avsignallab/internal/analyzer"
	"github.com/mwrenn/avsignallab/internal/catalog"
	"github.com/mwrenn/avsignallab/internal/export"
	"github.com/mwrenn/avsignallab/internal/preroll"
	"github.com/mwrenn/avsignallab/internal/probe"
)

// respondDomainError maps domain errors to HTTP status codes and
// error codes. Unknown errors become opaque 500s.
func respondDomainError(w http.ResponseWriter, err error) {
	var malformed *analyzer.MalformedInputError
	if errors.As(err, &malformed) {
		respondError(w, http.StatusBadRequest, "MALFORMED_INPUT", malformed.Error(), nil)
		return
	}

	var unsupported *preroll.UnsupportedDescriptorError
	if errors.As(err, &unsupported) {
		respondError(w, http.StatusUnprocessableEntity, "UNSUPPORTED_DESCRIPTOR", unsupported.Error(), nil)
		return
	}

	var unknownDevice *catalog.UnknownDeviceError
	if errors.As(err, &unknownDevice) {
		respondError(w, http.StatusNotFound, "UNKNOWN_DEVICE", unknownDevice.Error(), nil)
		return
	}

	switch {
	case errors.Is(err, catalog.ErrDeviceNotFound):
		respondError(w, http.StatusNotFound, "DEVICE_NOT_FOUND", "Device not found", nil)
	case errors.Is(err, export.ErrNotFound):
		respondError(w, http.StatusNotFound, "FILE_NOT_FOUND", "Export file not found", nil)
	case errors.Is(err, probe.ErrNoVideoStream):
		respondError(w, http.StatusUnprocessableEntity, "NO_VIDEO_STREAM", "No video stream found in file", nil)
	case errors.Is(err, probe.ErrFFprobeNotFound):
		respondError(w, http.StatusServiceUnavailable, "FFPROBE_UNAVAILABLE",
			"ffprobe is not installed; file analysis is unavailable", nil)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		respondError(w, http.StatusServiceUnavailable, "PROBE_UNAVAILABLE",
			"File analysis temporarily unavailable, try again shortly", nil)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err)
	}
}
