// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mwrenn/avsignallab/internal/analyzer"
	"github.com/mwrenn/avsignallab/internal/logging"
	"github.com/mwrenn/avsignallab/internal/metrics"
	"github.com/mwrenn/avsignallab/internal/preroll"
	"github.com/mwrenn/avsignallab/internal/probe"
	"github.com/mwrenn/avsignallab/internal/rules"
)

type configAnalysisResponse struct {
	Issues           []rules.Finding        `json:"issues"`
	OptimizedConfig  map[string]interface{} `json:"optimized_config,omitempty"`
	DownloadFilename string                 `json:"download_filename,omitempty"`
}

// AnalyzeConfig diagnoses an exported matrix configuration. The
// config may arrive as a multipart "file" upload or as the raw JSON
// request body.
func (rt *Router) AnalyzeConfig(w http.ResponseWriter, r *http.Request) {
	raw, err := rt.readConfigBody(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_UPLOAD", err.Error(), nil)
		return
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", fmt.Sprintf("Invalid JSON: %v", err), nil)
		return
	}

	settings, err := analyzer.ParseSettings(fields)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	report := rt.analyzer.Analyze(settings)

	bySeverity := make(map[string]string, len(report.Issues))
	for _, f := range report.Issues {
		bySeverity[f.Rule] = string(f.Severity)
	}
	metrics.RecordConfigAnalysis(bySeverity)

	resp := configAnalysisResponse{Issues: report.Issues}
	if report.Optimized != nil {
		resp.OptimizedConfig = report.Optimized.ToMap()
		name, err := rt.exports.WriteConfig("vrroom_optimized", resp.OptimizedConfig)
		if err != nil {
			logging.Error().Err(err).Msg("writing optimized config export")
		} else {
			resp.DownloadFilename = name
		}
	}

	respondData(w, r, http.StatusOK, resp)
}

// Upload extensions accepted per endpoint. The matrix web UI exports
// configs as .json; .txt covers hand-saved copies.
var (
	configUploadExts = map[string]bool{".json": true, ".txt": true}
	mediaUploadExts = map[string]bool{
		".mp4": true, ".mkv": true, ".mov": true, ".m2ts": true,
		".ts": true, ".avi": true, ".webm": true,
	}
)

func allowedExt(filename string, allowed map[string]bool) bool {
	return allowed[strings.ToLower(filepath.Ext(filename))]
}

func (rt *Router) readConfigBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	maxBytes := rt.cfg.Server.MaxUploadMB << 20
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, fmt.Errorf("parsing upload: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("no file uploaded")
		}
		defer file.Close()
		if !allowedExt(header.Filename, configUploadExts) {
			return nil, fmt.Errorf("unsupported file type %q, expected .json or .txt", filepath.Ext(header.Filename))
		}
		return io.ReadAll(file)
	}

	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
}

type prerollAnalysisRequest struct {
	Stream    preroll.StreamDescriptor `json:"stream"`
	Target    string                   `json:"target"`
	InputPath string                   `json:"input_path"`
}

type prerollAnalysisResponse struct {
	Stream           preroll.StreamDescriptor `json:"stream"`
	Target           preroll.TargetProfile    `json:"target"`
	Matches          bool                     `json:"matches"`
	Findings         []rules.Finding          `json:"findings"`
	Commands         []preroll.Command        `json:"commands"`
	DownloadFilename string                   `json:"download_filename,omitempty"`
}

// AnalyzePreroll compares a manually supplied stream descriptor
// against a target profile.
func (rt *Router) AnalyzePreroll(w http.ResponseWriter, r *http.Request) {
	var req prerollAnalysisRequest
	if err := decodeJSONBody(w, r, rt.cfg.Server.MaxUploadMB<<20, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", fmt.Sprintf("Invalid JSON: %v", err), nil)
		return
	}
	rt.respondPrerollAnalysis(w, r, req.Stream, req.Target, req.InputPath)
}

// AnalyzePrerollFile probes an uploaded media file with ffprobe and
// then runs the same comparison.
func (rt *Router) AnalyzePrerollFile(w http.ResponseWriter, r *http.Request) {
	maxBytes := rt.cfg.Server.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_UPLOAD", fmt.Sprintf("parsing upload: %v", err), nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_UPLOAD", "no file uploaded", nil)
		return
	}
	defer file.Close()

	if !allowedExt(header.Filename, mediaUploadExts) {
		respondError(w, http.StatusBadRequest, "INVALID_UPLOAD",
			fmt.Sprintf("unsupported file type %q", filepath.Ext(header.Filename)), nil)
		return
	}

	if rt.prober == nil {
		respondDomainError(w, probe.ErrFFprobeNotFound)
		return
	}

	path, err := rt.saveUpload(file, header)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "UPLOAD_FAILED", "could not store uploaded file", err)
		return
	}
	defer os.Remove(path)

	desc, err := rt.prober.Probe(r.Context(), path)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	rt.respondPrerollAnalysis(w, r, *desc, r.FormValue("target"), header.Filename)
}

func (rt *Router) respondPrerollAnalysis(w http.ResponseWriter, r *http.Request, stream preroll.StreamDescriptor, targetID, inputPath string) {
	if targetID == "" {
		targetID = preroll.DefaultProfileID
	}
	target, ok := preroll.ProfileByID(targetID)
	if !ok {
		respondError(w, http.StatusBadRequest, "UNKNOWN_TARGET",
			fmt.Sprintf("unknown target profile %q", targetID), nil)
		return
	}

	findings, err := rt.preroll.Analyze(stream, target)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	kinds := make([]string, 0, len(findings))
	for _, f := range findings {
		kinds = append(kinds, strings.ReplaceAll(strings.TrimSuffix(f.Rule, "-mismatch"), "-", "_"))
	}
	metrics.RecordPrerollAnalysis(kinds)

	if inputPath == "" {
		inputPath = "preroll.mp4"
	}
	commands := rt.preroll.BuildCommands(inputPath, targetID)

	resp := prerollAnalysisResponse{
		Stream:   stream,
		Target:   target,
		Matches:  rt.preroll.Matches(stream, target),
		Findings: findings,
		Commands: commands,
	}

	if len(commands) > 0 && !resp.Matches {
		lines := make([]string, len(commands))
		for i, c := range commands {
			lines[i] = c.Command
		}
		name, err := rt.exports.WriteScript("preroll_encode", lines)
		if err != nil {
			logging.Error().Err(err).Msg("writing encode script export")
		} else {
			resp.DownloadFilename = name
		}
	}

	respondData(w, r, http.StatusOK, resp)
}

func (rt *Router) saveUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	dir := rt.cfg.Storage.UploadDir
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}

	ext := filepath.Ext(header.Filename)
	path := filepath.Join(dir, "upload_"+uuid.New().String()+ext)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// PrerollTargets lists the selectable target profiles.
func (rt *Router) PrerollTargets(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, map[string]interface{}{
		"default": preroll.DefaultProfileID,
		"targets": preroll.Profiles,
	})
}
