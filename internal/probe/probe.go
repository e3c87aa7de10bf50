// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

// Package probe extracts video stream metadata from media files by
// invoking ffprobe. Results are normalized into the descriptor type
// the pre-roll format engine consumes.
package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/mwrenn/avsignallab/internal/config"
	"github.com/mwrenn/avsignallab/internal/logging"
	"github.com/mwrenn/avsignallab/internal/metrics"
	"github.com/mwrenn/avsignallab/internal/preroll"
)

// ErrFFprobeNotFound means no ffprobe binary could be located. The
// analyzer endpoints degrade gracefully: manual descriptor input still
// works without it.
var ErrFFprobeNotFound = errors.New("ffprobe not found in PATH or common install locations")

// ErrNoVideoStream means the probed file has no video stream at all.
var ErrNoVideoStream = errors.New("no video stream found")

// FindFFprobe locates the ffprobe binary. An explicit override wins;
// otherwise PATH is searched, then common install locations for the
// current platform.
func FindFFprobe(override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("configured ffprobe path %q: %w", override, err)
		}
		return override, nil
	}

	if path, err := exec.LookPath("ffprobe"); err == nil {
		return path, nil
	}

	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{"/opt/homebrew/bin/ffprobe", "/usr/local/bin/ffprobe"}
	default:
		candidates = []string{"/usr/bin/ffprobe", "/usr/local/bin/ffprobe", "/snap/bin/ffprobe"}
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", ErrFFprobeNotFound
}

// Prober runs ffprobe with a timeout and a circuit breaker. Repeated
// failures (hung mounts, broken binary) open the breaker so requests
// fail fast instead of stacking up subprocesses.
type Prober struct {
	path    string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[*preroll.StreamDescriptor]
}

// New builds a Prober from config. Returns ErrFFprobeNotFound when no
// usable binary exists; callers decide whether that is fatal.
func New(cfg config.ProbeConfig) (*Prober, error) {
	path, err := FindFFprobe(cfg.FFprobePath)
	if err != nil {
		return nil, err
	}

	cbName := "ffprobe"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*preroll.StreamDescriptor](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateString(from)).
				Str("to", stateString(to)).
				Msg("ffprobe circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateString(from), stateString(to)).Inc()
		},
	})

	logging.Info().Str("path", path).Dur("timeout", cfg.Timeout).Msg("ffprobe located")
	return &Prober{path: path, timeout: cfg.Timeout, cb: cb}, nil
}

// Path returns the resolved ffprobe binary path.
func (p *Prober) Path() string { return p.path }

// Probe extracts the first video stream's properties from the file at
// path. The context bounds the subprocess in addition to the
// configured timeout.
func (p *Prober) Probe(ctx context.Context, filePath string) (*preroll.StreamDescriptor, error) {
	start := time.Now()
	desc, err := p.cb.Execute(func() (*preroll.StreamDescriptor, error) {
		return p.run(ctx, filePath)
	})
	elapsed := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordProbe("success", elapsed)
		metrics.CircuitBreakerRequests.WithLabelValues("ffprobe", "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordProbe("rejected", elapsed)
		metrics.CircuitBreakerRequests.WithLabelValues("ffprobe", "rejected").Inc()
		logging.Warn().Err(err).Msg("ffprobe request rejected by circuit breaker")
	default:
		metrics.RecordProbe("failure", elapsed)
		metrics.CircuitBreakerRequests.WithLabelValues("ffprobe", "failure").Inc()
	}
	return desc, err
}

func (p *Prober) run(ctx context.Context, filePath string) (*preroll.StreamDescriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.path,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("ffprobe exited %d: %s", exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("running ffprobe: %w", err)
	}
	return parseOutput(out)
}

// ffprobe -print_format json shapes. Only the fields we read.
type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	CodecType      string            `json:"codec_type"`
	CodecName      string            `json:"codec_name"`
	Profile        string            `json:"profile"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	RFrameRate     string            `json:"r_frame_rate"`
	ColorSpace     string            `json:"color_space"`
	ColorTransfer  string            `json:"color_transfer"`
	ColorPrimaries string            `json:"color_primaries"`
	SideDataList   []ffprobeSideData `json:"side_data_list"`
}

type ffprobeSideData struct {
	SideDataType string `json:"side_data_type"`
}

type ffprobeFormat struct {
	BitRate  string `json:"bit_rate"`
	Duration string `json:"duration"`
}

// parseOutput converts raw ffprobe JSON into a normalized descriptor.
func parseOutput(raw []byte) (*preroll.StreamDescriptor, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parsing ffprobe output: %w", err)
	}

	var video *ffprobeStream
	for i := range out.Streams {
		if out.Streams[i].CodecType == "video" {
			video = &out.Streams[i]
			break
		}
	}
	if video == nil {
		return nil, ErrNoVideoStream
	}

	rate, err := preroll.ParseRational(video.RFrameRate)
	if err != nil {
		return nil, fmt.Errorf("frame rate %q: %w", video.RFrameRate, err)
	}

	desc := &preroll.StreamDescriptor{
		Width:          video.Width,
		Height:         video.Height,
		FrameRate:      rate,
		Codec:          video.CodecName,
		ColorPrimaries: video.ColorPrimaries,
		ColorTransfer:  video.ColorTransfer,
		ColorMatrix:    video.ColorSpace,
		DynamicRange:   dynamicRange(video),
	}

	if out.Format.BitRate != "" {
		if bps, err := strconv.ParseInt(out.Format.BitRate, 10, 64); err == nil {
			desc.BitrateBps = bps
		}
	}
	if out.Format.Duration != "" {
		if sec, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
			desc.DurationSec = sec
		}
	}
	return desc, nil
}

// dynamicRange classifies the stream. Dolby Vision side data wins;
// otherwise PQ transfer means HDR10, HLG transfer means HLG, and
// everything else (including bare BT.2020 primaries) is SDR.
func dynamicRange(s *ffprobeStream) preroll.DynamicRange {
	for _, sd := range s.SideDataList {
		if strings.Contains(strings.ToLower(sd.SideDataType), "dovi") {
			return preroll.RangeDV
		}
	}
	switch s.ColorTransfer {
	case "smpte2084":
		return preroll.RangeHDR10
	case "arib-std-b67":
		return preroll.RangeHLG
	}
	if strings.Contains(strings.ToLower(s.Profile), "hdr") {
		return preroll.RangeHDR10
	}
	return preroll.RangeSDR
}

func stateString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
