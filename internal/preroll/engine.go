// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package preroll

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mwrenn/avsignallab/internal/rules"
)

// Engine compares stream descriptors against target profiles and
// generates re-encode commands. It holds only the configured ffmpeg
// binary path, so one Engine serves unlimited concurrent analyses.
type Engine struct {
	ffmpeg string
}

// NewEngine returns an engine that references the given ffmpeg binary
// in generated command text. An empty path falls back to "ffmpeg".
func NewEngine(ffmpegPath string) *Engine {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Engine{ffmpeg: ffmpegPath}
}

// codecAliases maps equivalent codec identifiers so hevc/h265 and
// h264/avc never count as mismatches.
var codecAliases = map[string]string{
	"h265": "hevc",
	"avc":  "h264",
}

func canonicalCodec(c string) string {
	c = strings.ToLower(c)
	if canon, ok := codecAliases[c]; ok {
		return canon
	}
	return c
}

// Analyze compares the descriptor against the target and returns the
// mismatch findings sorted by severity. Each comparison class yields at
// most one finding.
func (e *Engine) Analyze(d StreamDescriptor, target TargetProfile) ([]rules.Finding, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var findings []rules.Finding

	if d.Width != target.Width || d.Height != target.Height {
		findings = append(findings, rules.Finding{
			Rule:        "resolution-mismatch",
			Severity:    rules.SeverityCritical,
			Setting:     "resolution",
			Title:       "Resolution Mismatch",
			Description: fmt.Sprintf("Pre-roll is %dx%d but the target library is %dx%d. The resolution change forces an HDMI handshake between pre-roll and feature.", d.Width, d.Height, target.Width, target.Height),
			Current:     fmt.Sprintf("%dx%d", d.Width, d.Height),
			Recommended: fmt.Sprintf("%dx%d", target.Width, target.Height),
		})
	}

	if d.DynamicRange != target.DynamicRange {
		findings = append(findings, rules.Finding{
			Rule:        "dynamic-range-mismatch",
			Severity:    rules.SeverityCritical,
			Setting:     "dynamic_range",
			Title:       "Dynamic Range Mismatch",
			Description: fmt.Sprintf("Pre-roll is %s but the target library is %s. The display mode switch forces an HDMI handshake.", d.DynamicRange, target.DynamicRange),
			Current:     string(d.DynamicRange),
			Recommended: string(target.DynamicRange),
		})
	}

	if !d.FrameRate.Equal(target.FrameRate) {
		findings = append(findings, rules.Finding{
			Rule:        "frame-rate-mismatch",
			Severity:    rules.SeverityWarning,
			Setting:     "frame_rate",
			Title:       "Frame Rate Mismatch",
			Description: fmt.Sprintf("Pre-roll is %s fps but the target library is %s fps. The refresh rate change may trigger a handshake on displays without QMS.", d.FrameRate, target.FrameRate),
			Current:     d.FrameRate.String(),
			Recommended: target.FrameRate.String(),
		})
	}

	if d.Codec != "" && target.Codec != "" && canonicalCodec(d.Codec) != canonicalCodec(target.Codec) {
		findings = append(findings, rules.Finding{
			Rule:        "codec-mismatch",
			Severity:    rules.SeverityInfo,
			Setting:     "codec",
			Title:       "Codec Mismatch",
			Description: fmt.Sprintf("Pre-roll codec %q differs from the library's %q. This does not force a handshake but changes the decode path.", d.Codec, target.Codec),
			Current:     d.Codec,
			Recommended: target.Codec,
		})
	}

	rules.SortBySeverity(findings)
	return findings, nil
}

// Matches reports whether the descriptor already satisfies the target
// in every handshake-relevant dimension.
func (e *Engine) Matches(d StreamDescriptor, target TargetProfile) bool {
	return d.Width == target.Width && d.Height == target.Height &&
		d.DynamicRange == target.DynamicRange &&
		d.FrameRate.Equal(target.FrameRate)
}

// Command is one generated re-encode instruction.
type Command struct {
	ProfileID   string `json:"format_id"`
	Label       string `json:"label"`
	Command     string `json:"command"`
	Recommended bool   `json:"recommended"`
}

// BuildCommands emits a re-encode command for every offered target
// profile, marking the selected one (or the default when none is
// selected) as recommended. Commands are deterministic text; nothing is
// executed.
func (e *Engine) BuildCommands(inputPath string, selectedProfile string) []Command {
	if selectedProfile == "" {
		selectedProfile = DefaultProfileID
	}

	out := make([]Command, 0, len(Profiles))
	for _, p := range Profiles {
		recommended := p.ID == selectedProfile
		label := p.Name
		if recommended {
			label += " (RECOMMENDED)"
		}
		out = append(out, Command{
			ProfileID:   p.ID,
			Label:       label,
			Command:     e.encodeCommand(inputPath, p),
			Recommended: recommended,
		})
	}
	return out
}

// HDR10 static mastering metadata for generated encodes: BT.2020
// primaries with a D65 white point, 1000-nit mastering peak, and
// MaxCLL/MaxFALL of 1000/400.
const hdr10MasterDisplay = "G(13250,34500)B(7500,3000)R(34000,16000)WP(15635,16450)L(10000000,1)"

func (e *Engine) encodeCommand(inputPath string, p TargetProfile) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	rangeTag := "sdr"
	if p.DynamicRange != RangeSDR {
		rangeTag = strings.ToLower(string(p.DynamicRange))
	}
	output := fmt.Sprintf("%s_%dx%d_%s_%sfps.mkv", base, p.Width, p.Height, rangeTag, frameRateTag(p.FrameRate))

	if p.DynamicRange == RangeSDR {
		return fmt.Sprintf(
			`%q -i %q -vf "scale=%d:%d:flags=lanczos,fps=%s" -c:v libx265 -preset slow -crf 20 -colorspace bt709 -color_trc bt709 -color_primaries bt709 -c:a copy %q`,
			e.ffmpeg, inputPath, p.Width, p.Height, p.FrameRate, output,
		)
	}

	return fmt.Sprintf(
		`%q -i %q -vf "scale=%d:%d:flags=lanczos,fps=%s,format=yuv420p10le" -c:v libx265 -preset slow -crf 18 -x265-params "colorprim=bt2020:transfer=smpte2084:colormatrix=bt2020nc:max-cll=1000,400:master-display=%s" -c:a copy %q`,
		e.ffmpeg, inputPath, p.Width, p.Height, p.FrameRate, hdr10MasterDisplay, output,
	)
}

// frameRateTag renders a filename-safe frame rate ("23.976", "60").
func frameRateTag(r Rational) string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", r.Float()), "0"), ".")
}
