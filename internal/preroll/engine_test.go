// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package preroll

import (
	"errors"
	"strings"
	"testing"

	"github.com/mwrenn/avsignallab/internal/rules"
)

func TestParseRational(t *testing.T) {
	tests := []struct {
		in      string
		want    Rational
		wantErr bool
	}{
		{"24000/1001", Rational{24000, 1001}, false},
		{"24", Rational{24, 1}, false},
		{"24/1", Rational{24, 1}, false},
		{"48000/2002", Rational{24000, 1001}, false},
		{"60/1", Rational{60, 1}, false},
		{"0/1", Rational{0, 1}, false},
		{"", Rational{}, true},
		{"abc", Rational{}, true},
		{"24/0", Rational{}, true},
		{"-24/1", Rational{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRational(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRational(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseRational(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRationalExactEquality(t *testing.T) {
	ntsc := Rational{24000, 1001}
	film := Rational{24, 1}
	if ntsc.Equal(film) {
		t.Error("24000/1001 must not equal 24/1; displays treat them as different refresh rates")
	}
	if !ntsc.Equal(Rational{48000, 2002}) {
		t.Error("equal reduced fractions must compare equal")
	}
}

func TestAnalyzeSDR720pAgainst4KHDR(t *testing.T) {
	e := NewEngine("")
	desc := StreamDescriptor{
		Width: 1280, Height: 720,
		FrameRate:    Rational{24, 1},
		DynamicRange: RangeSDR,
	}
	target, ok := ProfileByID("4k_hdr10_24")
	if !ok {
		t.Fatal("expected built-in profile")
	}

	findings, err := e.Analyze(desc, target)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	counts := rules.Count(findings)
	if counts[rules.SeverityCritical] != 2 {
		t.Errorf("critical count = %d, want 2 (resolution + dynamic range)", counts[rules.SeverityCritical])
	}
	if counts[rules.SeverityWarning] != 1 {
		t.Errorf("warning count = %d, want 1 (frame rate)", counts[rules.SeverityWarning])
	}

	for i := 1; i < len(findings); i++ {
		if findings[i-1].Severity == rules.SeverityWarning && findings[i].Severity == rules.SeverityCritical {
			t.Error("findings not sorted critical-first")
		}
	}
}

func TestAnalyzeExactMatch(t *testing.T) {
	e := NewEngine("")
	target, _ := ProfileByID("4k_hdr10_24")
	desc := StreamDescriptor{
		Width: 3840, Height: 2160,
		FrameRate:    Rational{24000, 1001},
		Codec:        "h265", // alias of hevc, must not count as mismatch
		DynamicRange: RangeHDR10,
	}

	findings, err := e.Analyze(desc, target)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings for exact match, got %v", findings)
	}
	if !e.Matches(desc, target) {
		t.Error("Matches should report true for exact match")
	}
}

func TestAnalyzeCodecMismatchInfo(t *testing.T) {
	e := NewEngine("")
	target, _ := ProfileByID("4k_hdr10_24")
	desc := StreamDescriptor{
		Width: 3840, Height: 2160,
		FrameRate:    Rational{24000, 1001},
		Codec:        "vp9",
		DynamicRange: RangeHDR10,
	}

	findings, err := e.Analyze(desc, target)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(findings) != 1 || findings[0].Severity != rules.SeverityInfo {
		t.Fatalf("expected single info finding, got %v", findings)
	}
	if findings[0].Rule != "codec-mismatch" {
		t.Errorf("rule = %q, want codec-mismatch", findings[0].Rule)
	}
}

func TestAnalyzeUnsupportedDescriptor(t *testing.T) {
	e := NewEngine("")
	target, _ := ProfileByID("4k_hdr10_24")

	tests := []struct {
		name      string
		desc      StreamDescriptor
		wantField string
	}{
		{"missing width", StreamDescriptor{Height: 720, FrameRate: Rational{24, 1}}, "width"},
		{"missing height", StreamDescriptor{Width: 1280, FrameRate: Rational{24, 1}}, "height"},
		{"missing frame rate", StreamDescriptor{Width: 1280, Height: 720}, "frame_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Analyze(tt.desc, target)
			var unsupported *UnsupportedDescriptorError
			if !errors.As(err, &unsupported) {
				t.Fatalf("err = %v, want UnsupportedDescriptorError", err)
			}
			if unsupported.Field != tt.wantField {
				t.Errorf("field = %q, want %q", unsupported.Field, tt.wantField)
			}
		})
	}
}

func TestBuildCommands(t *testing.T) {
	e := NewEngine("/usr/bin/ffmpeg")
	cmds := e.BuildCommands("/uploads/preroll.mp4", "")

	if len(cmds) != len(Profiles) {
		t.Fatalf("got %d commands, want one per profile (%d)", len(cmds), len(Profiles))
	}

	recommended := 0
	for _, c := range cmds {
		if c.Recommended {
			recommended++
			if c.ProfileID != DefaultProfileID {
				t.Errorf("default recommendation = %q, want %q", c.ProfileID, DefaultProfileID)
			}
		}
	}
	if recommended != 1 {
		t.Errorf("recommended count = %d, want exactly 1", recommended)
	}

	var hdr4k string
	for _, c := range cmds {
		if c.ProfileID == "4k_hdr10_24" {
			hdr4k = c.Command
		}
	}
	for _, want := range []string{
		"scale=3840:2160",
		"transfer=smpte2084",
		"master-display=G(13250,34500)B(7500,3000)R(34000,16000)WP(15635,16450)L(10000000,1)",
		"max-cll=1000,400",
		"fps=24000/1001",
		"libx265",
	} {
		if !strings.Contains(hdr4k, want) {
			t.Errorf("4K HDR10 command missing %q:\n%s", want, hdr4k)
		}
	}

	var sdr1080 string
	for _, c := range cmds {
		if c.ProfileID == "1080p_sdr_24" {
			sdr1080 = c.Command
		}
	}
	for _, want := range []string{"scale=1920:1080", "bt709", "-crf 20"} {
		if !strings.Contains(sdr1080, want) {
			t.Errorf("1080p SDR command missing %q:\n%s", want, sdr1080)
		}
	}
}

func TestBuildCommandsSelectedProfile(t *testing.T) {
	e := NewEngine("")
	cmds := e.BuildCommands("intro.mov", "1080p_sdr_24")

	for _, c := range cmds {
		if c.Recommended != (c.ProfileID == "1080p_sdr_24") {
			t.Errorf("profile %q recommended = %v", c.ProfileID, c.Recommended)
		}
		if c.Recommended && !strings.Contains(c.Label, "RECOMMENDED") {
			t.Error("recommended label should be marked")
		}
	}
}

func TestCommandsDeterministic(t *testing.T) {
	e := NewEngine("ffmpeg")
	a := e.BuildCommands("a.mp4", "4k_hdr10_24")
	b := e.BuildCommands("a.mp4", "4k_hdr10_24")

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("command %d differs between identical calls", i)
		}
	}
}
