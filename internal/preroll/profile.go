// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package preroll

import "fmt"

// DynamicRange classifies a stream's HDR signaling.
type DynamicRange string

const (
	RangeSDR       DynamicRange = "SDR"
	RangeHDR10     DynamicRange = "HDR10"
	RangeHDR10Plus DynamicRange = "HDR10+"
	RangeHLG       DynamicRange = "HLG"
	RangeDV        DynamicRange = "DV"
	RangeLLDV      DynamicRange = "LLDV"
)

// StreamDescriptor is the normalized technical metadata of one video
// file, produced by the probe collaborator. Width, height, and frame
// rate are mandatory; everything else has a usable zero value.
type StreamDescriptor struct {
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	FrameRate      Rational     `json:"frame_rate"`
	Codec          string       `json:"codec,omitempty"`
	ColorPrimaries string       `json:"color_primaries,omitempty"`
	ColorTransfer  string       `json:"color_transfer,omitempty"`
	ColorMatrix    string       `json:"color_matrix,omitempty"`
	DynamicRange   DynamicRange `json:"dynamic_range"`
	BitrateBps     int64        `json:"bitrate_bps,omitempty"`
	DurationSec    float64      `json:"duration_sec,omitempty"`
}

// UnsupportedDescriptorError reports a descriptor missing a mandatory
// field.
type UnsupportedDescriptorError struct {
	Field string
}

func (e *UnsupportedDescriptorError) Error() string {
	return fmt.Sprintf("unsupported descriptor: missing mandatory field %q", e.Field)
}

// Validate checks the mandatory fields.
func (d StreamDescriptor) Validate() error {
	switch {
	case d.Width <= 0:
		return &UnsupportedDescriptorError{Field: "width"}
	case d.Height <= 0:
		return &UnsupportedDescriptorError{Field: "height"}
	case d.FrameRate.IsZero():
		return &UnsupportedDescriptorError{Field: "frame_rate"}
	}
	return nil
}

// TargetProfile is a common library content format used as the
// comparison baseline for pre-roll matching.
type TargetProfile struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	FrameRate     Rational     `json:"frame_rate"`
	DynamicRange  DynamicRange `json:"dynamic_range"`
	ColorTransfer string       `json:"color_transfer"`
	Codec         string       `json:"codec"`
	Description   string       `json:"description"`
}

// DefaultProfileID is recommended when the caller expresses no
// preference; 4K HDR10 movies are the most common library content.
const DefaultProfileID = "4k_hdr10_24"

// Profiles lists the offered target formats in presentation order.
var Profiles = []TargetProfile{
	{
		ID: "4k_hdr10_24", Name: "4K HDR10 23.976fps (Movies)",
		Width: 3840, Height: 2160, FrameRate: Rational{Num: 24000, Den: 1001},
		DynamicRange: RangeHDR10, ColorTransfer: "smpte2084", Codec: "hevc",
		Description: "Most common format for 4K HDR movies",
	},
	{
		ID: "4k_hdr10_60", Name: "4K HDR10 60fps (Gaming/UI)",
		Width: 3840, Height: 2160, FrameRate: Rational{Num: 60, Den: 1},
		DynamicRange: RangeHDR10, ColorTransfer: "smpte2084", Codec: "hevc",
		Description: "For gaming or menu/UI content",
	},
	{
		ID: "4k_sdr_24", Name: "4K SDR 23.976fps (Movies)",
		Width: 3840, Height: 2160, FrameRate: Rational{Num: 24000, Den: 1001},
		DynamicRange: RangeSDR, ColorTransfer: "bt709", Codec: "hevc",
		Description: "For 4K SDR movie libraries",
	},
	{
		ID: "1080p_sdr_24", Name: "1080p SDR 23.976fps (Movies)",
		Width: 1920, Height: 1080, FrameRate: Rational{Num: 24000, Den: 1001},
		DynamicRange: RangeSDR, ColorTransfer: "bt709", Codec: "hevc",
		Description: "For 1080p movie libraries",
	},
	{
		ID: "1080p_hdr10_24", Name: "1080p HDR10 23.976fps (Movies)",
		Width: 1920, Height: 1080, FrameRate: Rational{Num: 24000, Den: 1001},
		DynamicRange: RangeHDR10, ColorTransfer: "smpte2084", Codec: "hevc",
		Description: "Rare, but some content is mastered this way",
	},
}

// ProfileByID returns the offered profile with the given identifier.
func ProfileByID(id string) (TargetProfile, bool) {
	for _, p := range Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return TargetProfile{}, false
}
