// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package recommend

import (
	"fmt"
	"strings"

	"github.com/mwrenn/avsignallab/internal/rules"
)

// Unmute delay proposals by goal. Latency and audio quality pull the
// delay in opposite directions; conflict resolution picks by goal
// priority.
const (
	unmuteDelayBonk    = 200
	unmuteDelaySlowAVR = 250
	unmuteDelayGaming  = 100
	unmuteDelayAudio   = 250
)

// slowHandshakeMs marks displays where format changes hurt most.
const slowHandshakeMs = 2500

func goalAvoidBonk(s *setup) goalOutput {
	var out goalOutput

	out.findings = append(out.findings, rules.Finding{
		Severity:    rules.SeverityCritical,
		Setting:     "preroll_format",
		Title:       "Match Pre-roll Format to Library Content",
		Description: "The primary cause of blank-screen handshakes is a format mismatch between pre-roll and main content. Encode the pre-roll at the same resolution, frame rate, HDR format, and codec as the most common library content (typically 4K HEVC HDR10 23.976fps).",
	})

	out.candidates = append(out.candidates, candidate{key: "edidmode", value: "automix"})

	unmute := unmuteDelayBonk
	if s.avr != nil && s.avr.HandshakeMs > 500 {
		unmute = unmuteDelaySlowAVR
	}
	out.candidates = append(out.candidates, candidate{key: "unmutedelay", value: unmute})
	out.findings = append(out.findings, rules.Finding{
		Severity:    rules.SeverityWarning,
		Setting:     "unmutedelay",
		Title:       fmt.Sprintf("Set Unmute Delay to %dms", unmute),
		Description: fmt.Sprintf("Balances audio pop prevention against responsiveness. Start at %dms and reduce if no pops occur.", unmute),
		Recommended: unmute,
	})

	if s.display != nil {
		if s.display.QMSSupport {
			out.findings = append(out.findings, rules.Finding{
				Severity:    rules.SeverityInfo,
				Title:       fmt.Sprintf("%s Supports QMS", s.display.Name),
				Description: "Quick Media Switching eliminates the blank screen on frame rate changes without any matrix involvement. Sources that also support QMS switch seamlessly.",
			})
		}
		if s.display.HandshakeMs >= slowHandshakeMs {
			out.findings = append(out.findings, rules.Finding{
				Severity:    rules.SeverityWarning,
				Title:       "Consider Fixed Output Resolution",
				Description: fmt.Sprintf("%s takes about %dms to complete a handshake. Set sources to always output 4K so only frame rate and HDR mode ever change.", s.display.Name, s.display.HandshakeMs),
			})
			if s.source != nil {
				out.source = append(out.source, SourceSetting{
					Setting: "Output Resolution",
					Value:   "4K (fixed)",
					Device:  s.source.Name,
					Reason:  "Prevents resolution-change handshake delays on slow displays.",
				})
			}
		}
	}

	if s.mediaServer != nil {
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityInfo,
			Title:       fmt.Sprintf("Pre-roll Format for %s", s.mediaServer.Name),
			Description: "Encode the pre-roll as 4K HEVC HDR10 23.976fps to match typical movie content. This removes the format switch between pre-roll and feature.",
		})
	}

	return out
}

func goalLLDVNonDV(s *setup) goalOutput {
	var out goalOutput

	if s.display != nil && s.display.NativeDV {
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityInfo,
			Title:       "Display Has Native Dolby Vision",
			Description: fmt.Sprintf("%s supports DV natively; LLDV conversion is not required. The matrix can pass DV through unchanged.", s.display.Name),
		})
		out.candidates = append(out.candidates, candidate{key: "ediddvflag", value: "on"})
		return out
	}

	if s.processor != nil && !s.processor.LLDVInjection {
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityCritical,
			Title:       "Processor Does Not Support LLDV",
			Description: fmt.Sprintf("%s cannot inject an LLDV EDID string. A Vrroom or Diva class device is required for LLDV conversion.", s.processor.Name),
		})
		return out
	}

	out.candidates = append(out.candidates,
		candidate{key: "edidmode", value: "automix"},
		candidate{key: "ediddvflag", value: "on"},
		candidate{key: "ediddvmode", value: 1},
		candidate{key: "edidhdrflag", value: "on"},
		candidate{key: "edidhdrmode", value: 1},
	)

	displayName := "the display"
	if s.display != nil {
		displayName = s.display.Name
	}
	out.findings = append(out.findings,
		rules.Finding{
			Severity:    rules.SeverityCritical,
			Setting:     "ediddvmode",
			Title:       "Enable LLDV in AutoMix Mode",
			Description: fmt.Sprintf("Set EDID to AutoMix with the DV flag enabled and an LLDV-compatible string. Sources then output LLDV, which the matrix converts to HDR10 for %s.", displayName),
		},
		rules.Finding{
			Severity:    rules.SeverityWarning,
			Setting:     "ediddvmode",
			Title:       "Select the LLDV DV String",
			Description: "On the matrix EDID page, under AutoMix > DV, select the X930E LLDV string. It is the recommended string for non-DV projectors.",
		},
	)

	if s.source != nil {
		if s.source.LLDVOutput {
			out.findings = append(out.findings, rules.Finding{
				Severity:    rules.SeverityInfo,
				Title:       fmt.Sprintf("%s Supports LLDV Output", s.source.Name),
				Description: "Once the EDID is configured, this source automatically outputs LLDV when DV content plays.",
			})
		} else if !s.source.DVOutput {
			out.findings = append(out.findings, rules.Finding{
				Severity:    rules.SeverityWarning,
				Title:       "Source Has No DV Output",
				Description: fmt.Sprintf("%s does not output Dolby Vision. Content falls back to HDR10.", s.source.Name),
			})
		}
	}

	return out
}

func goalHDRPassthrough(s *setup) goalOutput {
	var out goalOutput

	hdrMode := 1 // HDR10 + HLG
	if s.display != nil && supportsHDR10Plus(s.display.HDRSupport) {
		hdrMode = 2
	}

	out.candidates = append(out.candidates,
		candidate{key: "edidhdrflag", value: "on"},
		candidate{key: "edidhdrmode", value: hdrMode},
		candidate{key: "edidmode", value: "automix"},
		candidate{key: "hdcpmode", value: "auto"},
	)

	out.findings = append(out.findings, rules.Finding{
		Severity:    rules.SeverityCritical,
		Setting:     "edidhdrflag",
		Title:       "Enable HDR in EDID",
		Description: "The HDR flag must be set in the EDID for sources to output HDR content. HDR10/HLG mode gives the broadest compatibility.",
		Recommended: "on",
	})

	if s.display != nil && len(s.display.HDRSupport) > 0 {
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityInfo,
			Title:       fmt.Sprintf("Display HDR Support: %s", strings.Join(s.display.HDRSupport, ", ")),
			Description: fmt.Sprintf("%s supports %s. The EDID HDR mode has been set to match.", s.display.Name, strings.Join(s.display.HDRSupport, ", ")),
		})
	}

	out.findings = append(out.findings, rules.Finding{
		Severity:    rules.SeverityInfo,
		Setting:     "hdcpmode",
		Title:       "HDCP Set to Auto",
		Description: "Auto HDCP negotiates the right version per device. Forcing a version can make 4K HDR content fail outright.",
	})

	return out
}

func supportsHDR10Plus(formats []string) bool {
	for _, f := range formats {
		if f == "HDR10+" {
			return true
		}
	}
	return false
}

func goalGamingLowLatency(s *setup) goalOutput {
	var out goalOutput

	displayVRR := s.display != nil && s.display.VRRSupport
	displayALLM := s.display != nil && s.display.ALLMSupport
	procVRR := s.processor != nil && s.processor.VRRSupport
	procALLM := s.processor != nil && s.processor.ALLMSupport

	if s.display != nil && !displayVRR {
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityWarning,
			Title:       fmt.Sprintf("%s Does Not Support VRR", s.display.Name),
			Description: "Gaming works at fixed refresh rates only; a VRR flag in the EDID would have no effect for this display.",
		})
	}
	if s.display != nil && !displayALLM {
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityInfo,
			Title:       fmt.Sprintf("%s Does Not Support ALLM", s.display.Name),
			Description: "Switch the display to game/fast mode manually when gaming.",
		})
	}

	if procVRR && displayVRR {
		out.candidates = append(out.candidates, candidate{key: "edidvrrflag", value: "on"})
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityCritical,
			Setting:     "edidvrrflag",
			Title:       "Enable VRR Passthrough",
			Description: "Both the processor and the display support VRR. Enable passthrough for tear-free gaming.",
			Recommended: "on",
		})
	}
	if procALLM && displayALLM {
		out.candidates = append(out.candidates, candidate{key: "edidallmflag", value: "on"})
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityInfo,
			Setting:     "edidallmflag",
			Title:       "ALLM Passthrough Enabled",
			Description: "The display switches to game mode automatically when gaming content is detected.",
		})
	}

	out.candidates = append(out.candidates, candidate{key: "hdrcustom", value: "off"})
	out.findings = append(out.findings, rules.Finding{
		Severity:    rules.SeverityWarning,
		Setting:     "hdrcustom",
		Title:       "Disable Custom HDR Injection for Gaming",
		Description: "Custom HDR injection adds processing overhead. It auto-disables under VRR, but turning it off explicitly avoids edge cases.",
		Recommended: "off",
	})

	out.candidates = append(out.candidates, candidate{key: "unmutedelay", value: unmuteDelayGaming})
	out.findings = append(out.findings, rules.Finding{
		Severity:    rules.SeverityInfo,
		Setting:     "unmutedelay",
		Title:       "Minimize Unmute Delay for Gaming",
		Description: fmt.Sprintf("Set the unmute delay to %dms to keep audio latency low during gaming.", unmuteDelayGaming),
		Recommended: unmuteDelayGaming,
	})

	if s.source != nil && s.source.MaxRefresh >= 120 {
		out.source = append(out.source, SourceSetting{
			Setting: "Output Resolution",
			Value:   "4K 120Hz",
			Device:  s.source.Name,
			Reason:  "Maximum refresh rate for the smoothest gaming.",
		})
	}

	return out
}

func goalBestAudio(s *setup) goalOutput {
	var out goalOutput

	avrEARC := s.avr != nil && s.avr.EARCSupport
	procEARC := s.processor != nil && s.processor.EARCSupport
	atmos := s.speakers != nil && s.speakers.AtmosCapable
	soundbar := s.speakers != nil && strings.Contains(s.speakers.ID, "soundbar")

	switch {
	case avrEARC && procEARC:
		out.candidates = append(out.candidates, candidate{key: "earc", value: "on"})
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityCritical,
			Setting:     "earc",
			Title:       "Use eARC for Audio Routing",
			Description: "Both the AVR and the processor support eARC. Route audio over eARC for lossless Atmos/DTS:X passthrough, and power the eARC device on before the source.",
			Recommended: "on",
		})
	case soundbar && procEARC:
		out.candidates = append(out.candidates, candidate{key: "earc", value: "on"})
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityWarning,
			Setting:     "earc",
			Title:       "eARC for Soundbar",
			Description: "Enable eARC mode for the soundbar connection. ARC-only soundbars need ARC mode instead.",
			Recommended: "on",
		})
	}

	if atmos {
		if s.source != nil {
			out.source = append(out.source, SourceSetting{
				Setting: "Audio Output",
				Value:   "Bitstream (passthrough)",
				Device:  s.source.Name,
				Reason:  "Bitstream passes lossless Atmos/DTS:X to the AVR for decoding.",
			})
		}
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityInfo,
			Title:       "Atmos Speaker Layout Detected",
			Description: fmt.Sprintf("The %s layout supports Atmos. Set every source to bitstream output for lossless passthrough.", s.speakers.Name),
		})
	}

	out.candidates = append(out.candidates, candidate{key: "unmutedelay", value: unmuteDelayAudio})
	out.findings = append(out.findings, rules.Finding{
		Severity:    rules.SeverityInfo,
		Setting:     "unmutedelay",
		Title:       fmt.Sprintf("Audio-Safe Unmute Delay: %dms", unmuteDelayAudio),
		Description: fmt.Sprintf("A %dms unmute delay prevents pops when formats switch. Reduce it if no pops occur, raise it if they persist.", unmuteDelayAudio),
		Recommended: unmuteDelayAudio,
	})

	return out
}

func goalFixPreroll(s *setup) goalOutput {
	var out goalOutput

	out.findings = append(out.findings,
		rules.Finding{
			Severity:    rules.SeverityCritical,
			Title:       "Pre-roll Format Must Match Main Content",
			Description: "Seeing only one frame with audio usually means the display is mid-handshake when content starts: the switch from pre-roll format to content format takes 2-3 seconds, during which the display shows nothing while the AVR keeps playing. Re-encode the pre-roll to the library's dominant format.",
		},
		rules.Finding{
			Severity:    rules.SeverityCritical,
			Title:       "Recommended Pre-roll Encoding",
			Description: "Encode the pre-roll as 3840x2160 HEVC HDR10 (BT.2020, SMPTE ST 2084) 23.976fps 10-bit. This matches the most common 4K movie format.",
		},
		rules.Finding{
			Severity:    rules.SeverityWarning,
			Title:       "Analyze the Current Pre-roll",
			Description: "Run the current pre-roll through the format analyzer to get the exact re-encode command for the optimal format.",
		},
	)

	out.candidates = append(out.candidates, candidate{key: "edidmode", value: "automix"})

	if s.mediaServer != nil {
		if s.mediaServer.ID == "emby" {
			out.findings = append(out.findings, rules.Finding{
				Severity:    rules.SeverityInfo,
				Title:       "Emby Pre-roll Known Issue",
				Description: "Emby cinema intros show only one frame when there is a format mismatch. Re-encoding the pre-roll to match content format resolves it.",
			})
		}
		out.findings = append(out.findings, rules.Finding{
			Severity:    rules.SeverityInfo,
			Title:       fmt.Sprintf("Test with Multiple %s Clients", s.mediaServer.Name),
			Description: "Confirm the issue is handshake related by testing pre-roll playback from web, mobile, and TV clients.",
		})
	}

	return out
}

func goalMinimizeFormatSwitch(s *setup) goalOutput {
	var out goalOutput

	out.findings = append(out.findings, rules.Finding{
		Severity:    rules.SeverityCritical,
		Title:       "Set Source to Fixed Output Format",
		Description: "Configure the source to output a fixed 4K resolution and let the matrix handle conversion. Only frame rate matching should change the signal.",
	})

	if s.source != nil {
		if s.source.MatchFrameRate {
			out.source = append(out.source, SourceSetting{
				Setting: "Match Frame Rate",
				Value:   "Enabled",
				Device:  s.source.Name,
				Reason:  "Frame rate changes cause far shorter handshakes than resolution changes.",
			})
		}
		out.source = append(out.source, SourceSetting{
			Setting: "Output Resolution",
			Value:   "4K (always)",
			Device:  s.source.Name,
			Reason:  "Fixed 4K output prevents resolution-triggered handshakes.",
		})
		if s.source.ID == "apple_tv_4k" {
			out.source = append(out.source, SourceSetting{
				Setting: "Video Format",
				Value:   "4K SDR 60Hz",
				Device:  s.source.Name,
				Reason:  "Set the base format to 4K SDR and let Match Content handle HDR and frame rate.",
			})
		}
	}

	out.candidates = append(out.candidates, candidate{key: "edidmode", value: "automix"})
	out.findings = append(out.findings, rules.Finding{
		Severity:    rules.SeverityInfo,
		Setting:     "edidmode",
		Title:       "AutoMix Prevents EDID Re-reads",
		Description: "AutoMix presents a stable EDID to sources, so they never re-read it and trigger surprise handshakes.",
	})

	return out
}
