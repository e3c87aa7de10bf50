// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package catalog

// builtinProfiles returns the curated equipment knowledge base. Profiles
// are rebuilt on every call so callers can never mutate shared state.
func builtinProfiles() map[Category]map[string]Device {
	tables := map[Category][]Device{
		CategoryDisplay:     displays,
		CategoryProcessor:   processors,
		CategoryAVR:         avrs,
		CategorySource:      sources,
		CategorySpeakers:    speakers,
		CategoryMediaServer: mediaServers,
	}

	out := make(map[Category]map[string]Device, len(tables))
	for cat, list := range tables {
		m := make(map[string]Device, len(list))
		for _, d := range list {
			d.Category = cat
			m[d.ID] = d
		}
		out[cat] = m
	}
	return out
}

var displays = []Device{
	{
		ID: "epson_eh_ls12000b", Name: "Epson EH-LS12000b", Type: "projector",
		LLDVCompatible: true, HDRSupport: []string{"HDR10", "HLG"}, MaxRefresh: 120,
		HandshakeMs: 2500,
		Notes:       "Use LLDV for Dolby Vision content. Native HDR10 support excellent. Laser light source.",
	},
	{
		ID: "jvc_dla_nz7", Name: "JVC DLA-NZ7", Type: "projector",
		LLDVCompatible: true, HDRSupport: []string{"HDR10", "HLG"}, MaxRefresh: 120,
		HandshakeMs: 3000,
		Notes:       "E-shift 4K. Good candidate for LLDV via HDMI processor. Frame Adapt HDR tone mapping.",
	},
	{
		ID: "jvc_dla_nz8", Name: "JVC DLA-NZ8", Type: "projector",
		LLDVCompatible: true, HDRSupport: []string{"HDR10", "HLG", "HDR10+"}, MaxRefresh: 120,
		HandshakeMs: 3000,
		Notes:       "Excellent tone mapping via Frame Adapt HDR.",
	},
	{
		ID: "jvc_dla_nz9", Name: "JVC DLA-NZ9", Type: "projector",
		LLDVCompatible: true, HDRSupport: []string{"HDR10", "HLG", "HDR10+"}, MaxRefresh: 60,
		HandshakeMs: 3200,
		Notes:       "Flagship with 8K e-shift. Frame Adapt HDR. Best candidate for LLDV.",
	},
	{
		ID: "sony_vpl_xw5000", Name: "Sony VPL-XW5000ES", Type: "projector",
		LLDVCompatible: true, HDRSupport: []string{"HDR10", "HLG"}, MaxRefresh: 120,
		HandshakeMs: 2000,
		Notes:       "Entry Sony native 4K laser. Excellent for LLDV.",
	},
	{
		ID: "sony_vpl_xw7000", Name: "Sony VPL-XW7000ES", Type: "projector",
		LLDVCompatible: true, HDRSupport: []string{"HDR10", "HLG"}, MaxRefresh: 120,
		HandshakeMs: 2000,
		Notes:       "Native 4K SXRD panel. Fast HDMI handshake. Good HDR tone mapping.",
	},
	{
		ID: "benq_w5800", Name: "BenQ W5800", Type: "projector",
		LLDVCompatible: true, HDRSupport: []string{"HDR10", "HLG"}, MaxRefresh: 60,
		HandshakeMs: 2800,
		Notes:       "Laser DLP projector. Use LLDV for DV content.",
	},
	{
		ID: "optoma_uhz50", Name: "Optoma UHZ50", Type: "projector",
		LLDVCompatible: true, HDRSupport: []string{"HDR10", "HLG"}, MaxRefresh: 60,
		HandshakeMs: 2500,
		Notes:       "Laser 4K DLP. Good for LLDV conversion.",
	},
	{
		ID: "lg_c1_oled", Name: "LG C1 OLED", Type: "tv",
		NativeDV: true, LLDVCompatible: true,
		HDRSupport: []string{"HDR10", "HLG", "Dolby Vision"}, MaxRefresh: 120,
		VRRSupport: true, ALLMSupport: true, EARCSupport: true, HandshakeMs: 1600,
		Notes: "Native DV. Older but still excellent OLED. Common custom EDID reference.",
	},
	{
		ID: "lg_c2_oled", Name: "LG C2 OLED", Type: "tv",
		NativeDV: true, LLDVCompatible: true,
		HDRSupport: []string{"HDR10", "HLG", "Dolby Vision"}, MaxRefresh: 120,
		VRRSupport: true, ALLMSupport: true, QMSSupport: true, EARCSupport: true,
		HandshakeMs: 1500,
		Notes:       "Native DV. QMS support. Popular gaming OLED.",
	},
	{
		ID: "lg_c3_oled", Name: "LG C3 OLED", Type: "tv",
		NativeDV: true, LLDVCompatible: true,
		HDRSupport: []string{"HDR10", "HLG", "Dolby Vision"}, MaxRefresh: 120,
		VRRSupport: true, ALLMSupport: true, QMSSupport: true, HandshakeMs: 1500,
		Notes: "Native DV support. QMS eliminates mode-switch dropouts without an HDMI processor.",
	},
	{
		ID: "lg_c4_oled", Name: "LG C4 OLED", Type: "tv",
		NativeDV: true, LLDVCompatible: true,
		HDRSupport: []string{"HDR10", "HLG", "Dolby Vision"}, MaxRefresh: 144,
		VRRSupport: true, ALLMSupport: true, EARCSupport: true, HandshakeMs: 1400,
		Notes: "Native DV support. VRR up to 4K@144Hz.",
	},
	{
		ID: "lg_g4_oled", Name: "LG G4 OLED", Type: "tv",
		NativeDV: true, LLDVCompatible: true,
		HDRSupport: []string{"HDR10", "HLG", "Dolby Vision"}, MaxRefresh: 144,
		VRRSupport: true, ALLMSupport: true, EARCSupport: true, HandshakeMs: 1300,
		Notes: "MLA panel, brightest LG OLED. Native DV.",
	},
	{
		ID: "sony_a95k_oled", Name: "Sony A95K QD-OLED", Type: "tv",
		NativeDV: true, LLDVCompatible: true,
		HDRSupport: []string{"HDR10", "HLG", "Dolby Vision"}, MaxRefresh: 120,
		VRRSupport: true, ALLMSupport: true, EARCSupport: true, HandshakeMs: 1600,
		Notes: "QD-OLED with excellent DV tone mapping.",
	},
	{
		ID: "sony_a95l_oled", Name: "Sony A95L QD-OLED", Type: "tv",
		NativeDV: true, LLDVCompatible: true,
		HDRSupport: []string{"HDR10", "HLG", "Dolby Vision"}, MaxRefresh: 120,
		VRRSupport: true, ALLMSupport: true, HandshakeMs: 1600,
		Notes: "Native DV with excellent QD-OLED HDR.",
	},
	{
		ID: "sony_x95l", Name: "Sony X95L Mini LED", Type: "tv",
		NativeDV: true, LLDVCompatible: true,
		HDRSupport: []string{"HDR10", "HLG", "Dolby Vision"}, MaxRefresh: 120,
		VRRSupport: true, ALLMSupport: true, HandshakeMs: 1500,
		Notes: "Flagship Mini LED. Native DV.",
	},
	{
		ID: "samsung_qn90c", Name: "Samsung QN90C", Type: "tv",
		HDRSupport: []string{"HDR10", "HDR10+", "HLG"}, MaxRefresh: 120,
		VRRSupport: true, ALLMSupport: true, HandshakeMs: 1800,
		Notes: "No DV support. Use HDR10+ when available, HDR10 fallback.",
	},
	{
		ID: "samsung_qn95c", Name: "Samsung QN95C Neo QLED", Type: "tv",
		HDRSupport: []string{"HDR10", "HDR10+", "HLG"}, MaxRefresh: 144,
		VRRSupport: true, ALLMSupport: true, EARCSupport: true, HandshakeMs: 1400,
		Notes: "Flagship Neo QLED. No DV, use HDR10+.",
	},
	{
		ID: "samsung_s95d_oled", Name: "Samsung S95D QD-OLED", Type: "tv",
		HDRSupport: []string{"HDR10", "HDR10+", "HLG"}, MaxRefresh: 144,
		VRRSupport: true, ALLMSupport: true, HandshakeMs: 1300,
		Notes: "QD-OLED with excellent HDR peak brightness. No DV support.",
	},
}

var processors = []Device{
	{
		ID: "vrroom", Name: "HDFury Vrroom", Type: "hdmi_processor",
		Inputs: 2, Outputs: 2, LLDVInjection: true,
		VRRSupport: true, ALLMSupport: true, EARCSupport: true,
		EDIDModes:       []string{"automix", "custom", "fixed", "copytx0", "copytx1"},
		CustomEDIDSlots: 10,
		Notes:           "Full-featured HDMI matrix with LLDV injection and eARC support.",
	},
	{
		ID: "vertex2", Name: "HDFury Vertex2", Type: "hdmi_processor",
		Inputs: 2, Outputs: 2, LLDVInjection: true,
		VRRSupport: true, ALLMSupport: true,
		EDIDModes:       []string{"automix", "custom", "fixed", "copytx0", "copytx1"},
		CustomEDIDSlots: 10,
		Notes:           "18Gbps matrix. Good for dual-display setups without eARC needs.",
	},
	{
		ID: "diva", Name: "HDFury Diva", Type: "hdmi_processor",
		Inputs: 4, Outputs: 2, LLDVInjection: true,
		VRRSupport: true, ALLMSupport: true, EARCSupport: true,
		EDIDModes:       []string{"automix", "custom", "fixed", "copytx0", "copytx1"},
		CustomEDIDSlots: 10,
		Notes:           "4-input matrix with LLDV and a dedicated LLDV EDID bank.",
	},
	{
		ID: "integral_2", Name: "HDFury Integral 2", Type: "hdmi_processor",
		Inputs: 2, Outputs: 2, LLDVInjection: true,
		EDIDModes:       []string{"automix", "custom", "fixed", "copytx0", "copytx1"},
		CustomEDIDSlots: 10,
		Notes:           "Legacy 18Gbps device. AutoMix DV supported.",
	},
	{
		ID: "arcana", Name: "HDFury Arcana", Type: "hdmi_processor",
		Inputs: 1, Outputs: 1,
		VRRSupport: true, ALLMSupport: true, EARCSupport: true,
		EDIDModes: []string{"automix"},
		Notes:     "eARC adapter. Adds eARC to non-eARC AVRs and soundbars. No LLDV.",
	},
	{
		ID: "avr_key", Name: "HDFury AVR-Key", Type: "hdmi_processor",
		Inputs: 1, Outputs: 1, LLDVInjection: true,
		EDIDModes:       []string{"automix", "custom"},
		CustomEDIDSlots: 10,
		Notes:           "HDMI audio extractor with LLDV injection. Good for older AVRs.",
	},
}

var avrs = []Device{
	{
		ID: "denon_avr_x3800h", Name: "Denon AVR-X3800H", Type: "avr",
		EARCSupport: true, AtmosCapable: true,
		VRRSupport: true, ALLMSupport: true, HandshakeMs: 600,
		RoomCorrection: "Audyssey MultEQ XT32",
		Notes:          "Excellent HDMI 2.1 passthrough. Dirac Live upgrade available.",
	},
	{
		ID: "denon_avr_x4800h", Name: "Denon AVR-X4800H", Type: "avr",
		EARCSupport: true, AtmosCapable: true,
		VRRSupport: true, ALLMSupport: true, HandshakeMs: 600,
		RoomCorrection: "Audyssey MultEQ XT32",
		Notes:          "11.4ch processing. Dirac Live ready.",
	},
	{
		ID: "yamaha_rx_a4a", Name: "Yamaha RX-A4A", Type: "avr",
		EARCSupport: true, AtmosCapable: true,
		VRRSupport: true, ALLMSupport: true, HandshakeMs: 500,
		RoomCorrection: "YPAO",
		Notes:          "Good HDMI 2.1 passthrough. Use eARC for best audio from TV apps.",
	},
	{
		ID: "yamaha_rx_a6a", Name: "Yamaha RX-A6A", Type: "avr",
		EARCSupport: true, AtmosCapable: true,
		VRRSupport: true, ALLMSupport: true, HandshakeMs: 500,
		RoomCorrection: "YPAO",
		Notes:          "11.2ch processing with YPAO room correction.",
	},
	{
		ID: "marantz_cinema_50", Name: "Marantz Cinema 50", Type: "avr",
		EARCSupport: true, AtmosCapable: true,
		VRRSupport: true, ALLMSupport: true, HandshakeMs: 600,
		RoomCorrection: "Audyssey MultEQ XT32",
		Notes:          "Marantz house sound with full HDMI 2.1 board.",
	},
	{
		ID: "sony_str_an1000", Name: "Sony STR-AN1000", Type: "avr",
		EARCSupport: true, AtmosCapable: true,
		VRRSupport: true, ALLMSupport: true, HandshakeMs: 700,
		RoomCorrection: "D.C.A.C. IX",
		Notes:          "Midrange Sony AVR with 360 Spatial Sound Mapping.",
	},
}

var sources = []Device{
	{
		ID: "nvidia_shield_pro", Name: "Nvidia Shield Pro", Type: "streamer",
		DVOutput: true, LLDVOutput: true, MaxRefresh: 60,
		MatchFrameRate: true, MatchResolution: true,
		Notes: "Enable match frame rate and match resolution in settings.",
	},
	{
		ID: "apple_tv_4k", Name: "Apple TV 4K (2022)", Type: "streamer",
		DVOutput: true, LLDVOutput: true, MaxRefresh: 60,
		MatchFrameRate: true,
		Notes:          "Set to 4K SDR 60Hz with match content enabled for best results.",
	},
	{
		ID: "zidoo_z9x_pro", Name: "Zidoo Z9X Pro", Type: "media_player",
		DVOutput: true, LLDVOutput: true, MaxRefresh: 60,
		MatchFrameRate: true, MatchResolution: true,
		Notes: "Excellent format switching. VS10 engine for DV conversion.",
	},
	{
		ID: "kaleidescape_strato", Name: "Kaleidescape Strato", Type: "media_player",
		DVOutput: true, MaxRefresh: 60,
		MatchFrameRate: true, MatchResolution: true,
		Notes: "Premium media player with reliable repeater-mode behavior.",
	},
	{
		ID: "xbox_series_x", Name: "Xbox Series X", Type: "console",
		DVOutput: true, MaxRefresh: 120,
		VRRSupport: true, ALLMSupport: true, QMSSupport: true,
		Notes: "Gaming source with QMS. Enable VRR/ALLM for best gaming experience.",
	},
	{
		ID: "ps5", Name: "PlayStation 5", Type: "console",
		MaxRefresh: 120,
		VRRSupport: true, ALLMSupport: true, QMSSupport: true,
		Notes: "HDR10 gaming with QMS. No DV support. VRR available.",
	},
}

var speakers = []Device{
	{
		ID: "stereo_2_0", Name: "2.0 Stereo", Type: "speaker_layout",
		Layout: "2.0", Channels: 2,
		Notes: "Basic stereo. PCM or compressed stereo only.",
	},
	{
		ID: "surround_5_1", Name: "5.1 Surround", Type: "speaker_layout",
		Layout: "5.1", Channels: 5, SubChannels: 1,
		Notes: "Standard surround. Supports DD/DTS via bitstream.",
	},
	{
		ID: "surround_7_1", Name: "7.1 Surround", Type: "speaker_layout",
		Layout: "7.1", Channels: 7, SubChannels: 1,
		Notes: "Extended surround. Supports lossless TrueHD/DTS-HD via bitstream.",
	},
	{
		ID: "atmos_5_1_2", Name: "5.1.2 Atmos", Type: "speaker_layout",
		Layout: "5.1.2", Channels: 5, OverheadChannels: 2, SubChannels: 1,
		AtmosCapable: true,
		Notes:        "Entry Atmos. 2 overhead channels for height effects.",
	},
	{
		ID: "atmos_5_1_4", Name: "5.1.4 Atmos", Type: "speaker_layout",
		Layout: "5.1.4", Channels: 5, OverheadChannels: 4, SubChannels: 1,
		AtmosCapable: true,
		Notes:        "Full Atmos with 4 overhead channels. Recommended minimum for immersive audio.",
	},
	{
		ID: "atmos_7_1_4", Name: "7.1.4 Atmos", Type: "speaker_layout",
		Layout: "7.1.4", Channels: 7, OverheadChannels: 4, SubChannels: 1,
		AtmosCapable: true,
		Notes:        "Reference Atmos layout. 7 ear-level + 4 overhead + subwoofer.",
	},
	{
		ID: "atmos_7_2_4", Name: "7.2.4 Atmos", Type: "speaker_layout",
		Layout: "7.2.4", Channels: 7, OverheadChannels: 4, SubChannels: 2,
		AtmosCapable: true,
		Notes:        "Reference Atmos with dual subs for even bass distribution.",
	},
	{
		ID: "soundbar_atmos", Name: "Soundbar (Atmos)", Type: "speaker_layout",
		Layout:       "varies",
		AtmosCapable: true,
		Notes:        "Soundbar via eARC/ARC. Ensure eARC mode is set correctly on the matrix.",
	},
	{
		ID: "soundbar_basic", Name: "Soundbar (Basic)", Type: "speaker_layout",
		Layout: "varies",
		Notes:  "Basic soundbar via ARC. May need ARC mode rather than eARC.",
	},
}

var mediaServers = []Device{
	{
		ID: "plex", Name: "Plex", Type: "media_server",
		PrerollSupport: true,
		PrerollPaths: map[string]string{
			"linux":  "/var/lib/plexmediaserver/Library/Application Support/Plex Media Server/preroll.mp4",
			"docker": "/config/Library/Application Support/Plex Media Server/preroll.mp4",
			"macos":  "~/Library/Application Support/Plex Media Server/preroll.mp4",
		},
		PrerollConfigPath: "Settings > Extras > Cinema Trailers Pre-roll Video",
		Notes:             "Set pre-roll in Settings > Extras. No automatic format matching. Use full file path.",
	},
	{
		ID: "jellyfin", Name: "Jellyfin", Type: "media_server",
		PrerollSupport: true,
		PrerollPaths: map[string]string{
			"linux":  "/var/lib/jellyfin/data/intros/preroll.mp4",
			"docker": "/config/data/intros/preroll.mp4",
			"macos":  "~/.local/share/jellyfin/data/intros/preroll.mp4",
		},
		PrerollConfigPath: "Dashboard > Plugins > Intros > Configure",
		Notes:             "Pre-roll via the Intros plugin pointed at a folder of videos.",
	},
	{
		ID: "emby", Name: "Emby", Type: "media_server",
		PrerollSupport: true,
		PrerollPaths: map[string]string{
			"linux":  "/var/lib/emby/intros/preroll.mp4",
			"docker": "/config/intros/preroll.mp4",
			"macos":  "~/.emby-server/intros/preroll.mp4",
		},
		PrerollConfigPath: "Settings > Advanced > Cinema Mode Intros",
		Notes:             "Cinema intros feature. Pre-roll format must match the movie format to avoid the 1-frame display bug.",
	},
	{
		ID: "kodi", Name: "Kodi", Type: "media_server",
		PrerollSupport: true,
		PrerollPaths: map[string]string{
			"linux":     "~/.kodi/userdata/addon_data/script.cinemavision/",
			"libreelec": "/storage/.kodi/userdata/addon_data/script.cinemavision/",
		},
		PrerollConfigPath: "Add-ons > CinemaVision > Settings > Sequences",
		Notes:             "CinemaVision addon for pre-roll. Best for HTPC setups with direct display connection.",
	},
}
