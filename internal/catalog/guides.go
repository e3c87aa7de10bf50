// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package catalog

// DeviceManual links a catalog device to its official documentation.
type DeviceManual struct {
	ManualURL     string `json:"manual_url"`
	QuickStartURL string `json:"quick_start_url,omitempty"`
	FirmwareURL   string `json:"firmware_url,omitempty"`
}

// DeviceManuals indexes documentation links by catalog device ID.
var DeviceManuals = map[string]DeviceManual{
	"epson_eh_ls12000b": {
		ManualURL:     "https://files.support.epson.com/docid/cpd5/cpd59971.pdf",
		QuickStartURL: "https://files.support.epson.com/docid/cpd5/cpd59972.pdf",
	},
	"jvc_dla_nz8": {
		ManualURL: "https://www.jvc.com/usa/projectors/instruction-manual/",
	},
	"yamaha_rx_a4a": {
		ManualURL:     "https://usa.yamaha.com/files/download/other_assets/7/1324417/RX-A4A_A6A_A8A_om_U_En.pdf",
		QuickStartURL: "https://usa.yamaha.com/files/download/other_assets/7/1324418/RX-A4A_A6A_A8A_qg_U_En.pdf",
	},
	"denon_avr_x3800h": {
		ManualURL: "https://manuals.denon.com/AVRX3800H/NA/EN/",
	},
	"nvidia_shield_pro": {
		ManualURL: "https://www.nvidia.com/en-us/shield/support/shield-tv/",
	},
	"apple_tv_4k": {
		ManualURL: "https://support.apple.com/guide/tv/welcome/tvos",
	},
	"xbox_series_x": {
		ManualURL: "https://support.xbox.com/help/hardware-network/console/xbox-series-x-s-manual",
	},
	"ps5": {
		ManualURL: "https://manuals.playstation.net/document/en/ps5/",
	},
	"vrroom": {
		ManualURL:   "https://www.hdfury.com/docs/HDfuryVRRoom.pdf",
		FirmwareURL: "https://www.hdfury.com/firmware/",
	},
}

// TuningStep is one numbered step in a speaker calibration guide.
type TuningStep struct {
	Step         int      `json:"step"`
	Title        string   `json:"title"`
	Instructions []string `json:"instructions"`
}

// TuningGuide describes one speaker calibration workflow.
type TuningGuide struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Manufacturer string            `json:"manufacturer"`
	Description  string            `json:"description"`
	Equipment    []string          `json:"equipment_needed"`
	Steps        []TuningStep      `json:"steps"`
	CommonIssues map[string]string `json:"common_issues,omitempty"`
	Tips         []string          `json:"tips"`
}

// TuningGuides lists the supported speaker calibration systems.
var TuningGuides = []TuningGuide{
	{
		ID:           "yamaha_ypao",
		Name:         "Yamaha YPAO (Yamaha Parametric Room Acoustic Optimizer)",
		Manufacturer: "Yamaha",
		Description:  "Automatic room calibration system included with Yamaha AV receivers.",
		Equipment: []string{
			"YPAO microphone (included with receiver)",
			"Microphone stand or tripod",
			"Quiet room during measurement",
		},
		Steps: []TuningStep{
			{Step: 1, Title: "Prepare the Room", Instructions: []string{
				"Turn off fans, AC, and other noise sources",
				"Remove obstacles between speakers and listening position",
				"Ensure all speakers are connected and powered",
			}},
			{Step: 2, Title: "Position the Microphone", Instructions: []string{
				"Place microphone at ear height at the main listening position",
				"Use a tripod or mic stand, pointed straight up",
				"Keep at least 3 feet from walls",
			}},
			{Step: 3, Title: "Run YPAO", Instructions: []string{
				"Navigate to: Setup > Speaker > YPAO",
				"Leave the room during measurement",
				"Wait for all test tones to complete",
			}},
			{Step: 4, Title: "Review and Apply", Instructions: []string{
				"Check for speaker wiring or phase errors",
				"Verify distances seem reasonable for your room",
				"Select the YPAO result to apply (Flat recommended for movies)",
			}},
		},
		CommonIssues: map[string]string{
			"Speaker Phase Error":  "Check speaker wire polarity (+/- connections). Swap if necessary.",
			"No Speaker Detected":  "Verify speaker is connected and working. Check wire connections.",
			"Distance Seems Wrong": "YPAO measures acoustic distance, not physical. Some variation is normal.",
			"Subwoofer Issues":     "Ensure sub is powered on, volume at 50%, crossover set to LFE or highest setting.",
		},
		Tips: []string{
			"Run YPAO after any room changes (furniture, acoustic treatments)",
			"Set the subwoofer volume to 50% before calibration",
			"Use YPAO-RSC (Reflected Sound Control) if available for room reflections",
			"Manual fine-tuning after YPAO is acceptable for personal preference",
		},
	},
	{
		ID:           "audyssey",
		Name:         "Audyssey MultEQ",
		Manufacturer: "Denon / Marantz",
		Description:  "Automatic room calibration system for Denon and Marantz receivers.",
		Equipment: []string{
			"Audyssey microphone (included with receiver)",
			"Microphone stand",
			"Audyssey app (optional, recommended for XT32)",
		},
		Steps: []TuningStep{
			{Step: 1, Title: "Prepare the Room", Instructions: []string{
				"Minimize ambient noise",
				"Set subwoofer volume to 75% (Audyssey will adjust)",
				"Set subwoofer crossover to maximum/LFE",
			}},
			{Step: 2, Title: "Position Microphone", Instructions: []string{
				"Place at primary listening position first, ear height when seated",
				"Use included stand with microphone facing up",
				"Keep away from surfaces and walls",
			}},
			{Step: 3, Title: "Run Audyssey Setup", Instructions: []string{
				"Navigate to: Setup > Speakers > Audyssey Setup",
				"Measure 3-8 positions; more positions give better averaging",
				"Follow prompts to move microphone between measurements",
			}},
			{Step: 4, Title: "Review and Apply", Instructions: []string{
				"Check speaker configuration detection",
				"Choose Audyssey mode: Reference, L/R Bypass, Flat, or Off",
			}},
		},
		CommonIssues: map[string]string{
			"Sub too loud/quiet": "Use Dynamic EQ or adjust sub trim after calibration",
			"Dialogue unclear":   "Try Audyssey Dynamic Volume or increase center level +2dB",
			"Bass lacking":       "Enable Dynamic EQ at -15dB reference level",
		},
		Tips: []string{
			"Use the Audyssey MultEQ-X app for curve customization",
			"Dynamic EQ compensates for low-volume listening",
			"Consider Dirac Live upgrade for XT32 receivers",
		},
	},
	{
		ID:           "dirac_live",
		Name:         "Dirac Live",
		Manufacturer: "Dirac Research",
		Description:  "Premium room correction available as upgrade for many receivers.",
		Equipment: []string{
			"Dirac Live calibration microphone (UMIK-1 or UMIK-2 recommended)",
			"Computer running Dirac Live software",
			"Measurement stand/tripod",
		},
		Steps: []TuningStep{
			{Step: 1, Title: "Setup Software", Instructions: []string{
				"Download Dirac Live from dirac.com",
				"Connect USB microphone to computer",
				"Launch Dirac Live and detect the receiver on the same network",
			}},
			{Step: 2, Title: "Measure Room", Instructions: []string{
				"Follow app prompts for 9-17 microphone positions around the listening area",
				"Keep microphone at ear height",
				"Stay out of the room during measurements",
			}},
			{Step: 3, Title: "Design Target Curve", Instructions: []string{
				"Use the default Dirac target or customize",
				"Preview before applying",
				"Save multiple filter slots for different preferences",
			}},
			{Step: 4, Title: "Apply Filters", Instructions: []string{
				"Upload filters to the receiver",
				"A/B test with Dirac on/off",
			}},
		},
		Tips: []string{
			"The UMIK-2 microphone is calibrated and provides better accuracy",
			"Bass Control (separate license) allows independent sub correction",
			"Create multiple filter slots for movies vs music",
		},
	},
	{
		ID:           "arc_genesis",
		Name:         "Anthem ARC Genesis",
		Manufacturer: "Anthem",
		Description:  "Room correction system for Anthem AV equipment.",
		Equipment: []string{
			"ARC Genesis microphone (included)",
			"Computer running ARC Genesis software",
		},
		Steps: []TuningStep{
			{Step: 1, Title: "Install Software", Instructions: []string{
				"Download ARC Genesis from anthemav.com",
				"Connect microphone via USB and join the receiver's network",
			}},
			{Step: 2, Title: "Run Measurements", Instructions: []string{
				"Place microphone at 5 positions minimum covering the listening area",
				"ARC calculates room response and corrections",
			}},
			{Step: 3, Title: "Review and Apply", Instructions: []string{
				"Examine frequency response graphs",
				"Adjust target curve if desired, then upload to the receiver",
			}},
		},
		Tips: []string{
			"ARC Genesis provides detailed measurement graphs",
			"Quick Measure option for simple setups",
		},
	},
	{
		ID:           "manual_speaker_setup",
		Name:         "Manual Speaker Setup (No Room Correction)",
		Manufacturer: "Universal",
		Description:  "Basic speaker setup without automatic room correction.",
		Equipment: []string{
			"Tape measure",
			"SPL meter (phone app works: NIOSH SLM, Sound Meter)",
			"Test tones (pink noise)",
		},
		Steps: []TuningStep{
			{Step: 1, Title: "Measure Distances", Instructions: []string{
				"Measure straight-line distance from each speaker to the primary listening position",
				"Enter distances in the receiver's speaker setup menu for time alignment",
			}},
			{Step: 2, Title: "Set Crossover Frequencies", Instructions: []string{
				"Small bookshelf speakers: 80-100Hz crossover",
				"Floor-standing speakers: 40-80Hz (or set to Large)",
				"Subwoofer: set the sub's own crossover to LFE/max, let the receiver manage",
			}},
			{Step: 3, Title: "Level Matching", Instructions: []string{
				"Use the receiver's test tone generator",
				"Adjust trim so all speakers read the same SPL at the listening position (75dB reference)",
				"Do not adjust the subwoofer by ear, use the meter",
			}},
			{Step: 4, Title: "Subwoofer Phase", Instructions: []string{
				"Play bass-heavy content",
				"Flip sub phase between 0 and 180 degrees",
				"Choose the setting with more bass at the listening position",
			}},
		},
		Tips: []string{
			"Reference level for movies is 85dB (main channels) / 95dB (LFE)",
			"Trust measurements over your ears for setup",
			"Reposition speakers before adding acoustic treatment",
		},
	},
}
