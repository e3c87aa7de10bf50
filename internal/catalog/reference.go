// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package catalog

import (
	"fmt"
	"strconv"
)

// EDIDPreset documents one EDID generation mode on the HDMI matrix.
type EDIDPreset struct {
	Mode        string `json:"mode"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UseCase     string `json:"use_case"`
	DVSupport   string `json:"dv_support"`
	Command     string `json:"command"`
}

// EDIDPresets lists the matrix EDID modes in recommendation order.
var EDIDPresets = []EDIDPreset{
	{
		Mode:        "automix",
		Name:        "AutoMix (Recommended)",
		Description: "Combines sink EDID with custom modifications. Best for mixed content.",
		UseCase:     "Default choice for most setups",
		DVSupport:   "Supports LLDV injection",
		Command:     "#vrroom set edidmode automix",
	},
	{
		Mode:        "custom",
		Name:        "Custom EDID",
		Description: "Use one of 10 custom EDID slots. Full control over capabilities.",
		UseCase:     "When sink EDID causes issues or specific caps needed",
		DVSupport:   "Depends on custom EDID loaded",
		Command:     "#vrroom set edidmode custom",
	},
	{
		Mode:        "copytx0",
		Name:        "Copy TX0",
		Description: "Pass through TX0 sink EDID unmodified",
		UseCase:     "Troubleshooting or when full sink capabilities needed",
		DVSupport:   "Depends on sink",
		Command:     "#vrroom set edidmode copytx0",
	},
	{
		Mode:        "copytx1",
		Name:        "Copy TX1",
		Description: "Pass through TX1 sink EDID unmodified",
		UseCase:     "Matrix setups with secondary display",
		DVSupport:   "Depends on sink",
		Command:     "#vrroom set edidmode copytx1",
	},
	{
		Mode:        "fixed",
		Name:        "Fixed EDID",
		Description: "Use factory default EDID",
		UseCase:     "Fallback when other modes fail",
		DVSupport:   "Basic HDR only",
		Command:     "#vrroom set edidmode fixed",
	},
}

// DVString documents one Dolby Vision capability string the matrix can
// advertise in its EDID.
type DVString struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Mode        int    `json:"mode"`
	Description string `json:"description"`
}

var DVStrings = []DVString{
	{ID: "lgc1", Name: "LG C1", Mode: 0, Description: "Standard DV string compatible with most sources"},
	{ID: "custom", Name: "Custom", Mode: 1, Description: "User-defined DV capabilities"},
	{ID: "x930e", Name: "Sony X930E LLDV", Description: "Low latency DV for non-DV displays"},
	{ID: "z9d", Name: "Sony Z9D Custom", Description: "Custom DV string for specific compatibility"},
}

// SettingMeta maps a raw matrix setting key to its human-readable name,
// web UI location, and value labels. Values is nil for free-form
// numeric settings; ValueHint describes those instead.
type SettingMeta struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	MenuPath    string            `json:"menu_path"`
	Tab         string            `json:"tab"`
	Values      map[string]string `json:"values,omitempty"`
	ValueHint   string            `json:"value_hint,omitempty"`
	Description string            `json:"description"`
}

// SettingsMeta indexes matrix settings by wire key.
var SettingsMeta = map[string]SettingMeta{
	"edidmode": {
		Key: "edidmode", Name: "EDID Mode",
		MenuPath: "Vrroom Web UI > EDID > MODE", Tab: "EDID",
		Values: map[string]string{
			"automix": "AutoMix (Recommended)",
			"custom":  "Custom EDID",
			"fixed":   "Fixed",
			"copytx0": "Copy TX0",
			"copytx1": "Copy TX1",
		},
		Description: "How EDID is generated for connected sources",
	},
	"ediddvflag": {
		Key: "ediddvflag", Name: "Dolby Vision EDID Flag",
		MenuPath: "Vrroom Web UI > EDID > DV FLAG", Tab: "EDID",
		Values:      map[string]string{"on": "Enabled", "off": "Disabled"},
		Description: "Include Dolby Vision capability in EDID",
	},
	"ediddvmode": {
		Key: "ediddvmode", Name: "Dolby Vision Mode",
		MenuPath: "Vrroom Web UI > EDID > DV MODE", Tab: "EDID",
		Values:      map[string]string{"0": "LG C1 (Standard)", "1": "Custom", "2": "Remove DV"},
		Description: "Which DV profile to advertise",
	},
	"edidhdrflag": {
		Key: "edidhdrflag", Name: "HDR EDID Flag",
		MenuPath: "Vrroom Web UI > EDID > HDR FLAG", Tab: "EDID",
		Values:      map[string]string{"on": "Enabled", "off": "Disabled"},
		Description: "Include HDR capability in EDID",
	},
	"edidhdrmode": {
		Key: "edidhdrmode", Name: "HDR Mode",
		MenuPath: "Vrroom Web UI > EDID > HDR MODE", Tab: "EDID",
		Values: map[string]string{
			"0": "HDR10 only",
			"1": "HDR10 + HLG",
			"2": "HDR10+",
			"3": "HDR10+ + HLG",
			"4": "Remove HDR",
		},
		Description: "Which HDR formats to advertise in EDID",
	},
	"lldv": {
		Key: "lldv", Name: "LLDV (Low Latency DV)",
		MenuPath: "Vrroom Web UI > EDID > LLDV", Tab: "EDID",
		Values:      map[string]string{"on": "Enabled", "off": "Disabled"},
		Description: "Enable LLDV conversion for non-DV displays",
	},
	"unmutedelay": {
		Key: "unmutedelay", Name: "Audio Unmute Delay",
		MenuPath: "Vrroom Web UI > AUDIO > UNMUTE DELAY", Tab: "AUDIO",
		ValueHint:   "milliseconds, 0-2000",
		Description: "Delay before unmuting audio after format change to prevent pops",
	},
	"hdcpmode": {
		Key: "hdcpmode", Name: "HDCP Mode",
		MenuPath: "Vrroom Web UI > SIGNAL > HDCP", Tab: "SIGNAL",
		Values:      map[string]string{"auto": "Auto (Recommended)", "1.4": "Force HDCP 1.4", "2.2": "Force HDCP 2.2"},
		Description: "HDCP version negotiation policy",
	},
	"cec": {
		Key: "cec", Name: "CEC",
		MenuPath: "Vrroom Web UI > SIGNAL > CEC", Tab: "SIGNAL",
		Values:      map[string]string{"on": "Enabled", "off": "Disabled"},
		Description: "Consumer Electronics Control passthrough",
	},
	"vrr": {
		Key: "vrr", Name: "VRR (Variable Refresh Rate)",
		MenuPath: "Vrroom Web UI > SIGNAL > VRR", Tab: "SIGNAL",
		Values:      map[string]string{"on": "Enabled", "off": "Disabled", "force": "Force On"},
		Description: "Variable Refresh Rate passthrough or injection",
	},
	"allm": {
		Key: "allm", Name: "ALLM (Auto Low Latency Mode)",
		MenuPath: "Vrroom Web UI > SIGNAL > ALLM", Tab: "SIGNAL",
		Values:      map[string]string{"on": "Enabled", "off": "Disabled", "force": "Force On"},
		Description: "Auto Low Latency Mode passthrough or injection",
	},
	"earc": {
		Key: "earc", Name: "eARC Mode",
		MenuPath: "Vrroom Web UI > AUDIO > eARC", Tab: "AUDIO",
		Values:      map[string]string{"on": "Enabled", "off": "Disabled"},
		Description: "Enhanced Audio Return Channel",
	},
	"hdrcustom": {
		Key: "hdrcustom", Name: "Custom HDR Injection",
		MenuPath: "Vrroom Web UI > SIGNAL > HDR CUSTOM", Tab: "SIGNAL",
		Values:      map[string]string{"on": "Enabled", "off": "Disabled"},
		Description: "Inject custom HDR metadata (auto-disables under VRR)",
	},
}

// SettingDisplay is a resolved, human-readable view of one setting value.
type SettingDisplay struct {
	Key          string      `json:"key"`
	Name         string      `json:"name"`
	Value        interface{} `json:"value"`
	DisplayValue string      `json:"display_value"`
	MenuPath     string      `json:"menu_path"`
	Tab          string      `json:"tab"`
	Description  string      `json:"description,omitempty"`
}

// DisplaySetting resolves a raw key/value pair against SettingsMeta.
// Unknown keys fall back to a bare passthrough entry.
func DisplaySetting(key string, value interface{}) SettingDisplay {
	meta, ok := SettingsMeta[key]
	if !ok {
		return SettingDisplay{
			Key:          key,
			Name:         key,
			Value:        value,
			DisplayValue: stringify(value),
			MenuPath:     "Vrroom Web UI",
			Tab:          "Settings",
		}
	}

	raw := stringify(value)
	display := raw
	if meta.Values != nil {
		if label, ok := meta.Values[raw]; ok {
			display = label
		}
	} else if meta.ValueHint != "" {
		display = raw + " (" + meta.ValueHint + ")"
	}

	return SettingDisplay{
		Key:          key,
		Name:         meta.Name,
		Value:        value,
		DisplayValue: display,
		MenuPath:     meta.MenuPath,
		Tab:          meta.Tab,
		Description:  meta.Description,
	}
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "on"
		}
		return "off"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
