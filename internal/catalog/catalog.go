// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

// Package catalog holds the equipment knowledge base: built-in device
// profiles with capability flags, an optional BadgerDB-backed store for
// user-added devices, and the static EDID/goal reference tables.
//
// The catalog is read-only from the engines' perspective: built-in
// profiles are immutable package data, and the engines only ever see the
// Lookup/List interface. Mutation of user-added devices happens through
// the Store type, which the API layer owns.
package catalog

import (
	"fmt"
	"sort"
)

// Category identifies one equipment slot in the signal chain.
type Category string

const (
	CategoryDisplay     Category = "displays"
	CategoryProcessor   Category = "processors"
	CategoryAVR         Category = "avrs"
	CategorySource      Category = "sources"
	CategorySpeakers    Category = "speakers"
	CategoryMediaServer Category = "media_servers"
)

// Categories lists all known categories in presentation order.
var Categories = []Category{
	CategoryDisplay,
	CategoryProcessor,
	CategoryAVR,
	CategorySource,
	CategorySpeakers,
	CategoryMediaServer,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Device is one catalog entry. Capability flags drive the rule engines;
// a flag that does not apply to a category is simply left false.
type Device struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Category Category `json:"category"`

	// Video capabilities
	NativeDV       bool     `json:"native_dv,omitempty"`
	LLDVCompatible bool     `json:"lldv_compatible,omitempty"`
	HDRSupport     []string `json:"hdr_support,omitempty"`
	MaxRefresh     int      `json:"max_refresh,omitempty"`
	VRRSupport     bool     `json:"vrr_support,omitempty"`
	ALLMSupport    bool     `json:"allm_support,omitempty"`
	QMSSupport     bool     `json:"qms_support,omitempty"`

	// HandshakeMs is the typical HDMI handshake time for this device.
	HandshakeMs int `json:"handshake_time_ms,omitempty"`

	// Processor (HDMI matrix) capabilities
	Inputs          int      `json:"inputs,omitempty"`
	Outputs         int      `json:"outputs,omitempty"`
	LLDVInjection   bool     `json:"lldv_injection,omitempty"`
	EDIDModes       []string `json:"edid_modes,omitempty"`
	CustomEDIDSlots int      `json:"custom_edid_slots,omitempty"`

	// Audio capabilities
	EARCSupport    bool   `json:"earc_support,omitempty"`
	AtmosCapable   bool   `json:"atmos_capable,omitempty"`
	RoomCorrection string `json:"room_correction,omitempty"`

	// Source capabilities
	DVOutput        bool `json:"dv_output,omitempty"`
	LLDVOutput      bool `json:"lldv_output,omitempty"`
	MatchFrameRate  bool `json:"match_frame_rate,omitempty"`
	MatchResolution bool `json:"match_resolution,omitempty"`

	// Speaker layout
	Layout           string `json:"layout,omitempty"`
	Channels         int    `json:"channels,omitempty"`
	OverheadChannels int    `json:"overhead_channels,omitempty"`
	SubChannels      int    `json:"sub_channels,omitempty"`

	// Media server preroll support
	PrerollSupport    bool              `json:"preroll_support,omitempty"`
	PrerollPaths      map[string]string `json:"preroll_paths,omitempty"`
	PrerollConfigPath string            `json:"preroll_config_path,omitempty"`

	Notes string `json:"notes,omitempty"`

	// UserAdded marks devices loaded from the custom store.
	UserAdded bool   `json:"user_added,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// Lookup is the read-only view the engines consume.
type Lookup interface {
	// Device returns the device with the given identifier within a
	// category, and whether it exists.
	Device(category Category, id string) (Device, bool)

	// List returns all devices in a category sorted by name.
	List(category Category) []Device
}

// Catalog merges the immutable built-in profiles with an optional custom
// device store. Built-in identifiers always win over custom entries so
// user data can never shadow curated profiles.
//
// Catalog is safe for unlimited concurrent readers.
type Catalog struct {
	builtin map[Category]map[string]Device
	store   *Store
}

// New returns a catalog backed by the built-in profiles only.
func New() *Catalog {
	return &Catalog{builtin: builtinProfiles()}
}

// NewWithStore returns a catalog that also surfaces user-added devices
// from the given store. The store may be nil.
func NewWithStore(store *Store) *Catalog {
	return &Catalog{builtin: builtinProfiles(), store: store}
}

// Device implements Lookup.
func (c *Catalog) Device(category Category, id string) (Device, bool) {
	if devices, ok := c.builtin[category]; ok {
		if d, ok := devices[id]; ok {
			return d, true
		}
	}
	if c.store != nil {
		if d, err := c.store.Get(category, id); err == nil {
			return d, true
		}
	}
	return Device{}, false
}

// List implements Lookup.
func (c *Catalog) List(category Category) []Device {
	seen := make(map[string]struct{})
	var out []Device

	for id, d := range c.builtin[category] {
		seen[id] = struct{}{}
		out = append(out, d)
	}

	if c.store != nil {
		custom, err := c.store.List(category)
		if err == nil {
			for _, d := range custom {
				if _, dup := seen[d.ID]; dup {
					continue // built-in wins
				}
				out = append(out, d)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// All returns every category's device list, keyed by category.
func (c *Catalog) All() map[Category][]Device {
	out := make(map[Category][]Device, len(Categories))
	for _, cat := range Categories {
		out[cat] = c.List(cat)
	}
	return out
}

// UnknownDeviceError reports a catalog lookup miss for a selected device.
// Analyses must fail loudly on unknown identifiers rather than degrade,
// since downstream rules depend on capability flags.
type UnknownDeviceError struct {
	Category Category
	ID       string
}

func (e *UnknownDeviceError) Error() string {
	return fmt.Sprintf("unknown device %q in category %q", e.ID, e.Category)
}
