// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package catalog

import (
	"errors"
	"sort"
	"testing"
)

func TestBuiltinLookup(t *testing.T) {
	c := New()

	tests := []struct {
		name     string
		category Category
		id       string
		found    bool
	}{
		{"known display", CategoryDisplay, "epson_eh_ls12000b", true},
		{"known processor", CategoryProcessor, "vrroom", true},
		{"known avr", CategoryAVR, "denon_avr_x3800h", true},
		{"known source", CategorySource, "nvidia_shield_pro", true},
		{"known speakers", CategorySpeakers, "atmos_7_1_4", true},
		{"known media server", CategoryMediaServer, "plex", true},
		{"unknown id", CategoryDisplay, "nonexistent", false},
		{"wrong category", CategoryAVR, "vrroom", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := c.Device(tt.category, tt.id)
			if ok != tt.found {
				t.Fatalf("Device(%s, %s) found = %v, want %v", tt.category, tt.id, ok, tt.found)
			}
			if ok && d.ID != tt.id {
				t.Errorf("Device ID = %q, want %q", d.ID, tt.id)
			}
			if ok && d.Category != tt.category {
				t.Errorf("Device Category = %q, want %q", d.Category, tt.category)
			}
		})
	}
}

func TestBuiltinCapabilityFlags(t *testing.T) {
	c := New()

	t.Run("projector is LLDV-compatible but not native DV", func(t *testing.T) {
		d, ok := c.Device(CategoryDisplay, "epson_eh_ls12000b")
		if !ok {
			t.Fatal("expected device")
		}
		if d.NativeDV {
			t.Error("projector should not be native DV")
		}
		if !d.LLDVCompatible {
			t.Error("projector should be LLDV compatible")
		}
	})

	t.Run("oled tv is native DV", func(t *testing.T) {
		d, ok := c.Device(CategoryDisplay, "lg_c3_oled")
		if !ok {
			t.Fatal("expected device")
		}
		if !d.NativeDV {
			t.Error("LG C3 should be native DV")
		}
		if !d.QMSSupport {
			t.Error("LG C3 should support QMS")
		}
	})

	t.Run("matrix advertises edid modes", func(t *testing.T) {
		d, ok := c.Device(CategoryProcessor, "vrroom")
		if !ok {
			t.Fatal("expected device")
		}
		if !d.LLDVInjection {
			t.Error("vrroom should support LLDV injection")
		}
		want := []string{"automix", "custom", "fixed", "copytx0", "copytx1"}
		if len(d.EDIDModes) != len(want) {
			t.Fatalf("EDIDModes = %v, want %v", d.EDIDModes, want)
		}
	})
}

func TestListSorted(t *testing.T) {
	c := New()
	devices := c.List(CategoryDisplay)
	if len(devices) == 0 {
		t.Fatal("expected built-in displays")
	}
	if !sort.SliceIsSorted(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name }) {
		t.Error("List should return devices sorted by name")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	custom := Device{
		ID:             "my_projector",
		Name:           "My Projector",
		Type:           "projector",
		LLDVCompatible: true,
		HandshakeMs:    2200,
	}

	if err := store.Put(CategoryDisplay, custom); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(CategoryDisplay, "my_projector")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != custom.Name || got.HandshakeMs != custom.HandshakeMs {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if !got.UserAdded {
		t.Error("stored device should be marked user-added")
	}

	list, err := store.List(CategoryDisplay)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List returned %d devices, want 1", len(list))
	}

	if err := store.Delete(CategoryDisplay, "my_projector"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(CategoryDisplay, "my_projector"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Get after delete = %v, want ErrDeviceNotFound", err)
	}
}

func TestStorePutValidation(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	tests := []struct {
		name     string
		category Category
		device   Device
	}{
		{"empty id", CategoryDisplay, Device{Name: "No ID"}},
		{"id with colon", CategoryDisplay, Device{ID: "bad:id"}},
		{"invalid category", Category("bogus"), Device{ID: "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Put(tt.category, tt.device); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBuiltinNotShadowedByStore(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	// Attempt to shadow a built-in profile.
	shadow := Device{ID: "vrroom", Name: "Fake Vrroom"}
	if err := store.Put(CategoryProcessor, shadow); err != nil {
		t.Fatalf("Put: %v", err)
	}

	c := NewWithStore(store)
	d, ok := c.Device(CategoryProcessor, "vrroom")
	if !ok {
		t.Fatal("expected device")
	}
	if d.Name != "HDFury Vrroom" {
		t.Errorf("built-in should win over custom entry, got %q", d.Name)
	}

	// List must not contain the duplicate.
	count := 0
	for _, dev := range c.List(CategoryProcessor) {
		if dev.ID == "vrroom" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("vrroom appears %d times in List, want 1", count)
	}
}

func TestDisplaySetting(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		value       interface{}
		wantName    string
		wantDisplay string
	}{
		{"enum value", "edidmode", "automix", "EDID Mode", "AutoMix (Recommended)"},
		{"bool flag", "ediddvflag", true, "Dolby Vision EDID Flag", "Enabled"},
		{"numeric value", "unmutedelay", 150, "Audio Unmute Delay", "150 (milliseconds, 0-2000)"},
		{"unknown key", "mystery", "7", "mystery", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplaySetting(tt.key, tt.value)
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.DisplayValue != tt.wantDisplay {
				t.Errorf("DisplayValue = %q, want %q", got.DisplayValue, tt.wantDisplay)
			}
		})
	}
}

func TestDeviceManualsReferenceBuiltins(t *testing.T) {
	c := New()

	for id, manual := range DeviceManuals {
		var found bool
		for _, category := range Categories {
			if _, ok := c.Device(category, id); ok {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("manual for %q does not match any built-in device", id)
		}
		if manual.ManualURL == "" {
			t.Errorf("manual for %q has no manual_url", id)
		}
	}
}

func TestTuningGuides(t *testing.T) {
	seen := make(map[string]bool)
	for _, g := range TuningGuides {
		if g.ID == "" || g.Name == "" || g.Description == "" {
			t.Errorf("guide %+v missing identity fields", g.ID)
		}
		if seen[g.ID] {
			t.Errorf("duplicate guide ID %q", g.ID)
		}
		seen[g.ID] = true

		for i, step := range g.Steps {
			if step.Step != i+1 {
				t.Errorf("guide %s step %d numbered %d", g.ID, i+1, step.Step)
			}
			if len(step.Instructions) == 0 {
				t.Errorf("guide %s step %q has no instructions", g.ID, step.Title)
			}
		}
	}
	if !seen["manual_speaker_setup"] {
		t.Error("no fallback guide for setups without room correction")
	}
}
