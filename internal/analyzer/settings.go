// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

// Package analyzer implements the configuration diagnostic engine: it
// parses an exported HDMI matrix configuration, evaluates an ordered
// rule set against it, and produces a severity-graded issue list plus
// an optimized copy of the configuration.
package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Wire keys of the typed settings fields, in declared parse order.
// Malformed input reporting names the first violating field in this
// order, which keeps error output deterministic.
const (
	keyEDIDMode      = "edidmode"
	keyUnmuteDelay   = "unmutedelay"
	keyHDRFlag       = "edidhdrflag"
	keyHDRMode       = "edidhdrmode"
	keyDVFlag        = "ediddvflag"
	keyDVMode        = "ediddvmode"
	keyHDCPMode      = "hdcpmode"
	keyCEC           = "cec"
	keyTargetDisplay = "targetdisplay"
	keyHDCPReason    = "hdcpreason"
)

var settingsKeyOrder = []string{
	keyEDIDMode,
	keyUnmuteDelay,
	keyHDRFlag,
	keyHDRMode,
	keyDVFlag,
	keyDVMode,
	keyHDCPMode,
	keyCEC,
	keyTargetDisplay,
	keyHDCPReason,
}

// MalformedInputError names the first structural violation found while
// parsing a configuration object.
type MalformedInputError struct {
	Field  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: field %q: %s", e.Field, e.Reason)
}

// Settings is a parsed matrix configuration. Typed fields cover the
// settings the rule set understands; everything else is preserved
// verbatim in Extra and rounds-trips untouched through optimization.
type Settings struct {
	EDIDMode      string
	UnmuteDelay   int // milliseconds
	HDREnable     bool
	HDRMode       int
	DVEnable      bool
	DVMode        int
	HDCPMode      string
	CECEnable     bool
	TargetDisplay string
	HDCPReason    string

	Extra map[string]interface{}

	present map[string]struct{}
}

// Has reports whether a typed field was present in the input (or has
// been set by the optimization pass).
func (s *Settings) Has(key string) bool {
	_, ok := s.present[key]
	return ok
}

func (s *Settings) markSet(key string) {
	if s.present == nil {
		s.present = make(map[string]struct{})
	}
	s.present[key] = struct{}{}
}

// ParseSettings builds a Settings from a decoded JSON object. Flags
// accept booleans or the matrix's "on"/"off" strings; numeric fields
// accept numbers or numeric strings. The first field that violates its
// expected shape fails the whole parse with MalformedInputError.
func ParseSettings(raw map[string]interface{}) (*Settings, error) {
	s := &Settings{present: make(map[string]struct{})}

	for _, key := range settingsKeyOrder {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if err := s.assign(key, v); err != nil {
			return nil, err
		}
		s.markSet(key)
	}

	for k, v := range raw {
		if isTypedKey(k) {
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]interface{})
		}
		s.Extra[k] = v
	}

	return s, nil
}

func isTypedKey(k string) bool {
	for _, key := range settingsKeyOrder {
		if k == key {
			return true
		}
	}
	return false
}

func (s *Settings) assign(key string, v interface{}) error {
	switch key {
	case keyEDIDMode:
		str, err := parseString(key, v)
		if err != nil {
			return err
		}
		s.EDIDMode = strings.ToLower(str)
	case keyUnmuteDelay:
		n, err := parseIntField(key, v)
		if err != nil {
			return err
		}
		if n < 0 {
			return &MalformedInputError{Field: key, Reason: "must be non-negative"}
		}
		s.UnmuteDelay = n
	case keyHDRFlag:
		b, err := parseFlag(key, v)
		if err != nil {
			return err
		}
		s.HDREnable = b
	case keyHDRMode:
		n, err := parseIntField(key, v)
		if err != nil {
			return err
		}
		if n < 0 || n > 4 {
			return &MalformedInputError{Field: key, Reason: "must be in range 0-4"}
		}
		s.HDRMode = n
	case keyDVFlag:
		b, err := parseFlag(key, v)
		if err != nil {
			return err
		}
		s.DVEnable = b
	case keyDVMode:
		n, err := parseIntField(key, v)
		if err != nil {
			return err
		}
		if n < 0 || n > 2 {
			return &MalformedInputError{Field: key, Reason: "must be in range 0-2"}
		}
		s.DVMode = n
	case keyHDCPMode:
		str, err := parseString(key, v)
		if err != nil {
			return err
		}
		s.HDCPMode = strings.ToLower(str)
	case keyCEC:
		b, err := parseFlag(key, v)
		if err != nil {
			return err
		}
		s.CECEnable = b
	case keyTargetDisplay:
		str, err := parseString(key, v)
		if err != nil {
			return err
		}
		s.TargetDisplay = str
	case keyHDCPReason:
		str, err := parseString(key, v)
		if err != nil {
			return err
		}
		s.HDCPReason = str
	}
	return nil
}

func parseString(key string, v interface{}) (string, error) {
	str, ok := v.(string)
	if !ok {
		return "", &MalformedInputError{Field: key, Reason: fmt.Sprintf("expected string, got %T", v)}
	}
	return str, nil
}

func parseFlag(key string, v interface{}) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(t) {
		case "on", "true":
			return true, nil
		case "off", "false":
			return false, nil
		}
		return false, &MalformedInputError{Field: key, Reason: fmt.Sprintf("expected on/off, got %q", t)}
	default:
		return false, &MalformedInputError{Field: key, Reason: fmt.Sprintf("expected boolean or on/off, got %T", v)}
	}
}

func parseIntField(key string, v interface{}) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != float64(int(t)) {
			return 0, &MalformedInputError{Field: key, Reason: "expected integer, got fraction"}
		}
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, &MalformedInputError{Field: key, Reason: "expected integer"}
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, &MalformedInputError{Field: key, Reason: fmt.Sprintf("expected integer, got %q", t)}
		}
		return n, nil
	default:
		return 0, &MalformedInputError{Field: key, Reason: fmt.Sprintf("expected integer, got %T", v)}
	}
}

// Clone returns an independent deep copy.
func (s *Settings) Clone() *Settings {
	dup := *s
	dup.present = make(map[string]struct{}, len(s.present))
	for k := range s.present {
		dup.present[k] = struct{}{}
	}
	if s.Extra != nil {
		dup.Extra = make(map[string]interface{}, len(s.Extra))
		for k, v := range s.Extra {
			dup.Extra[k] = v
		}
	}
	return &dup
}

// ToMap renders the settings back to their wire shape: only fields that
// were present (or set by optimization) appear, flags as "on"/"off",
// and extra fields exactly as received.
func (s *Settings) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(s.present)+len(s.Extra))

	for _, key := range settingsKeyOrder {
		if !s.Has(key) {
			continue
		}
		switch key {
		case keyEDIDMode:
			out[key] = s.EDIDMode
		case keyUnmuteDelay:
			out[key] = s.UnmuteDelay
		case keyHDRFlag:
			out[key] = flagString(s.HDREnable)
		case keyHDRMode:
			out[key] = s.HDRMode
		case keyDVFlag:
			out[key] = flagString(s.DVEnable)
		case keyDVMode:
			out[key] = s.DVMode
		case keyHDCPMode:
			out[key] = s.HDCPMode
		case keyCEC:
			out[key] = flagString(s.CECEnable)
		case keyTargetDisplay:
			out[key] = s.TargetDisplay
		case keyHDCPReason:
			out[key] = s.HDCPReason
		}
	}

	for k, v := range s.Extra {
		out[k] = v
	}
	return out
}

func flagString(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// MarshalJSON serializes the wire shape produced by ToMap.
func (s *Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToMap())
}
