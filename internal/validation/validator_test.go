// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package validation

import (
	"strings"
	"testing"
)

type recommendRequest struct {
	Display string   `validate:"omitempty,min=1"`
	Goals   []string `validate:"required,min=1,dive,oneof=avoid_bonk lldv_non_dv hdr_passthrough gaming_low_latency best_audio fix_preroll minimize_format_switch"`
}

type deviceRequest struct {
	ID       string `validate:"required,min=1,max=64"`
	Name     string `validate:"required"`
	Category string `validate:"required,oneof=displays processors avrs sources speakers media_servers"`
}

func TestValidateStructValid(t *testing.T) {
	req := recommendRequest{Display: "jvc_dla_nz7", Goals: []string{"avoid_bonk"}}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStructMissingRequired(t *testing.T) {
	err := ValidateStruct(&recommendRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "Goals") {
		t.Errorf("message %q does not name the failing field", apiErr.Message)
	}
}

func TestValidateStructBadGoal(t *testing.T) {
	err := ValidateStruct(&recommendRequest{Goals: []string{"world_peace"}})
	if err == nil {
		t.Fatal("expected validation error for unknown goal")
	}
	errs := err.Errors()
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1", len(errs))
	}
	if errs[0].Tag() != "oneof" {
		t.Errorf("tag = %q, want oneof", errs[0].Tag())
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	err := ValidateStruct(&deviceRequest{Category: "spaceships"})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if len(err.Errors()) < 2 {
		t.Fatalf("errors = %d, want at least 2", len(err.Errors()))
	}
	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error response missing fields detail")
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator returned different instances")
	}
}
