// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

// Package preroll implements the pre-roll format matching engine: it
// compares a probed stream descriptor against a target library profile,
// grades the mismatches, and emits re-encode command text for every
// offered profile.
package preroll

import (
	"fmt"
	"strconv"
	"strings"
)

// Rational is an exact frame rate, e.g. 24000/1001. Comparisons use
// exact rational equality; 23.976 never equals 24/1 here, because a
// display treats them as different refresh rates.
type Rational struct {
	Num int `json:"num"`
	Den int `json:"den"`
}

// ParseRational parses "num/den" or a bare integer ("24" == 24/1).
func ParseRational(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rational{}, fmt.Errorf("empty frame rate")
	}

	num, den := s, "1"
	if i := strings.IndexByte(s, '/'); i >= 0 {
		num, den = s[:i], s[i+1:]
	}

	n, err := strconv.Atoi(num)
	if err != nil {
		return Rational{}, fmt.Errorf("invalid frame rate %q", s)
	}
	d, err := strconv.Atoi(den)
	if err != nil || d == 0 {
		return Rational{}, fmt.Errorf("invalid frame rate %q", s)
	}
	if n < 0 {
		return Rational{}, fmt.Errorf("negative frame rate %q", s)
	}

	return Rational{Num: n, Den: d}.normalize(), nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func (r Rational) normalize() Rational {
	if r.Den < 0 {
		r.Num, r.Den = -r.Num, -r.Den
	}
	if g := gcd(r.Num, r.Den); g > 1 {
		r.Num /= g
		r.Den /= g
	}
	return r
}

// Equal reports exact equality of the reduced fractions.
func (r Rational) Equal(other Rational) bool {
	a, b := r.normalize(), other.normalize()
	return a.Num == b.Num && a.Den == b.Den
}

// IsZero reports an unset rate.
func (r Rational) IsZero() bool {
	return r.Num == 0
}

// Float returns the approximate decimal rate for display.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// String renders "num/den", or just "num" when the denominator is 1.
func (r Rational) String() string {
	n := r.normalize()
	if n.Den == 1 {
		return strconv.Itoa(n.Num)
	}
	return fmt.Sprintf("%d/%d", n.Num, n.Den)
}
