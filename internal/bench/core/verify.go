// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"errors"
	"fmt"
	"io"
)

// DefaultMaxReport is how many mismatching buckets a Verification keeps.
const DefaultMaxReport = 5

// ErrMismatch marks a histogram that disagrees with the reference.
var ErrMismatch = errors.New("histogram mismatch")

// Mismatch is one bucket where the parallel result differs from the reference.
type Mismatch struct {
	Index int
	Got   int64
	Want  int64
}

// Verification is the outcome of comparing a histogram with the reference.
// Total counts every mismatching bucket; First keeps only the leading ones.
type Verification struct {
	Total       int
	First       []Mismatch
	LenMismatch bool
}

// OK reports whether the histograms matched exactly.
func (v Verification) OK() bool { return v.Total == 0 && !v.LenMismatch }

// Err returns nil on a match, or a *MismatchError wrapping ErrMismatch.
func (v Verification) Err() error {
	if v.OK() {
		return nil
	}
	return &MismatchError{V: v}
}

// MismatchError carries a failed Verification.
type MismatchError struct {
	V Verification
}

func (e *MismatchError) Error() string {
	if e.V.LenMismatch {
		return "histogram mismatch: bucket counts differ"
	}
	return fmt.Sprintf("histogram mismatch: %d bucket(s) differ", e.V.Total)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Verify compares got with want bucket by bucket. maxReport <= 0 uses
// DefaultMaxReport.
func Verify(got, want []int64, maxReport int) Verification {
	if maxReport <= 0 {
		maxReport = DefaultMaxReport
	}
	var v Verification
	if len(got) != len(want) {
		v.LenMismatch = true
	}
	n := min(len(got), len(want))
	for i := 0; i < n; i++ {
		if got[i] == want[i] {
			continue
		}
		v.Total++
		if len(v.First) < maxReport {
			v.First = append(v.First, Mismatch{Index: i, Got: got[i], Want: want[i]})
		}
	}
	return v
}

// WriteMismatches prints the kept mismatches, one per line, followed by a
// notice when more exist.
func WriteMismatches(w io.Writer, v Verification) {
	if v.LenMismatch {
		fmt.Fprintln(w, "Error: histogram and reference have different bucket counts")
	}
	for _, m := range v.First {
		fmt.Fprintf(w, "Error on index: [%d]. Your output: %d, Correct output %d\n", m.Index, m.Got, m.Want)
	}
	if v.Total > len(v.First) {
		fmt.Fprintln(w, "and many more errors likely exist...")
	}
}
