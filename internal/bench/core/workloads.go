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

// Package core drives histogram trials: it builds workloads, runs the
// parallel engine against a sequential reference, verifies the result and
// records performance across trials.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCase is returned when a case selector matches no workload.
var ErrUnknownCase = errors.New("unknown test case")

// Case is one workload shape: N samples counted into B buckets.
type Case struct {
	Name string
	N    int
	B    int
}

// DefaultCases are the two configured shapes: few buckets and many buckets.
var DefaultCases = []Case{
	{Name: "histogram-1", N: 100_000_000, B: 8},
	{Name: "histogram-2", N: 25_000_000, B: 16_000_000},
}

// SelectCases resolves a selector against cases. "" and "all" select every
// case; "1".."n" select by position; anything else must match a case name.
func SelectCases(cases []Case, selector string) ([]Case, error) {
	sel := strings.TrimSpace(selector)
	if sel == "" || sel == "all" {
		return append([]Case(nil), cases...), nil
	}
	for i, c := range cases {
		if sel == fmt.Sprint(i+1) || sel == c.Name {
			return []Case{c}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCase, selector)
}
