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
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Process-level trial counters and the configuration registry printed in the
// final summary. Counters are atomics so the runner can bump them without
// taking a lock.
var (
	trialsRun    atomic.Int64
	trialsBroken atomic.Int64

	thresholdsMu sync.RWMutex
	thresholds   = make(map[string]string)
)

// RecordTrial counts one finished case run and whether it failed verification.
func RecordTrial(broken bool) {
	trialsRun.Add(1)
	if broken {
		trialsBroken.Add(1)
	}
}

// SetThreshold captures a configuration knob for the final summary.
func SetThreshold(name string, value string) {
	thresholdsMu.Lock()
	thresholds[name] = value
	thresholdsMu.Unlock()
}

func SetThresholdInt64(name string, v int64)            { SetThreshold(name, fmt.Sprintf("%d", v)) }
func SetThresholdDuration(name string, d time.Duration) { SetThreshold(name, d.String()) }
func SetThresholdBool(name string, b bool)              { SetThreshold(name, fmt.Sprintf("%t", b)) }

func getTrialTotals() (run, broken int64) {
	return trialsRun.Load(), trialsBroken.Load()
}

// getThresholdSnapshot returns a copy for stable iteration.
func getThresholdSnapshot() map[string]string {
	thresholdsMu.RLock()
	defer thresholdsMu.RUnlock()
	out := make(map[string]string, len(thresholds))
	for k, v := range thresholds {
		out[k] = v
	}
	return out
}

// resetForTests clears counters and thresholds.
func resetForTests() {
	trialsRun.Store(0)
	trialsBroken.Store(0)
	thresholdsMu.Lock()
	defer thresholdsMu.Unlock()
	clear(thresholds)
}
