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

package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RedisEvaler abstracts the minimal surface we need from a Redis client.
// GoRedisEvaler wraps github.com/redis/go-redis/v9.
type RedisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error)
}

// RedisRecorder aggregates results per case in a hash using a Lua script:
//  1. SETNX result:<case>:<id> 1
//  2. If set: HINCRBY trials/failures/mismatches, lower best_us, set last_us
//  3. EXPIRE the marker so markers do not grow without bound
//
// If SETNX fails the result was already applied and nothing changes.
type RedisRecorder struct {
	client    RedisEvaler
	markerTTL time.Duration
}

// NewRedisRecorder returns a recorder with the given client and marker TTL.
// A non-positive TTL defaults to 24h.
func NewRedisRecorder(client RedisEvaler, markerTTL time.Duration) *RedisRecorder {
	if markerTTL <= 0 {
		markerTTL = 24 * time.Hour
	}
	return &RedisRecorder{client: client, markerTTL: markerTTL}
}

// redisLuaScript returns 1 if the result was applied, 0 if it was a duplicate.
const redisLuaScript = `
local caseKey = KEYS[1]
local markerKey = KEYS[2]
local elapsed = tonumber(ARGV[1])
local mismatches = tonumber(ARGV[2])
local ttlSeconds = tonumber(ARGV[3])
local strategy = ARGV[4]
if redis.call('SETNX', markerKey, 1) == 0 then
  return 0
end
redis.call('HINCRBY', caseKey, 'trials', 1)
if mismatches > 0 then
  redis.call('HINCRBY', caseKey, 'failures', 1)
  redis.call('HINCRBY', caseKey, 'mismatches', mismatches)
end
local best = tonumber(redis.call('HGET', caseKey, 'best_us'))
if best == nil or elapsed < best then
  redis.call('HSET', caseKey, 'best_us', elapsed)
end
redis.call('HSET', caseKey, 'last_us', elapsed, 'strategy', strategy)
if ttlSeconds and ttlSeconds > 0 then
  redis.call('EXPIRE', markerKey, ttlSeconds)
end
return 1
`

// Key layout helpers, exported for tools that read the results back.
func RedisCaseKey(name string) string { return fmt.Sprintf("histo:case:%s", name) }
func RedisResultMarkerKey(name, resultID string) string {
	return fmt.Sprintf("histo:result:%s:%s", name, resultID)
}

// RecordBatch applies entries one EVAL at a time.
func (r *RedisRecorder) RecordBatch(ctx context.Context, entries []ResultEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if e.ResultID == "" {
			return errors.New("ResultEntry.ResultID must be set")
		}
		keys := []string{RedisCaseKey(e.Case), RedisResultMarkerKey(e.Case, e.ResultID)}
		args := []interface{}{e.ElapsedMicros, e.Mismatches, int(r.markerTTL.Seconds()), e.Strategy}
		if _, err := r.client.Eval(ctx, redisLuaScript, keys, args...); err != nil {
			return fmt.Errorf("redis eval case=%s result=%s: %w", e.Case, e.ResultID, err)
		}
	}
	return nil
}
