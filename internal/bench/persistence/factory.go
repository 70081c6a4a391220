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

	"go.uber.org/zap"

	"histo/internal/bench/core"
)

// ErrUnknownAdapter is returned by BuildSink for an unsupported selector.
var ErrUnknownAdapter = errors.New("unknown results adapter")

const redisPingTimeout = 3 * time.Second

// Options holds the knobs for building result sinks.
type Options struct {
	RedisAddr      string
	RedisMarkerTTL time.Duration
	FilePath       string
}

// BuildSink constructs a core.ResultSink from a selector:
//   - "mock" (or ""): log only
//   - "redis": idempotent Redis adapter; with RedisAddr the server must answer
//     a PING, without it the evaluations are logged instead
//   - "file": JSON lines appended to FilePath
func BuildSink(adapter string, opts Options, log *zap.Logger) (core.ResultSink, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch adapter {
	case "", "mock":
		return core.NewLogSink(log), nil
	case "redis":
		var evaler RedisEvaler
		if opts.RedisAddr != "" {
			g := NewGoRedisEvaler(opts.RedisAddr)
			ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
			err := g.Ping(ctx)
			cancel()
			if err != nil {
				_ = g.Close()
				return nil, fmt.Errorf("redis ping %s: %w", opts.RedisAddr, err)
			}
			evaler = g
		} else {
			evaler = LoggingRedisEvaler{Log: log}
		}
		return NewRecorderSink(&closableRecorder{RedisRecorder: NewRedisRecorder(evaler, opts.RedisMarkerTTL), evaler: evaler}), nil
	case "file":
		if opts.FilePath == "" {
			return nil, errors.New("file adapter needs a results file path")
		}
		return NewFileSink(opts.FilePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAdapter, adapter)
	}
}

// closableRecorder lets RecorderSink.Close reach the Redis client.
type closableRecorder struct {
	*RedisRecorder
	evaler RedisEvaler
}

func (c *closableRecorder) Close() error {
	if g, ok := c.evaler.(*GoRedisEvaler); ok {
		return g.Close()
	}
	return nil
}
