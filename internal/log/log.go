// Copyright 2025 The Upstreamlb Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log carries the one ambient logger used off the request hot
// path: debug-build assertions and the background runtime
// poller's reload messages. Nothing on the selection path logs.
package log

import "go.uber.org/zap"

// NoOp is the default logger: discards everything, allocates nothing.
//
//nolint:gochecknoglobals
var NoOp = zap.NewNop()

// Assertions controls whether AssertInvariant does anything. It defaults
// to false; set it true in debug/test builds, never in a production hot
// path, since the check itself walks host slices that the core otherwise
// never touches outside of the selection it already performs.
//
//nolint:gochecknoglobals
var Assertions = false

// AssertInvariant logs at error level and returns false if ok is false and
// Assertions is enabled. It is a no-op otherwise. Callers use it to flag
// membership-subsystem contract violations ("the core may assert
// in debug builds") without ever panicking on the request path.
func AssertInvariant(logger *zap.Logger, ok bool, msg string, fields ...zap.Field) bool {
	if ok || !Assertions {
		return ok
	}
	if logger == nil {
		logger = NoOp
	}
	logger.Error("invariant violation: "+msg, fields...)
	return ok
}
