// Copyright 2026 The Mangos Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nnsock

import (
	"fmt"

	"go.uber.org/zap"

	"nanomsg.org/go/nnsock/nn"
)

// NativeCallError reports a native call that returned a failure.
type NativeCallError struct {
	// Op names the failed operation, e.g. "bind".
	Op string
	// Result is the value the native call returned.
	Result int
	// Errno is the native error number.
	Errno nn.Errno
}

func (e *NativeCallError) Error() string {
	return fmt.Sprintf("nnsock: %s: %s (rc=%d)", e.Op, e.Errno.Error(), e.Result)
}

// Unwrap returns the Errno, so errors.Is(err, nn.ETIMEDOUT) works.
func (e *NativeCallError) Unwrap() error {
	return e.Errno
}

// Timeout reports whether the call failed because a deadline expired.
func (e *NativeCallError) Timeout() bool {
	return e.Errno.Timeout()
}

// Temporary reports whether retrying the call may succeed.
func (e *NativeCallError) Temporary() bool {
	return e.Errno.Temporary()
}

// check turns a native return value into an error.  Every call site that
// raises goes through here; the pass-through sites (Send, TryRecv) do not.
func check(op string, fd int, rc int) error {
	if rc >= 0 {
		return nil
	}
	err := &NativeCallError{Op: op, Result: rc, Errno: nn.Errno(-rc)}
	Logger().Debug("native call failed",
		zap.String("op", op),
		zap.Int("fd", fd),
		zap.Int("rc", rc),
		zap.String("errno", err.Errno.Error()))
	return err
}
