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
	"sync"

	"go.uber.org/zap"
)

var logger struct {
	sync.Mutex
	l *zap.Logger
}

// Logger returns the package logger.  It discards everything until
// SetLogger is called.
func Logger() *zap.Logger {
	logger.Lock()
	defer logger.Unlock()
	if logger.l == nil {
		logger.l = zap.NewNop()
	}
	return logger.l
}

// SetLogger replaces the package logger.  Passing nil restores the
// discarding logger.
func SetLogger(l *zap.Logger) {
	logger.Lock()
	logger.l = l
	logger.Unlock()
}
