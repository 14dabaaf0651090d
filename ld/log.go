// Copyright 2015-2017 Piprate Limited
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

package ld

import (
	"go.uber.org/zap"
)

// Logger is the logging interface used by the document loaders. It matches
// zap's SugaredLogger far enough that *zap.SugaredLogger satisfies it
// directly, while letting callers substitute any other implementation.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Log is the package-wide logger. It defaults to a no-op logger so that
// library consumers don't get unsolicited output; call SetLogger to wire in
// a real one (e.g. a production zap.Logger.Sugar()).
var Log Logger = zap.NewNop().Sugar()

// SetLogger replaces the package-wide logger used by the document loaders.
func SetLogger(l Logger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	Log = l
}
