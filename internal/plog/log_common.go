// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
// Package plog is the diagnostic-only logging surface for pfilhook.
// Registry and head admin operations (register, unregister, add,
// remove) log through it; the dispatch path logs only a BUG message,
// when it runs on a head that has been unregistered.
package plog

import (
	"github.com/intuitivelabs/slog"
)

// Log is the package-wide logger. Replace it (or reconfigure its level)
// before use if the embedding application wants pfilhook's diagnostics
// routed elsewhere.
var Log slog.Log = slog.New(slog.LERR, slog.LbackTraceL|slog.LlocInfoL,
	slog.LStdErr)

// WARN logs a warning-level message.
func WARN(f string, a ...interface{}) {
	Log.LLog(slog.LWARN, 1, "WARNING: pfilhook: ", f, a...)
}

// ERR logs an error-level message.
func ERR(f string, a ...interface{}) {
	Log.LLog(slog.LERR, 1, "ERROR: pfilhook: ", f, a...)
}

// BUG logs an internal-invariant-violation message: something the core
// itself should never observe (e.g. a hook list being mutated without
// the head's write lock held, or a head being dispatched against after
// it promised quiescence).
func BUG(f string, a ...interface{}) {
	Log.LLog(slog.LBUG, 1, "BUG: pfilhook: ", f, a...)
}
