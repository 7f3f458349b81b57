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

package pfilhook

import "errors"

// Sentinel errors returned by registry and head operations. Dispatch
// itself never returns these - a dispatch's return value is whatever a
// filter hook returned (or 0), never a pfilhook error.
var (
	// ErrAlreadyExists is returned by Registry.Register when a head
	// with the same (HeadType, HeadKey) is already registered.
	ErrAlreadyExists = errors.New("pfilhook: head already registered")

	// ErrAlreadyPresent is returned by Head.AddHook when a hook with
	// the same (Func, Arg) identity already exists on the target list.
	ErrAlreadyPresent = errors.New("pfilhook: hook already present")

	// ErrNotPresent is returned by Head.RemoveHook when no hook with
	// the requested (Func, Arg) identity exists on the target list.
	ErrNotPresent = errors.New("pfilhook: hook not present")

	// ErrOutOfMemory stands for an allocation that could not be
	// satisfied without blocking. Head.AddHook never returns it: Go
	// allocation has no non-blocking failure mode.
	ErrOutOfMemory = errors.New("pfilhook: allocation failed")

	// ErrBadFlags is returned by Head.AddHook/Head.RemoveHook/Head.Cookie
	// when neither Input nor Output was requested.
	ErrBadFlags = errors.New("pfilhook: neither Input nor Output requested")

	// ErrNotFound is returned by Registry.Unregister when the head was
	// never registered, or was already unregistered.
	ErrNotFound = errors.New("pfilhook: head not registered")

	// ErrNotEmpty is returned by Registry.Close when heads are still
	// registered; close every head first.
	ErrNotEmpty = errors.New("pfilhook: registry still has registered heads")
)
