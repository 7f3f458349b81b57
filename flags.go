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

// Flags is a bitmask recognized by Head.AddHook, Head.RemoveHook and
// Head.Cookie.
type Flags uint8

const (
	// FlagInput operates on the head's input list.
	FlagInput Flags = 1 << iota
	// FlagOutput operates on the head's output list.
	FlagOutput
	// FlagWaitOK permits AddHook's allocation to block. AddHook accepts
	// it but allocates the same way with or without it, and never
	// returns ErrOutOfMemory (see Head.AddHook's allocation-mode
	// discussion).
	FlagWaitOK

	// FlagAll is shorthand for FlagInput|FlagOutput; valid only for
	// AddHook/RemoveHook, where it requests the hook be applied
	// symmetrically to both lists.
	FlagAll = FlagInput | FlagOutput
)
