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

// PacketRef is the packet handle passed through dispatch. It is opaque
// to this package: pfilhook never inspects, copies, or retains it. A
// nil PacketRef is the "null packet handle" - a filter that sets it to
// nil has consumed the packet, and dispatch stops.
type PacketRef = interface{}

// InterfaceRef is an opaque interface/device descriptor, passed through
// to every hook unchanged.
type InterfaceRef = interface{}

// ProtocolControlRef is an opaque protocol-control-block reference,
// passed through to every hook unchanged.
type ProtocolControlRef = interface{}

// Direction selects which of a head's two hook lists dispatch walks.
type Direction int

const (
	// Input selects the head's input list, ordered by non-increasing
	// Order.
	Input Direction = iota
	// Output selects the head's output list, ordered by non-decreasing
	// Order.
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "unknown"
	}
}

// FilterFunc is the callable every registered hook wraps.
//
// A call that leaves *packet unchanged and returns 0 means "continue":
// dispatch proceeds to the next hook. A call that replaces *packet and
// returns 0 continues dispatch on the new packet. A call that sets
// *packet to nil has consumed the packet; dispatch stops and Run/
// RunInject return 0. A nonzero return aborts dispatch immediately;
// Run/RunInject return that value verbatim.
//
// arg must be a comparable type (per Go's == operator): it is one half
// of a hook's identity, and AddHook/RemoveHook compare it with == to
// find a matching entry. Passing a slice, map, or func as arg panics
// the first time identity is compared against it.
type FilterFunc func(arg interface{}, packet *PacketRef, iface InterfaceRef, dir Direction, pcb ProtocolControlRef) int

// DefaultOrder is the mid-range priority assigned to callers that don't
// care where they run relative to other hooks.
const DefaultOrder uint8 = 128
