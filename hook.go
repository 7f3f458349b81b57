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

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"reflect"
	"sync"
)

// Hook is one registered filter on a head's input or output list.
type Hook struct {
	Func   FilterFunc
	Arg    interface{}
	Name   string
	Order  uint8
	Cookie uint64
}

// identity reports whether two hooks were registered with the same
// (Func, Arg) pair - the only notion of identity a hook has. Go
// function values aren't comparable with ==, so Func identity is taken
// via the underlying code pointer, the idiomatic stand-in for a C
// function pointer comparison.
func identity(fn FilterFunc, arg interface{}) (uintptr, interface{}) {
	return reflect.ValueOf(fn).Pointer(), arg
}

func sameIdentity(h *Hook, fn FilterFunc, arg interface{}) bool {
	p1, a1 := identity(h.Func, h.Arg)
	p2, a2 := identity(fn, arg)
	return p1 == p2 && a1 == a2
}

// hookList is an ordered, slice-backed list of hooks. Unlike the
// sentinel-doubly-linked-list sipsp's calltr package uses for its
// per-bucket call entry lists, a hookList is a plain slice: the handful
// to low hundreds of hooks a single interception point carries makes
// slice insertion (an O(n) memmove) cheaper in practice than chasing
// pointers, and it gives findIdentity/findCookie and dispatch a cache-friendly
// linear scan. The list carries no lock of its own - every access must
// happen with the owning Head's rmlock.Lock already held (shared for
// reads, exclusive for mutation), exactly as callentry_lst.go documents
// for its own Find/Insert/Rm methods.
type hookList []*Hook

// findIdentity returns the index of the hook matching (fn, arg), or -1.
func (l hookList) findIdentity(fn FilterFunc, arg interface{}) int {
	for i, h := range l {
		if sameIdentity(h, fn, arg) {
			return i
		}
	}
	return -1
}

// addInput inserts h keeping the input-list ordering invariant:
// non-increasing Order, with a new hook prepended to its run of equal
// Order (so among hooks sharing a priority, later registrations run
// first on input - the mirror of the output list; see the package
// doc's note on ordering).
func (l hookList) addInput(h *Hook) hookList {
	i := 0
	for i < len(l) && l[i].Order > h.Order {
		i++
	}
	// l[i].Order <= h.Order (or i == len(l)): prepend within the run of
	// hooks sharing h.Order by inserting at the run's first position.
	return insertAt(l, i, h)
}

// addOutput inserts h keeping the output-list ordering invariant:
// non-decreasing Order, with a new hook appended to its run of equal
// Order.
func (l hookList) addOutput(h *Hook) hookList {
	i := len(l)
	for i > 0 && l[i-1].Order > h.Order {
		i--
	}
	// l[i-1].Order <= h.Order (or i == 0): append within the run of
	// hooks sharing h.Order by inserting at the run's last position.
	return insertAt(l, i, h)
}

func insertAt(l hookList, i int, h *Hook) hookList {
	l = append(l, nil)
	copy(l[i+1:], l[i:])
	l[i] = h
	return l
}

func (l hookList) removeIdentity(fn FilterFunc, arg interface{}) (hookList, *Hook, bool) {
	i := l.findIdentity(fn, arg)
	if i < 0 {
		return l, nil, false
	}
	h := l[i]
	l = append(l[:i], l[i+1:]...)
	return l, h, true
}

func (l hookList) findCookie(fn FilterFunc, arg interface{}) uint64 {
	i := l.findIdentity(fn, arg)
	if i < 0 {
		return 0
	}
	return l[i].Cookie
}

// cookieSource draws the high-entropy, nonzero cookie values stamped
// onto hooks at registration. It is seeded once from crypto/rand and
// then uses a fast PRNG for every subsequent draw - dispatch never
// needs cryptographic unpredictability, only values that are
// astronomically unlikely to collide within one head (collisions are
// not prevented, only made improbable).
var cookieSource = newCookieSource()

type cookieGen struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newCookieSource() *cookieGen {
	var seed [8]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand is not expected to fail on any supported
		// platform; fall back to an address-derived seed rather than
		// panicking a library caller can't work around.
		binary.LittleEndian.PutUint64(seed[:], uint64(reflect.ValueOf(&seed).Pointer()))
	}
	s := int64(binary.LittleEndian.Uint64(seed[:]))
	return &cookieGen{rng: rand.New(rand.NewSource(s))}
}

// next draws a fresh, nonzero cookie. Zero is reserved to mean "no
// skipping" (see Head.RunInject).
func (c *cookieGen) next() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		if v := c.rng.Uint64(); v != 0 {
			return v
		}
	}
}
