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
	"sync/atomic"

	"github.com/dijkstracula/pfilhook/internal/plog"
	"github.com/dijkstracula/pfilhook/rmlock"
)

// Head is one interception point: a pair of ordered hook lists (input,
// output) guarded by a single read-mostly lock. Heads are created and
// owned by a Registry; obtain one via Registry.Register or
// Registry.Lookup, never construct one directly.
type Head struct {
	headType HeadType
	key      HeadKey

	mu      *rmlock.Lock
	in, out hookList

	nhooks int32 // atomic; mirrors len(in)+len(out), readable lock-free
	closed int32 // atomic bool; set by Registry.Unregister
}

// Type returns the head's type.
func (h *Head) Type() HeadType { return h.headType }

// Key returns the head's key.
func (h *Head) Key() HeadKey { return h.key }

// Nhooks returns the number of hooks currently registered across both
// lists. It is safe to call without holding any lock.
func (h *Head) Nhooks() int {
	return int(atomic.LoadInt32(&h.nhooks))
}

// Run dispatches a packet through every hook on the list selected by
// dir, in order. It is shorthand for RunInject with cookie 0.
func (h *Head) Run(packet *PacketRef, iface InterfaceRef, dir Direction, pcb ProtocolControlRef) int {
	return h.RunInject(packet, iface, dir, pcb, 0)
}

// RunInject dispatches a packet through the hooks on the list selected
// by dir. If cookie is 0, every hook runs in list order. If cookie is
// nonzero, every hook up to and including the one stamped with that
// cookie is skipped, and dispatch resumes with the hook immediately
// after it - the re-injection case described in the package doc. If no
// hook on the list carries that cookie, no hook runs at all.
//
// RunInject acquires the head's lock for shared (reader) access for the
// duration of the walk: the list observed is a consistent snapshot as
// of lock acquisition, and a concurrent AddHook/RemoveHook cannot
// interleave within one call.
func (h *Head) RunInject(packet *PacketRef, iface InterfaceRef, dir Direction, pcb ProtocolControlRef, cookie uint64) int {
	tk := h.mu.RLock()
	defer h.mu.RUnlock(tk)

	if atomic.LoadInt32(&h.closed) != 0 {
		plog.BUG("RunInject called on an unregistered head %v/%v", h.headType, h.key)
	}

	list := h.listFor(dir)
	m := *packet
	rv := 0
	skipping := cookie != 0

	for _, hk := range list {
		if skipping {
			if hk.Cookie == cookie {
				skipping = false
			}
			continue
		}
		rv = hk.Func(hk.Arg, &m, iface, dir, pcb)
		if rv != 0 || m == nil {
			break
		}
	}

	*packet = m
	return rv
}

func (h *Head) listFor(dir Direction) hookList {
	if dir == Input {
		return h.in
	}
	return h.out
}

// AddHook registers fn/arg on the lists selected by flags (Input,
// Output, or All), at the given priority order. name is a
// diagnostic-only label.
//
// AddHook fails with ErrBadFlags if neither Input nor Output is set,
// or ErrAlreadyPresent if a hook with the same (fn, arg) identity
// already exists on a requested list. It never returns ErrOutOfMemory,
// and FlagWaitOK does not change its behavior: Go's allocator has no
// must-not-block mode. The Hook record(s) are allocated before the
// lock is taken (see DESIGN.md).
//
// When flags requests both lists, AddHook is all-or-nothing: if the
// output-list insertion fails after the input-list insertion already
// succeeded, the input-list insertion is rolled back before AddHook
// returns, so a failed AddHook never leaves a head partially mutated.
func (h *Head) AddHook(fn FilterFunc, arg interface{}, name string, flags Flags, order uint8) error {
	if flags&FlagAll == 0 {
		return ErrBadFlags
	}

	var inHook, outHook *Hook
	if flags&FlagInput != 0 {
		inHook = &Hook{Func: fn, Arg: arg, Name: name, Order: order, Cookie: cookieSource.next()}
	}
	if flags&FlagOutput != 0 {
		outHook = &Hook{Func: fn, Arg: arg, Name: name, Order: order, Cookie: cookieSource.next()}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.mu.IsLockedByMe() {
		plog.BUG("AddHook running without the head's write lock held on %v/%v", h.headType, h.key)
	}

	if inHook != nil {
		if h.in.findIdentity(fn, arg) >= 0 {
			return ErrAlreadyPresent
		}
		h.in = h.in.addInput(inHook)
		atomic.AddInt32(&h.nhooks, 1)
	}
	if outHook != nil {
		if h.out.findIdentity(fn, arg) >= 0 {
			if inHook != nil {
				h.in, _, _ = h.in.removeIdentity(fn, arg)
				atomic.AddInt32(&h.nhooks, -1)
			}
			return ErrAlreadyPresent
		}
		h.out = h.out.addOutput(outHook)
		atomic.AddInt32(&h.nhooks, 1)
	}

	plog.DBG("AddHook %s on %v/%v (flags=%v order=%d)", name, h.headType, h.key, flags, order)
	return nil
}

// RemoveHook removes the hook matching (fn, arg) from the lists
// selected by flags. It fails with ErrBadFlags if neither Input nor
// Output is set, or ErrNotPresent if a requested list has no matching
// hook.
func (h *Head) RemoveHook(fn FilterFunc, arg interface{}, flags Flags) error {
	if flags&FlagAll == 0 {
		return ErrBadFlags
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.mu.IsLockedByMe() {
		plog.BUG("RemoveHook running without the head's write lock held on %v/%v", h.headType, h.key)
	}

	if flags&FlagInput != 0 {
		l, _, ok := h.in.removeIdentity(fn, arg)
		if !ok {
			return ErrNotPresent
		}
		h.in = l
		atomic.AddInt32(&h.nhooks, -1)
	}
	if flags&FlagOutput != 0 {
		l, _, ok := h.out.removeIdentity(fn, arg)
		if !ok {
			return ErrNotPresent
		}
		h.out = l
		atomic.AddInt32(&h.nhooks, -1)
	}

	plog.DBG("RemoveHook on %v/%v (flags=%v)", h.headType, h.key, flags)
	return nil
}

// Cookie returns the cookie stamped on the hook matching (fn, arg) on
// the list selected by flags (Input or Output; All is not meaningful
// here and is treated as an error), or 0 if no such hook exists.
func (h *Head) Cookie(fn FilterFunc, arg interface{}, flags Flags) (uint64, error) {
	switch flags & FlagAll {
	case FlagInput:
	case FlagOutput:
	default:
		return 0, ErrBadFlags
	}

	tk := h.mu.RLock()
	defer h.mu.RUnlock(tk)

	if flags&FlagInput != 0 {
		return h.in.findCookie(fn, arg), nil
	}
	return h.out.findCookie(fn, arg), nil
}

// freeAll drops every hook on both lists. Called by Registry.Unregister
// on a head already detached from the registry, per the "free residual
// hooks rather than leak or panic" contract spec.md's design notes
// settle on.
func (h *Head) freeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.mu.IsLockedByMe() {
		plog.BUG("freeAll running without the head's write lock held on %v/%v", h.headType, h.key)
	}
	n := len(h.in) + len(h.out)
	if n > 0 {
		plog.WARN("freeing %d residual hook(s) on unregister of %v/%v", n, h.headType, h.key)
	}
	h.in = nil
	h.out = nil
	atomic.StoreInt32(&h.nhooks, 0)
}
