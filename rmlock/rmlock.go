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

// Package rmlock implements a read-mostly lock: many concurrent shared
// ("reader") holders, or a single exclusive ("writer") holder, never both.
//
// It is a two-state specialization of an intention lock: unlike a
// hierarchical lock guarding a tree of nodes, a Lock guards exactly one
// flat resource (a single hook head's pair of lists), so there is no need
// for the IS/IX provisional states a tree walk would require - only S
// (shared) and X (exclusive).
//
// As with an intention lock, the interesting state (here: a reader
// count and a writer-present flag) is packed into a single
// word and mutated with atomic compare-and-swap loops, with a condvar
// acting as the sleep/wake barrier for the (rare) case a request is
// incompatible with the state already held.
//
//	Request/Holding | Unlocked | Holding X | Holding S
//	Request X       |   Yes    |    No     |    No
//	Request S       |   Yes    |    No     |    Yes
//
// The fast path for RLock never touches the condvar's mutex: a reader
// only falls back to the blocking path if its optimistic CAS observes a
// writer already present.
package rmlock

import (
	"sync"
	"sync/atomic"
)

const (
	writerBit   uint64 = 1 << 63
	readerMask  uint64 = writerBit - 1
	maxHolders         = readerMask
)

// Lock is a read-mostly mutex. The zero value is not usable; construct
// one with New.
type Lock struct {
	mtx   sync.Mutex
	c     *sync.Cond // barrier for requests incompatible with the current state
	state uint64     // bit 63: writer present; bits 0-62: reader count
}

// Ticket is returned by RLock/TryRLock and must be threaded through the
// matching RUnlock call. It carries no observable fields today; it
// exists so that a future per-CPU reader-tracking implementation can
// record reader identity without an additional heap allocation on the
// hot path, per the read-mostly lock's priority-tracker contract.
type Ticket struct {
	_ struct{}
}

// New returns a ready-to-use Lock.
func New() *Lock {
	var l Lock
	l.c = sync.NewCond(&l.mtx)
	return &l
}

func readers(state uint64) uint64 {
	return state & readerMask
}

func hasWriter(state uint64) bool {
	return state&writerBit != 0
}

// RLock acquires the lock for shared (reader) access. The fast path is a
// single atomic compare-and-swap that never touches the condvar's mutex;
// RLock only falls back to waiting on the condvar if a writer is (or
// becomes) present while the CAS loop spins.
func (l *Lock) RLock() Ticket {
	for {
		state := atomic.LoadUint64(&l.state)
		if !hasWriter(state) {
			if readers(state) >= maxHolders {
				// Exceedingly unlikely; spin until a reader
				// releases and the count drops below the limit.
			} else if atomic.CompareAndSwapUint64(&l.state, state, state+1) {
				return Ticket{}
			}
			continue
		}
		l.mtx.Lock()
		for hasWriter(atomic.LoadUint64(&l.state)) {
			l.c.Wait()
		}
		l.mtx.Unlock()
	}
}

// TryRLock attempts to acquire the lock for shared access without
// blocking. It returns false if a writer currently holds the lock.
func (l *Lock) TryRLock() (Ticket, bool) {
	for {
		state := atomic.LoadUint64(&l.state)
		if hasWriter(state) {
			return Ticket{}, false
		}
		if atomic.CompareAndSwapUint64(&l.state, state, state+1) {
			return Ticket{}, true
		}
	}
}

// RUnlock releases a shared hold acquired by RLock or TryRLock. The last
// reader to leave wakes any goroutines blocked on Lock.
func (l *Lock) RUnlock(Ticket) {
	for {
		state := atomic.LoadUint64(&l.state)
		newState := state - 1
		if atomic.CompareAndSwapUint64(&l.state, state, newState) {
			if readers(newState) == 0 {
				l.mtx.Lock()
				l.c.Broadcast()
				l.mtx.Unlock()
			}
			return
		}
	}
}

// Lock acquires the lock for exclusive (writer) access, blocking until
// every prior reader has released and no other writer holds it.
func (l *Lock) Lock() {
	l.mtx.Lock()
	for {
		state := atomic.LoadUint64(&l.state)
		if state == 0 && atomic.CompareAndSwapUint64(&l.state, 0, writerBit) {
			l.mtx.Unlock()
			return
		}
		l.c.Wait()
	}
}

// Unlock releases the exclusive hold acquired by Lock and wakes every
// goroutine blocked on RLock or Lock.
func (l *Lock) Unlock() {
	atomic.StoreUint64(&l.state, 0)
	l.mtx.Lock()
	l.c.Broadcast()
	l.mtx.Unlock()
}

// IsLockedByMe reports whether the lock currently has the writer bit
// set. It does not verify the calling goroutine is the actual owner
// (Go exposes no supported goroutine-identity API); it is intended only
// for debug-build assertions that a caller observes the lock held at
// all, mirroring PFIL_WOWNED's role in pfil.c.
func (l *Lock) IsLockedByMe() bool {
	return hasWriter(atomic.LoadUint64(&l.state))
}
