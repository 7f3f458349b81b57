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
	"strings"
	"sync"
	"sync/atomic"

	"github.com/intuitivelabs/bytescase"

	"github.com/dijkstracula/pfilhook/internal/plog"
	"github.com/dijkstracula/pfilhook/rmlock"
)

// HeadType distinguishes families of interception points (e.g. an IPv4
// input path vs. a link-layer bridge path). It is one half of a head's
// identity; see HeadKey for the other half.
type HeadType uint8

const (
	// AFInet identifies IPv4 interception points.
	AFInet HeadType = iota
	// AFInet6 identifies IPv6 interception points.
	AFInet6
	// Link identifies link-layer (bridge, tunnel) interception points.
	Link
)

func (t HeadType) String() string {
	switch t {
	case AFInet:
		return "AF_INET"
	case AFInet6:
		return "AF_INET6"
	case Link:
		return "LINK"
	default:
		return "unknown"
	}
}

// HeadKey is the other half of a head's identity within a HeadType
// (e.g. a protocol family value, or an interface name). Two
// implementations are provided: IntKey for numeric keys, grounding
// pfil.c's ph_un.phu_val, and StringKey for named keys such as a
// tunnel or bridge-port class. Callers may supply their own
// implementation as long as it is a comparable type usable as a map
// key (see Registry's internal headID).
type HeadKey interface {
	// Equal reports whether two keys identify the same head.
	Equal(other HeadKey) bool
}

// IntKey is a HeadKey backed by a plain integer, the idiomatic
// equivalent of pfil.c's protocol-family-valued phu_val.
type IntKey uint32

// Equal implements HeadKey.
func (k IntKey) Equal(other HeadKey) bool {
	o, ok := other.(IntKey)
	return ok && k == o
}

// StringKey is a case-insensitive HeadKey backed by a string, for
// keying heads by a named resource such as an interface. Equality is
// computed with bytescase.CmpEq so "eth0" and "ETH0" name the same
// head.
type StringKey string

// Equal implements HeadKey.
func (k StringKey) Equal(other HeadKey) bool {
	o, ok := other.(StringKey)
	return ok && bytescase.CmpEq([]byte(k), []byte(o))
}

// headID is the registry's internal map key. It requires HeadKey's
// dynamic type to itself be comparable with ==, which both IntKey and
// StringKey are; StringKey additionally folds case via strings.ToLower
// before being used as a map key so that Equal's case-insensitivity is
// honored by map lookups too (bytescase.CmpEq alone would not be, since
// Go map equality never consults a type's Equal method).
type headID struct {
	t HeadType
	k interface{}
}

func newHeadID(t HeadType, k HeadKey) headID {
	if sk, ok := k.(StringKey); ok {
		k = StringKey(strings.ToLower(string(sk)))
	}
	return headID{t: t, k: k}
}

// Registry is the top-level set of hook heads, keyed by (HeadType,
// HeadKey), with uniqueness enforced. The zero value is not usable;
// construct one with NewRegistry. A Registry models the "one registry
// abstraction" spec.md calls for; callers needing per-virtual-instance
// isolation construct one Registry per instance.
type Registry struct {
	mu    sync.Mutex
	heads map[headID]*Head
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{heads: make(map[headID]*Head)}
}

// Register creates and inserts a new head for (headType, key). It
// fails with ErrAlreadyExists if a head with that identity is already
// registered.
func (r *Registry) Register(headType HeadType, key HeadKey) (*Head, error) {
	id := newHeadID(headType, key)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.heads[id]; exists {
		return nil, ErrAlreadyExists
	}

	h := &Head{headType: headType, key: key, mu: rmlock.New()}
	r.heads[id] = h
	plog.DBG("registered head %v/%v", headType, key)
	return h, nil
}

// Unregister removes h from the registry and frees every hook
// remaining on either of its lists. The caller promises external
// quiescence: no goroutine may be inside Run/RunInject on h, and none
// may enter it after Unregister returns - the per-head lock is safe to
// tear down only because of this promise (see DESIGN.md's Open
// Question discussion). Unregister fails with
// ErrNotFound if h is not currently registered.
func (r *Registry) Unregister(h *Head) error {
	id := newHeadID(h.headType, h.key)

	r.mu.Lock()
	found, ok := r.heads[id]
	if !ok || found != h {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.heads, id)
	r.mu.Unlock()

	// From here on h is detached: no further Lookup can find it, so no
	// new dispatch can begin. Free its hooks without the registry
	// mutex held.
	atomic.StoreInt32(&h.closed, 1)
	h.freeAll()
	plog.DBG("unregistered head %v/%v", h.headType, h.key)
	return nil
}

// Lookup returns the head registered for (headType, key), if any.
func (r *Registry) Lookup(headType HeadType, key HeadKey) (*Head, bool) {
	id := newHeadID(headType, key)

	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.heads[id]
	return h, ok
}

// Close tears down the registry, failing with ErrNotEmpty if any head
// is still registered. It is the caller's job to Unregister every head
// first - Close does not do so on the caller's behalf, mirroring
// pfil.c's vnet_pfil_uninit, which only asserts (via a commented-out
// panic) that its head list is empty rather than draining it.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.heads) != 0 {
		plog.BUG("Close called with %d head(s) still registered", len(r.heads))
		return ErrNotEmpty
	}
	return nil
}
