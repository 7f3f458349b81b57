package pfilhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func noopFilter(arg interface{}, packet *PacketRef, iface InterfaceRef, dir Direction, pcb ProtocolControlRef) int {
	return 0
}

func anotherNoopFilter(arg interface{}, packet *PacketRef, iface InterfaceRef, dir Direction, pcb ProtocolControlRef) int {
	return 0
}

func TestSameIdentityRequiresBothFuncAndArg(t *testing.T) {
	h := &Hook{Func: noopFilter, Arg: "a"}

	assert.True(t, sameIdentity(h, noopFilter, "a"))
	assert.False(t, sameIdentity(h, noopFilter, "b"), "same func, different arg")
	assert.False(t, sameIdentity(h, anotherNoopFilter, "a"), "different func, same arg")
}

func TestHookListAddInputOrdering(t *testing.T) {
	var l hookList
	a := &Hook{Name: "a", Order: 100}
	b := &Hook{Name: "b", Order: 50}
	c := &Hook{Name: "c", Order: 100}

	l = l.addInput(a)
	l = l.addInput(b)
	l = l.addInput(c)

	names := make([]string, len(l))
	for i, h := range l {
		names[i] = h.Name
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestHookListAddOutputOrdering(t *testing.T) {
	var l hookList
	a := &Hook{Name: "a", Order: 100}
	b := &Hook{Name: "b", Order: 50}
	c := &Hook{Name: "c", Order: 100}

	l = l.addOutput(a)
	l = l.addOutput(b)
	l = l.addOutput(c)

	names := make([]string, len(l))
	for i, h := range l {
		names[i] = h.Name
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
}

func TestHookListFindAndRemoveIdentity(t *testing.T) {
	var l hookList
	l = l.addInput(&Hook{Func: noopFilter, Arg: "a", Name: "a", Order: 1})
	l = l.addInput(&Hook{Func: anotherNoopFilter, Arg: "b", Name: "b", Order: 2})

	assert.Equal(t, 1, l.findIdentity(noopFilter, "a"))
	assert.Equal(t, -1, l.findIdentity(noopFilter, "nope"))

	l2, removed, ok := l.removeIdentity(noopFilter, "a")
	assert.True(t, ok)
	assert.Equal(t, "a", removed.Name)
	assert.Len(t, l2, 1)
	assert.Equal(t, "b", l2[0].Name)

	_, _, ok = l2.removeIdentity(noopFilter, "a")
	assert.False(t, ok)
}

func TestHookListFindCookie(t *testing.T) {
	var l hookList
	l = l.addInput(&Hook{Func: noopFilter, Arg: "a", Cookie: 0xABCD})

	assert.Equal(t, uint64(0xABCD), l.findCookie(noopFilter, "a"))
	assert.Zero(t, l.findCookie(noopFilter, "missing"))
}

func TestCookieSourceNeverReturnsZero(t *testing.T) {
	for i := 0; i < 1000; i++ {
		if c := cookieSource.next(); c == 0 {
			t.Fatalf("cookieSource.next() returned 0 on iteration %d", i)
		}
	}
}

func TestCookieSourceValuesDiffer(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		c := cookieSource.next()
		assert.False(t, seen[c], "cookie %d repeated within 100 draws", c)
		seen[c] = true
	}
}
