package pfilhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	h, err := r.Register(AFInet, IntKey(4))
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, AFInet, h.Type())

	got, ok := r.Lookup(AFInet, IntKey(4))
	assert.True(t, ok)
	assert.Same(t, h, got)

	_, ok = r.Lookup(AFInet, IntKey(5))
	assert.False(t, ok)
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(AFInet6, IntKey(1))
	require.NoError(t, err)

	_, err = r.Register(AFInet6, IntKey(1))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestStringKeyLookupIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(Link, StringKey("eth0"))
	require.NoError(t, err)

	h, ok := r.Lookup(Link, StringKey("ETH0"))
	assert.True(t, ok)
	assert.NotNil(t, h)

	_, err = r.Register(Link, StringKey("ETH0"))
	assert.ErrorIs(t, err, ErrAlreadyExists, "case-folded key collides with existing registration")
}

func TestUnregisterNotFound(t *testing.T) {
	r := NewRegistry()
	h := &Head{headType: AFInet, key: IntKey(9)}
	err := r.Unregister(h)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnregisterFreesResidualHooks(t *testing.T) {
	r := NewRegistry()
	h, err := r.Register(AFInet, IntKey(1))
	require.NoError(t, err)

	fn := order(&[]string{}, "f")
	require.NoError(t, h.AddHook(fn, "a", "f", FlagAll, DefaultOrder))
	require.Equal(t, 2, h.Nhooks())

	require.NoError(t, r.Unregister(h))
	assert.Equal(t, 0, h.Nhooks())

	_, ok := r.Lookup(AFInet, IntKey(1))
	assert.False(t, ok)
}

func TestRegisterUnregisterRoundTripLeavesRegistryUnchanged(t *testing.T) {
	r := NewRegistry()
	h, err := r.Register(AFInet, IntKey(42))
	require.NoError(t, err)
	require.NoError(t, r.Unregister(h))

	require.NoError(t, r.Close(), "registry must be empty again after the round trip")
}

func TestCloseFailsWithResidualHeads(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(AFInet, IntKey(1))
	require.NoError(t, err)

	err = r.Close()
	assert.ErrorIs(t, err, ErrNotEmpty)
}

func TestCloseEmptyRegistrySucceeds(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Close())
}

func TestIntKeyEquality(t *testing.T) {
	assert.True(t, IntKey(7).Equal(IntKey(7)))
	assert.False(t, IntKey(7).Equal(IntKey(8)))
	assert.False(t, IntKey(7).Equal(StringKey("7")))
}

func TestHeadTypeString(t *testing.T) {
	assert.Equal(t, "AF_INET", AFInet.String())
	assert.Equal(t, "AF_INET6", AFInet6.String())
	assert.Equal(t, "LINK", Link.String())
}
