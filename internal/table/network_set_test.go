package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkSet(t *testing.T) {
	ns := NewNetworkSet()

	assert.True(t, ns.Add(0x0a000000, 24))
	assert.False(t, ns.Add(0x0a000000, 24), "second add of the same network must report a duplicate")
	assert.Equal(t, 1, ns.Size())

	// Same network value, different prefix length: distinct entries.
	assert.True(t, ns.Add(0x0a000000, 16))
	assert.Equal(t, 2, ns.Size())

	assert.True(t, ns.Contains(0x0a000000, 24))
	assert.True(t, ns.Contains(0x0a000000, 16))
	assert.False(t, ns.Contains(0x0a000000, 8))
	assert.False(t, ns.Contains(0x0b000000, 24))
}

func TestNetworkSetZeroNetwork(t *testing.T) {
	ns := NewNetworkSet()

	assert.True(t, ns.Add(0, 0))
	assert.False(t, ns.Add(0, 0))
	assert.True(t, ns.Contains(0, 0))
	assert.False(t, ns.Contains(0, 32))
}
