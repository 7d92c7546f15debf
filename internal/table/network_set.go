package table

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/routelab/fwdsim/internal/netaddr"
)

// NetworkSet tracks network/prefix pairs already seen during a load,
// keyed by hash so duplicate detection stays O(1) per record.
type NetworkSet struct {
	networks map[uint64]struct{}
}

// NewNetworkSet creates an empty NetworkSet
func NewNetworkSet() *NetworkSet {
	return &NetworkSet{
		networks: make(map[uint64]struct{}),
	}
}

// Add records a network, returning false if it was already present
func (ns *NetworkSet) Add(network netaddr.Addr, prefixLen int) bool {
	hash := hashNetwork(network, prefixLen)
	if _, exists := ns.networks[hash]; exists {
		return false
	}
	ns.networks[hash] = struct{}{}
	return true
}

// Contains checks whether a network is already in the set
func (ns *NetworkSet) Contains(network netaddr.Addr, prefixLen int) bool {
	_, exists := ns.networks[hashNetwork(network, prefixLen)]
	return exists
}

// Size returns the number of distinct networks in the set
func (ns *NetworkSet) Size() int {
	return len(ns.networks)
}

func hashNetwork(network netaddr.Addr, prefixLen int) uint64 {
	var buf [5]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(network))
	buf[4] = byte(prefixLen)
	return xxhash.Sum64(buf[:])
}
