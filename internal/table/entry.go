package table

import (
	"fmt"

	"github.com/routelab/fwdsim/internal/netaddr"
)

// InterfaceEntry is one directly attached interface. Network is the
// pre-masked subnet of Addr, computed once at load time.
type InterfaceEntry struct {
	Name      string
	Addr      netaddr.Addr
	PrefixLen int
	Network   netaddr.Addr
}

// String returns the entry in interface-table line form
func (e InterfaceEntry) String() string {
	return fmt.Sprintf("%s %s/%d", e.Name, e.Addr, e.PrefixLen)
}

// RouteEntry is one routing-table entry. Network is stored pre-masked
// so membership checks against it are exact-equality comparisons.
type RouteEntry struct {
	Network   netaddr.Addr
	PrefixLen int
	NextHop   netaddr.Addr
}

// String returns the entry in route-table line form
func (e RouteEntry) String() string {
	return fmt.Sprintf("%s/%d %s", e.Network, e.PrefixLen, e.NextHop)
}
