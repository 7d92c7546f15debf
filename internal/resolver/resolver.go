package resolver

import (
	"fmt"

	"github.com/routelab/fwdsim/internal/netaddr"
	"github.com/routelab/fwdsim/internal/table"
)

// Kind is the category of a forwarding decision
type Kind int

// Decision kind constants
const (
	// DirectDelivery means the destination lies in an attached subnet
	DirectDelivery Kind = iota
	// Forwarded means a route matched and its next hop has an egress interface
	Forwarded
	// Unreachable means no route matched, or the matched route's next
	// hop is not on any attached subnet
	Unreachable
)

// String returns a string representation of the decision kind
func (k Kind) String() string {
	switch k {
	case DirectDelivery:
		return "DirectDelivery"
	case Forwarded:
		return "Forwarded"
	case Unreachable:
		return "Unreachable"
	default:
		return "Unknown"
	}
}

// Decision is the forwarding outcome for one destination address
type Decision struct {
	Kind      Kind
	Dest      netaddr.Addr
	Interface string       // egress interface; set for DirectDelivery and Forwarded
	NextHop   netaddr.Addr // set for Forwarded only
	NoRoute   bool         // set on Unreachable when no route matched at all
}

// String formats the decision as one output line
func (d Decision) String() string {
	switch d.Kind {
	case DirectDelivery:
		return fmt.Sprintf("Packet now being sent to destination %s, leaving router from interface %s", d.Dest, d.Interface)
	case Forwarded:
		return fmt.Sprintf("Packet destination is %s, leaving router from interface %s to next hop %s", d.Dest, d.Interface, d.NextHop)
	default:
		return fmt.Sprintf("Destination %s is unreachable.", d.Dest)
	}
}

// Resolve determines the forwarding outcome for dest. It is a pure
// function over the immutable entry slices and is safe for concurrent
// use. Direct delivery takes priority over the route table.
func Resolve(dest netaddr.Addr, ifaces []table.InterfaceEntry, routes []table.RouteEntry) Decision {
	if idx, ok := findEgress(dest, ifaces); ok {
		return Decision{
			Kind:      DirectDelivery,
			Dest:      dest,
			Interface: ifaces[idx].Name,
		}
	}

	ri, ok := findRoute(dest, routes)
	if !ok {
		return Decision{Kind: Unreachable, Dest: dest, NoRoute: true}
	}

	ei, ok := findEgress(routes[ri].NextHop, ifaces)
	if !ok {
		// Only reachable with an inconsistent table: the route's next
		// hop is not on any attached subnet.
		return Decision{Kind: Unreachable, Dest: dest}
	}

	return Decision{
		Kind:      Forwarded,
		Dest:      dest,
		Interface: ifaces[ei].Name,
		NextHop:   routes[ri].NextHop,
	}
}

// findRoute selects the longest-prefix match for dest. Equal-length
// candidates keep the first one seen in table order; the scan uses a
// strict > so later ties never replace the incumbent.
func findRoute(dest netaddr.Addr, routes []table.RouteEntry) (int, bool) {
	best := -1
	bestLen := -1

	for i, r := range routes {
		if netaddr.MustMask(dest, r.PrefixLen) != r.Network {
			continue
		}
		if r.PrefixLen > bestLen {
			bestLen = r.PrefixLen
			best = i
		}
	}

	if best < 0 {
		return 0, false
	}
	return best, true
}

// findEgress returns the first attached interface whose subnet
// contains addr.
func findEgress(addr netaddr.Addr, ifaces []table.InterfaceEntry) (int, bool) {
	for i, iface := range ifaces {
		if netaddr.MustMask(addr, iface.PrefixLen) == iface.Network {
			return i, true
		}
	}
	return 0, false
}
