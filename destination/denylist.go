package destination

import (
	"fmt"
	"net"
	"strings"
)

// The Denylist interface allows to check whether a destination host is
// blocked.
type Denylist interface {
	// IsDenied tests whether the host falls into one of the denied
	// networks. Hosts that don't parse as an IP address are denied.
	IsDenied(host string) bool
}

// denylist implements the Denylist interface with a list of CIDR
// ranges.
type denylist struct {
	networks []*net.IPNet
}

// NewDenylist creates a Denylist from the given network ranges. Entries
// are CIDR notation, a bare IP address is treated as a host-length
// range. Empty strings are ignored. Returns an error if an invalid
// range has been found.
func NewDenylist(networks []string) (Denylist, error) {
	dl := &denylist{}

	for _, network := range networks {
		network = strings.TrimSpace(network)
		if len(network) == 0 {
			continue
		}

		if !strings.Contains(network, "/") {
			ip := net.ParseIP(network)
			if ip == nil {
				return nil, fmt.Errorf("the network %s in the denylist is invalid", network)
			}

			if ip.To4() != nil {
				network += "/32"
			} else {
				network += "/128"
			}
		}

		_, cidr, err := net.ParseCIDR(network)
		if err != nil {
			return nil, fmt.Errorf("the network %s in the denylist is invalid", network)
		}

		dl.networks = append(dl.networks, cidr)
	}

	return dl, nil
}

func (dl *denylist) IsDenied(host string) bool {
	ip := net.ParseIP(host)
	if ip == nil {
		return true
	}

	for _, r := range dl.networks {
		if r.Contains(ip) {
			return true
		}
	}

	return false
}
