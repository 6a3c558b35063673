package netinfo

import (
	"net"
	"sort"
	"strings"
)

// Interface is one reachable address a client could connect to, classified
// by how likely it is to be the address players actually want (VPN overlay
// first, then wired, then WiFi).
type Interface struct {
	Name     string `json:"name"`
	IP       string `json:"ip"`
	Type     string `json:"type"`
	Priority int    `json:"-"`
}

// List enumerates non-loopback IPv4 addresses, best candidates first.
func List() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var out []Interface
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP.To4()
			if ip == nil || ip.IsLinkLocalUnicast() {
				continue
			}

			kind, prio := classify(iface.Name)
			out = append(out, Interface{
				Name:     iface.Name,
				IP:       ip.String(),
				Type:     kind,
				Priority: prio,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out, nil
}

// Best returns the most promising interface, or nil when none qualify.
func Best(ifaces []Interface) *Interface {
	if len(ifaces) == 0 {
		return nil
	}
	return &ifaces[0]
}

func classify(name string) (string, int) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "zt"):
		return "ZeroTier VPN", 1
	case strings.Contains(lower, "tun") || strings.Contains(lower, "vpn") ||
		strings.HasPrefix(lower, "wg"):
		return "VPN/Tunnel", 1
	case strings.HasPrefix(lower, "eth") || strings.HasPrefix(lower, "enp") ||
		strings.HasPrefix(lower, "en"):
		return "Ethernet", 2
	case strings.HasPrefix(lower, "wlan") || strings.HasPrefix(lower, "wifi") ||
		strings.HasPrefix(lower, "wl"):
		return "WiFi", 3
	case strings.HasPrefix(lower, "docker"):
		return "Docker", 6
	case strings.HasPrefix(lower, "br-"):
		return "Bridge", 7
	default:
		return "Unknown", 5
	}
}
