package common

import (
	"net"
)

// LocalNetworksPrefix is the prefix length every local network is scanned
// with, whatever the interface mask.
const LocalNetworksPrefix = 24

// GetLocalNetworks24 returns the private IPv4 networks of all up,
// non-loopback interfaces as /24 ranges
func GetLocalNetworks24() ([]*net.IPNet, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var networks []*net.IPNet
	seen := make(map[string]struct{})

	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			network, ok := privateNetwork24(addr)
			if !ok {
				continue
			}

			key := network.String()
			if _, exists := seen[key]; exists {
				continue
			}
			seen[key] = struct{}{}

			networks = append(networks, network)
		}
	}

	return networks, nil
}

// privateNetwork24 returns the /24 containing addr when addr is a private
// IPv4 interface address.
func privateNetwork24(addr net.Addr) (*net.IPNet, bool) {
	ipNet, ok := addr.(*net.IPNet)
	if !ok {
		return nil, false
	}
	ip := ipNet.IP.To4()
	if ip == nil || !ip.IsPrivate() {
		return nil, false
	}
	mask := net.CIDRMask(LocalNetworksPrefix, 8*net.IPv4len)
	return &net.IPNet{IP: ip.Mask(mask), Mask: mask}, true
}
