package transport

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Adapted from bfix-gospel/network/portmapper.go (AGPL-3.0-or-later),
// Copyright (C) 2011-2023 Bernd Fix: same direct-vs-UPnP mode detection
// and routable-address table, retargeted to an open/close/discard
// facade.
//----------------------------------------------------------------------

import (
	"fmt"
	"net"
	"time"

	upnp "github.com/huin/goupnp/dcps/internetgateway2"

	herrors "github.com/bfix/hyperborea/errors"
)

// Protocol names a port mapping's transport protocol.
type Protocol int

const (
	// TCP maps a TCP port.
	TCP Protocol = iota
	// UDP maps a UDP port.
	UDP
	// Both is accepted by Open and Close but handled as TCP: no UDP
	// mapping is made for it.
	Both
)

func (p Protocol) String() string {
	switch p {
	case TCP:
		return "TCP"
	case UDP:
		return "UDP"
	default:
		return "TCP"
	}
}

var privateBlocks []*net.IPNet

func init() {
	for _, cidr := range []string{
		"127.0.0.0/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16",
		"169.254.0.0/16", "::1/128", "fe80::/10", "fc00::/7",
	} {
		if _, block, err := net.ParseCIDR(cidr); err == nil {
			privateBlocks = append(privateBlocks, block)
		}
	}
}

func isRoutable(ip net.IP) bool {
	for _, block := range privateBlocks {
		if block.Contains(ip) {
			return false
		}
	}
	return true
}

// PortMapper is an optional UPnP port-forwarding facade. Not on any
// critical path: a relay with a directly routable address (or one
// behind a firewall it does not control) simply never calls Open.
type PortMapper struct {
	direct     bool
	extIP      net.IP
	lclIP      net.IP
	upnpClient *upnp.WANIPConnection2
	mappings   map[string]mapping
}

type mapping struct {
	protocol Protocol
	port     int
}

// NewPortMapper probes local interfaces for a routable address; failing
// that, it tries to discover a UPnP internet gateway.
func NewPortMapper() (*PortMapper, error) {
	pm := &PortMapper{mappings: make(map[string]mapping)}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, herrors.New(herrors.ErrMiddleware, "enumerate interfaces: %v", err)
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && isRoutable(ipNet.IP) {
			pm.direct = true
			pm.extIP = ipNet.IP
			return pm, nil
		}
	}

	clients, _, err := upnp.NewWANIPConnection2Clients()
	if err != nil || len(clients) == 0 {
		return nil, herrors.New(herrors.ErrMiddleware, "no routable address and no UPnP gateway found")
	}
	client := clients[0]
	extIP, err := client.GetExternalIPAddress()
	if err != nil {
		return nil, herrors.New(herrors.ErrMiddleware, "query external address: %v", err)
	}
	pm.upnpClient = client
	pm.extIP = net.ParseIP(extIP)
	host, _, _ := net.SplitHostPort(client.ServiceClient.Location.Host)
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && ipNet.Contains(net.ParseIP(host)) {
			pm.lclIP = ipNet.IP
			break
		}
	}
	return pm, nil
}

// Open maps port on proto for duration (0 = until Close/Discard), returning
// the externally reachable address.
func (pm *PortMapper) Open(port int, proto Protocol, duration time.Duration) (string, error) {
	if pm.direct {
		addr := concat(pm.extIP, port)
		return addr, nil
	}
	if pm.upnpClient == nil {
		return "", herrors.New(herrors.ErrMiddleware, "port mapper not initialized")
	}
	lifetime := uint32(duration.Seconds())
	descr := fmt.Sprintf("hyperborea:%d:%s", port, proto)
	if err := pm.upnpClient.AddPortMapping("", uint16(port), proto.String(), uint16(port), pm.lclIP.String(), true, descr, lifetime); err != nil {
		return "", herrors.New(herrors.ErrMiddleware, "AddPortMapping: %v", err)
	}
	pm.mappings[descr] = mapping{protocol: proto, port: port}
	return concat(pm.extIP, port), nil
}

// Close removes the mapping for port/proto, if any.
func (pm *PortMapper) Close(port int, proto Protocol) error {
	if pm.direct {
		return nil
	}
	descr := fmt.Sprintf("hyperborea:%d:%s", port, proto)
	if _, ok := pm.mappings[descr]; !ok {
		return nil
	}
	if err := pm.upnpClient.DeletePortMapping("", uint16(port), proto.String()); err != nil {
		return herrors.New(herrors.ErrMiddleware, "DeletePortMapping: %v", err)
	}
	delete(pm.mappings, descr)
	return nil
}

// Discard tears down every mapping this PortMapper has opened.
func (pm *PortMapper) Discard() error {
	for descr, m := range pm.mappings {
		if err := pm.Close(m.port, m.protocol); err != nil {
			return err
		}
		delete(pm.mappings, descr)
	}
	return nil
}

func concat(ip net.IP, port int) string {
	if ip.To4() == nil {
		return fmt.Sprintf("[%s]:%d", ip.String(), port)
	}
	return fmt.Sprintf("%s:%d", ip.String(), port)
}
