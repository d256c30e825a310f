// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedProxies resolves the client address of a request. The direct peer
// (RemoteAddr) is the client unless it is one of the configured proxies;
// only then are X-Forwarded-For and X-Real-IP consulted. A nil
// *TrustedProxies trusts nobody.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies parses a comma-separated list of IP addresses and
// CIDR ranges, e.g. "127.0.0.1, 10.0.0.0/8". An empty list trusts nobody.
func ParseTrustedProxies(list string) (*TrustedProxies, error) {
	t := &TrustedProxies{}
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			prefix, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", item, err)
			}
			t.prefixes = append(t.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", item, err)
		}
		addr = addr.Unmap()
		t.prefixes = append(t.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return t, nil
}

// trusts reports whether ip is a configured proxy.
func (t *TrustedProxies) trusts(ip string) bool {
	if t == nil || len(t.prefixes) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range t.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the address failed logins are counted against. Behind
// trusted proxies it walks X-Forwarded-For from the right and returns the
// first hop that is not a trusted proxy, so a client cannot choose its own
// address by prepending entries.
func (t *TrustedProxies) ClientIP(r *http.Request) string {
	peer := remoteHost(r)
	if !t.trusts(peer) {
		return peer
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if _, err := netip.ParseAddr(hop); err != nil {
				// Garbage in the chain; stop at the last hop we could vouch for.
				return peer
			}
			if !t.trusts(hop) {
				return hop
			}
			peer = hop
		}
		return peer
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}
	return peer
}

// remoteHost strips the port from RemoteAddr.
func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
