package docsession

import (
	"net"
	"net/http"
	"strings"
)

// parseTrustedProxies accepts CIDRs and bare addresses; entries that are neither are
// skipped.
func parseTrustedProxies(proxies []string) []net.IPNet {
	trusted := make([]net.IPNet, 0, len(proxies))
	for _, proxy := range proxies {
		_, ipnet, err := net.ParseCIDR(proxy)
		if err != nil {
			ip := net.ParseIP(proxy)
			if ip == nil {
				continue
			}
			mask := net.CIDRMask(32, 32)
			if ip.To4() == nil {
				mask = net.CIDRMask(128, 128)
			}
			ipnet = &net.IPNet{IP: ip, Mask: mask}
		}
		trusted = append(trusted, *ipnet)
	}
	return trusted
}

// clientIP returns the peer address, or the first X-Forwarded-For entry when the peer
// is a trusted proxy.
func clientIP(r *http.Request, trusted []net.IPNet) string {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return ip
	}
	peer := net.ParseIP(ip)
	if peer == nil {
		return ip
	}
	for _, network := range trusted {
		if network.Contains(peer) {
			if ips := splitIPs(forwarded); len(ips) > 0 && ips[0] != "" {
				return ips[0]
			}
		}
	}
	return ip
}

func splitIPs(forwarded string) []string {
	ips := strings.Split(forwarded, ",")
	for i := range ips {
		ips[i] = strings.TrimSpace(ips[i])
	}
	return ips
}
