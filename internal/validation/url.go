// Package validation checks URLs the CLI hands to Revolut or listens on.
//
// Webhook URLs are called by Revolut's servers, so they must name a public
// host: loopback, private, link-local and cloud metadata destinations are
// rejected, both as literals and after DNS resolution. Redirect URIs for the
// Business consent flow are the opposite: they must point at the local machine.
package validation

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const resolveTimeout = 5 * time.Second

// lookupIP is replaced in tests.
var lookupIP = func(ctx context.Context, host string) ([]net.IP, error) {
	return net.DefaultResolver.LookupIP(ctx, "ip", host)
}

// privateNetworks holds the reserved ranges that are not covered by the
// net.IP classification helpers.
var privateNetworks = mustParseCIDRs(
	"10.0.0.0/8",      // RFC1918
	"172.16.0.0/12",   // RFC1918
	"192.168.0.0/16",  // RFC1918
	"100.64.0.0/10",   // RFC6598 shared address space
	"192.0.0.0/24",    // RFC6890
	"192.0.2.0/24",    // RFC5737 documentation
	"198.18.0.0/15",   // RFC2544 benchmarking
	"198.51.100.0/24", // RFC5737 documentation
	"203.0.113.0/24",  // RFC5737 documentation
	"240.0.0.0/4",     // RFC1112 reserved
	"fc00::/7",        // RFC4193 unique local
	"100::/64",        // RFC6666 discard
	"2001:db8::/32",   // RFC3849 documentation
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}
		out = append(out, network)
	}
	return out
}

// ValidateWebhookURL checks that Revolut can deliver events to rawURL.
// Production requires https; the sandbox also accepts plain http.
func ValidateWebhookURL(rawURL string, sandbox bool) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("webhook URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}
	switch {
	case u.Scheme == "https":
	case u.Scheme == "http" && sandbox:
	case u.Scheme == "http":
		return fmt.Errorf("webhook URL must be https in production")
	default:
		return fmt.Errorf("webhook URL must be http or https, got %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("webhook URL must contain a hostname")
	}
	if isLocalhost(host) {
		return fmt.Errorf("webhook URL must be reachable from the internet, got %q", host)
	}
	if isCloudMetadata(host) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}

	if ip := net.ParseIP(host); ip != nil {
		return validatePublicIP(ip)
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	ips, err := lookupIP(ctx, host)
	if err != nil {
		// Hosts that do not resolve yet are allowed; Revolut reports delivery failures.
		return nil
	}
	for _, ip := range ips {
		if err := validatePublicIP(ip); err != nil {
			return fmt.Errorf("domain %q resolves to forbidden IP %s: %w", host, ip, err)
		}
	}
	return nil
}

// ValidateRedirectURI checks a consent redirect URI the CLI can listen on:
// plain http on a loopback host with an explicit port.
func ValidateRedirectURI(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect URI must use http, got %q", u.Scheme)
	}
	host := u.Hostname()
	if host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil || !ip.IsLoopback() {
			return nil, fmt.Errorf("redirect URI must point at localhost or a loopback address, got %q", host)
		}
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil || port < 0 || port > 65535 {
		return nil, fmt.Errorf("redirect URI must include a port")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("redirect URI must not carry a query or fragment")
	}
	return u, nil
}

func isLocalhost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return host == "localhost" || strings.HasSuffix(host, ".localhost")
}

func isCloudMetadata(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	switch host {
	case "169.254.169.254", "metadata.google.internal", "metadata", "instance-data", "fd00:ec2::254":
		return true
	}
	return strings.HasSuffix(host, ".metadata.google.internal")
}

func validatePublicIP(ip net.IP) error {
	switch {
	case ip.Equal(net.IPv4(169, 254, 169, 254)):
		return fmt.Errorf("cloud metadata IP address is not allowed")
	case ip.IsUnspecified():
		return fmt.Errorf("unspecified IP addresses are not allowed")
	case ip.IsLoopback():
		return fmt.Errorf("loopback IP addresses are not allowed")
	case ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast():
		return fmt.Errorf("link-local IP addresses are not allowed")
	case ip.IsMulticast():
		return fmt.Errorf("multicast IP addresses are not allowed")
	case ip.IsPrivate() || inPrivateNetwork(ip):
		return fmt.Errorf("private IP addresses are not allowed")
	}
	return nil
}

func inPrivateNetwork(ip net.IP) bool {
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
