// Package iputil provides IP address validation, classification, and
// extraction helpers shared by the parsers and the analyzer.
package iputil

import (
	"net/netip"
	"regexp"
)

// ipv4Pattern matches dotted-quad substrings. Candidates still need to pass
// IsValid before being treated as addresses (e.g. "999.1.1.1" matches the
// pattern but is not an IP).
var ipv4Pattern = regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)

// IsValid reports whether s is a syntactically valid IPv4 or IPv6 address.
func IsValid(s string) bool {
	_, err := netip.ParseAddr(s)
	return err == nil
}

// IsPrivate reports whether s is a private (RFC1918) or loopback address.
// Invalid addresses are not private.
func IsPrivate(s string) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return false
	}
	return addr.IsPrivate() || addr.IsLoopback()
}

// ExtractIPv4s returns all IPv4-looking substrings of text, in order of
// appearance. Duplicates are preserved.
func ExtractIPv4s(text string) []string {
	return ipv4Pattern.FindAllString(text, -1)
}

// Geolocation holds geographic and network metadata for an IP address.
type Geolocation struct {
	Country string `json:"country"`
	City    string `json:"city"`
	ASN     string `json:"asn"`
	IsTor   bool   `json:"is_tor"`
	IsVPN   bool   `json:"is_vpn"`
}

// Geolocate returns geolocation metadata for an IP address. Lookup against a
// real geolocation service is out of scope; every field reports Unknown.
func Geolocate(ip string) Geolocation {
	return Geolocation{
		Country: "Unknown",
		City:    "Unknown",
		ASN:     "Unknown",
	}
}
