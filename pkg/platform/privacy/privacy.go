// Package privacy reduces personal data to the minimum the KYC flow retains.
package privacy

import (
	"fmt"
	"net/netip"
	"strings"
	"unicode"
)

// AnonymizeIP truncates an address to its network portion: /24 for IPv4 and
// /48 for IPv6. Empty or "unknown" input yields "unknown"; unparseable input
// yields "invalid".
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()
	if addr.Is4() {
		b := addr.As4()
		return fmt.Sprintf("%d.%d.%d.0", b[0], b[1], b[2])
	}
	b := addr.As16()
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::", b[0], b[1], b[2], b[3], b[4], b[5])
}

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Last4 returns the final four digits of a card or account number, or "" when
// fewer than four digits are present.
func Last4(number string) string {
	d := Digits(number)
	if len(d) < 4 {
		return ""
	}
	return d[len(d)-4:]
}
