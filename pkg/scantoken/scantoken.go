// Package scantoken encodes and decodes the short text token embedded in a
// shop's scannable code. The wire form is "loyalty_scan:<shopId>"; any
// segments after the shop ID are ignored so older readers stay compatible
// with tokens that grow extra fields.
package scantoken

import (
	"fmt"
	"strings"
)

// Prefix is the scheme segment every scan token starts with.
const Prefix = "loyalty_scan"

// Encode builds the scan token for a shop ID.
func Encode(shopID string) string {
	return Prefix + ":" + shopID
}

// Decode extracts the shop ID from a scanned token.
func Decode(token string) (string, error) {
	parts := strings.Split(strings.TrimSpace(token), ":")
	if len(parts) < 2 || parts[0] != Prefix {
		return "", fmt.Errorf("not a loyalty scan token: %q", token)
	}
	shopID := parts[1]
	if shopID == "" {
		return "", fmt.Errorf("scan token has empty shop id: %q", token)
	}
	return shopID, nil
}

// IsToken reports whether the input looks like a scan token rather than a
// manually typed shop ID.
func IsToken(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), Prefix+":")
}
