// Package validate holds the format rules for credentials participants
// submit during the airdrop campaign. The rules are intentionally loose:
// the campaign trusts self-reported data and only guards against obvious
// garbage, so these are shape checks, not ownership proofs.
package validate

import "regexp"

var (
	walletPattern = regexp.MustCompile(`^[a-zA-Z0-9]{30,}$`)
	emailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	handlePattern = regexp.MustCompile(`^@?[A-Za-z0-9_]{3,32}$`)
)

// WalletAddress reports whether s looks like a BEP20 wallet address:
// alphanumeric, at least 30 characters, no punctuation or whitespace.
func WalletAddress(s string) bool {
	return walletPattern.MatchString(s)
}

// EmailAddress reports whether s has the local@domain.tld shape. The domain
// part must contain a dot.
func EmailAddress(s string) bool {
	return emailPattern.MatchString(s)
}

// SocialHandle reports whether s looks like a Twitter/Telegram style handle:
// an optional leading @ followed by 3 to 32 word characters.
func SocialHandle(s string) bool {
	return handlePattern.MatchString(s)
}
