package utils

import "strings"

// Contains checks if a slice contains a specific element.
// It uses type parameters to work with any slice type.
func Contains[T comparable](slice []T, element T) bool {
	for _, item := range slice {
		if item == element {
			return true
		}
	}
	return false
}

// NormalizeWalletAddress returns the canonical form of a wallet address
// used for local record lookups. Base58 is case sensitive, so only
// surrounding whitespace is stripped. The local store and the queue diff
// both compare addresses in this form.
func NormalizeWalletAddress(address string) string {
	return strings.TrimSpace(address)
}
