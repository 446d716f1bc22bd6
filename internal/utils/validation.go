package utils

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const walletAddressByteLen = 32

// IsValidWalletAddress checks if the provided address is a valid wallet
// address for the settlement ledger: base58 encoded, 32 bytes once decoded.
// Hex-prefixed addresses from other chains are rejected outright.
func IsValidWalletAddress(address string) bool {
	if address == "" {
		return false
	}
	if strings.HasPrefix(address, "0x") {
		return false
	}
	decoded := base58.Decode(address)
	return len(decoded) == walletAddressByteLen
}

// IsValidTxSignature checks if the given string looks like a valid
// settlement transaction signature: base58 encoded, 64 bytes once decoded.
// Note: it does not check the actual content of the signature.
func IsValidTxSignature(signature string) bool {
	if signature == "" {
		return false
	}
	decoded := base58.Decode(signature)
	return len(decoded) == 64
}
