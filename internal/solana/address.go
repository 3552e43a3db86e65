// Package solana provides address validation and holder classification
// helpers for Solana accounts.
package solana

import (
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Well-known program and system addresses.
const (
	SystemProgram   = "11111111111111111111111111111111"
	TokenProgram    = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	RaydiumAMMV4    = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	PumpFun         = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	IncineratorAddr = "1nc1nerator11111111111111111111111111111111"
)

// burnMatches lists burn-address patterns. An entry prefixed with '~' is a
// case-sensitive substring match; anything else must match exactly.
var burnMatches = []string{
	IncineratorAddr,
	SystemProgram,
	"~deadbeef",
	"~Burn",
}

// programAccounts lists known program/system accounts excluded from
// holder-concentration math.
var programAccounts = map[string]struct{}{
	SystemProgram: {},
	TokenProgram:  {},
	RaydiumAMMV4:  {},
	PumpFun:       {},
}

// ValidAddress reports whether s is a base58-encoded 32-byte Solana
// public key.
func ValidAddress(s string) bool {
	if s == "" {
		return false
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(raw) == 32
}

// OnCurve reports whether the address decodes to a point on the ed25519
// curve. Program-derived addresses are intentionally off-curve, so a
// false result for a valid address indicates a PDA rather than a wallet.
func OnCurve(address string) bool {
	raw, err := base58.Decode(address)
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}

// IsBurnAddress reports whether the address matches the burn allow-list.
func IsBurnAddress(address string) bool {
	for _, m := range burnMatches {
		if strings.HasPrefix(m, "~") {
			if strings.Contains(address, m[1:]) {
				return true
			}
		} else if address == m {
			return true
		}
	}
	return false
}

// IsProgramAccount reports whether the address is a known program/system
// account or an off-curve (program-derived) address.
func IsProgramAccount(address string) bool {
	if _, ok := programAccounts[address]; ok {
		return true
	}
	return ValidAddress(address) && !OnCurve(address)
}
