package domain

// ChainProfile parameterizes the pipeline for one blockchain. The same
// pipeline shape runs for any chain; only the profile values differ.
type ChainProfile struct {
	ChainID           string
	NativeSymbol      string   // numeraire symbol for liquidity denomination
	WrappedNativeMint string   // mint of the wrapped native coin
	DefaultDexes      []string // exchanges allowed when no allow-list is configured
	ChecksAuthorities bool     // whether freeze/mint authority semantics apply
}

// SolanaProfile returns the profile for Solana mainnet.
func SolanaProfile() ChainProfile {
	return ChainProfile{
		ChainID:           "solana",
		NativeSymbol:      "SOL",
		WrappedNativeMint: "So11111111111111111111111111111111111111112",
		DefaultDexes:      []string{"raydium", "orca", "pumpfun", "meteora"},
		ChecksAuthorities: true,
	}
}
