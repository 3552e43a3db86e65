package domain

// HolderClass classifies a holder address for concentration math.
type HolderClass string

const (
	HolderWallet  HolderClass = "wallet"
	HolderBurn    HolderClass = "burn"
	HolderProgram HolderClass = "program" // program/system accounts (vaults, AMM pools)
)

// Holder is one entry of a token's holder distribution.
type Holder struct {
	Address string
	Balance float64
	Pct     float64 // percentage of supply
	Class   HolderClass
}

// HolderSummary condenses the distribution for persistence and alerting.
// TopConcentrationPct excludes burn and program accounts.
type HolderSummary struct {
	TotalHolders        int
	TopConcentrationPct float64
}

// Risk tags with special meaning to the pipeline.
const (
	// RiskTagDataUnavailable marks a degraded-default record produced when
	// the reputation lookup failed.
	RiskTagDataUnavailable = "data_unavailable"
)

// RiskRecord is the normalized output of the reputation lookup for a mint.
// One is always produced per assessment; a failed lookup yields a degraded
// default carrying RiskTagDataUnavailable instead of an error.
type RiskRecord struct {
	Mint            string
	Score           float64 // 0 (clean) .. 10 (riskiest)
	Tags            []string
	Holders         []Holder
	HolderSummary   HolderSummary
	FreezeAuthority *string // presence alone is a risk signal
	MintAuthority   *string
	UpdateAuthority *string
	Mutable         bool
	AssessedAt      int64 // Unix timestamp in milliseconds
}

// Degraded reports whether this record is the degraded default.
func (r *RiskRecord) Degraded() bool {
	for _, tag := range r.Tags {
		if tag == RiskTagDataUnavailable {
			return true
		}
	}
	return false
}

// HasTag reports whether the record carries the given risk tag.
func (r *RiskRecord) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
