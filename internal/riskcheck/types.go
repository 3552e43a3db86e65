package riskcheck

// Report is the raw reputation payload for a token address.
type Report struct {
	Mint            string         `json:"mint"`
	Score           float64        `json:"score_normalised"`
	Risks           []ReportRisk   `json:"risks"`
	TopHolders      []ReportHolder `json:"topHolders"`
	TotalHolders    int            `json:"totalHolders"`
	MintAuthority   *string        `json:"mintAuthority"`
	FreezeAuthority *string        `json:"freezeAuthority"`
	UpdateAuthority *string        `json:"updateAuthority"`
	TokenMeta       *reportMeta    `json:"tokenMeta"`
}

// ReportRisk is one named risk flagged by the reputation service.
type ReportRisk struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Level       string  `json:"level"`
	Score       float64 `json:"score"`
}

// ReportHolder is one entry of the holder distribution.
type ReportHolder struct {
	Address string  `json:"address"`
	Amount  float64 `json:"uiAmount"`
	Pct     float64 `json:"pct"`
}

type reportMeta struct {
	Mutable bool `json:"mutable"`
}
