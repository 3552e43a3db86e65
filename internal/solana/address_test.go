package solana

import "testing"

func TestValidAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"wrapped SOL mint", "So11111111111111111111111111111111111111112", true},
		{"token program", TokenProgram, true},
		{"system program", SystemProgram, true},
		{"empty", "", false},
		{"invalid base58", "0OIl+/=", false},
		{"too short", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidAddress(tt.address); got != tt.want {
				t.Errorf("ValidAddress(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}

func TestIsBurnAddress(t *testing.T) {
	if !IsBurnAddress(IncineratorAddr) {
		t.Error("Incinerator should be a burn address")
	}
	if !IsBurnAddress(SystemProgram) {
		t.Error("System program should count as a burn address")
	}
	if !IsBurnAddress("xyzBurnxyz11111111111111111111111111111111") {
		t.Error("Substring 'Burn' should match")
	}
	if IsBurnAddress("So11111111111111111111111111111111111111112") {
		t.Error("Wrapped SOL mint is not a burn address")
	}
}

func TestIsProgramAccount_KnownPrograms(t *testing.T) {
	for _, addr := range []string{SystemProgram, TokenProgram, RaydiumAMMV4, PumpFun} {
		if !IsProgramAccount(addr) {
			t.Errorf("%s should be a program account", addr)
		}
	}
}

func TestOnCurve_RejectsInvalidInput(t *testing.T) {
	if OnCurve("") {
		t.Error("Empty string should not be on curve")
	}
	if OnCurve("not-base58!") {
		t.Error("Invalid base58 should not be on curve")
	}
}
