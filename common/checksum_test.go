package common

import (
	"strings"
	"testing"
)

var checksumVectors = []string{
	"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
}

func TestToChecksumAddress(t *testing.T) {
	for _, want := range checksumVectors {
		for _, in := range []string{want, strings.ToLower(want), "0x" + strings.ToUpper(want[2:]), want[2:]} {
			have, err := ToChecksumAddress(in)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", in, err)
			}
			if have != want {
				t.Errorf("%s: checksum mismatch: have %s, want %s", in, have, want)
			}
		}
	}
	if _, err := ToChecksumAddress("0x1234"); err == nil {
		t.Error("expected error for short address")
	}
	if _, err := ToChecksumAddress("0xzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"); err == nil {
		t.Error("expected error for non-hex address")
	}
}

func TestChecksumIdempotent(t *testing.T) {
	for _, addr := range checksumVectors {
		once, err := ToChecksumAddress(addr)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := ToChecksumAddress(once)
		if err != nil {
			t.Fatal(err)
		}
		if once != twice {
			t.Errorf("checksum not idempotent: %s != %s", once, twice)
		}
		if !VerifyChecksum(once) {
			t.Errorf("checksummed address %s does not verify", once)
		}
	}
}

func TestVerifyChecksum(t *testing.T) {
	tests := []struct {
		addr string
		ok   bool
	}{
		{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED", true},
		{"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		// one flipped letter
		{"0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe", false},
		{"0xgaAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"", false},
	}
	for _, tt := range tests {
		if have := VerifyChecksum(tt.addr); have != tt.ok {
			t.Errorf("VerifyChecksum(%q) = %v, want %v", tt.addr, have, tt.ok)
		}
	}
}
