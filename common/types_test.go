package common

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestIsHexAddress(t *testing.T) {
	tests := []struct {
		str string
		exp bool
	}{
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"0X5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"0XAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", true},
		{"0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", true},
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed1", false},
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beae", false},
		{"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed11", false},
		{"0xxaaeb6053f3e94c9b9a09f33669435e7ef1beaed", false},
	}
	for _, test := range tests {
		if result := IsHexAddress(test.str); result != test.exp {
			t.Errorf("IsHexAddress(%s) == %v; expected %v",
				test.str, result, test.exp)
		}
	}
}

func TestAddressHexChecksum(t *testing.T) {
	for _, want := range checksumVectors {
		if have := HexToAddress(want).Hex(); have != want {
			t.Errorf("Hex mismatch: have %s, want %s", have, want)
		}
	}
}

func TestAddressFormat(t *testing.T) {
	addr := HexToAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	tests := []struct {
		format string
		want   string
	}{
		{"%v", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{"%s", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{"%q", `"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"`},
		{"%x", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		{"%#x", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		{"%X", "5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED"},
	}
	for _, tt := range tests {
		if have := fmt.Sprintf(tt.format, addr); have != tt.want {
			t.Errorf("%s: have %s, want %s", tt.format, have, tt.want)
		}
	}
}

func TestAddressJSON(t *testing.T) {
	addr := HexToAddress(checksumVectors[1])
	enc, err := json.Marshal(addr)
	if err != nil {
		t.Fatal(err)
	}
	if want := `"` + checksumVectors[1] + `"`; string(enc) != want {
		t.Fatalf("have %s, want %s", enc, want)
	}
	var dec Address
	if err := json.Unmarshal(enc, &dec); err != nil {
		t.Fatal(err)
	}
	if dec != addr {
		t.Fatalf("round trip mismatch: %x != %x", dec, addr)
	}
}

func TestHashSetBytesCrop(t *testing.T) {
	b := make([]byte, 40)
	b[39] = 0x01
	h := BytesToHash(b)
	if h[31] != 0x01 {
		t.Fatalf("expected cropped hash to keep the low bytes, got %x", h)
	}
	if have := HexToHash("0x1").Hex(); have != "0x0000000000000000000000000000000000000000000000000000000000000001" {
		t.Fatalf("unexpected hash hex %s", have)
	}
}
