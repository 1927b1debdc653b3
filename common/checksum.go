// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package common

import (
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"
)

// EIP-55 混合大小写校验和：对小写十六进制地址的 ASCII 文本做 Keccak-256，
// 若哈希对应半字节大于 7，则该位置的字母大写。

var errInvalidHexAddress = errors.New("invalid hex address")

// checksumCase applies EIP-55 casing in place to 40 lower-case hex digits.
func checksumCase(buf []byte) {
	sha := sha3.NewLegacyKeccak256()
	sha.Write(buf)
	hash := sha.Sum(nil)
	for i := 0; i < len(buf); i++ {
		hashByte := hash[i/2]
		if i%2 == 0 {
			hashByte = hashByte >> 4
		} else {
			hashByte &= 0xf
		}
		if buf[i] > '9' && hashByte > 7 {
			buf[i] -= 32
		}
	}
}

// ToChecksumAddress returns the 0x-prefixed EIP-55 form of a 40 digit hex
// address. The input may carry a 0x prefix and any casing.
func ToChecksumAddress(addr string) (string, error) {
	if !IsHexAddress(addr) {
		return "", errInvalidHexAddress
	}
	if has0xPrefix(addr) {
		addr = addr[2:]
	}
	buf := make([]byte, 2+2*AddressLength)
	copy(buf, "0x")
	copy(buf[2:], strings.ToLower(addr))
	checksumCase(buf[2:])
	return string(buf), nil
}

// VerifyChecksum reports whether addr is a well-formed address whose casing
// agrees with EIP-55. Addresses written entirely in lower or upper case carry
// no checksum and are accepted as is.
// VerifyChecksum 全小写或全大写地址不含校验信息，直接视为有效。
func VerifyChecksum(addr string) bool {
	if !IsHexAddress(addr) {
		return false
	}
	if has0xPrefix(addr) {
		addr = addr[2:]
	}
	if addr == strings.ToLower(addr) || addr == strings.ToUpper(addr) {
		return true
	}
	raw, err := hex.DecodeString(addr)
	if err != nil {
		return false
	}
	return BytesToAddress(raw).Hex()[2:] == addr
}
