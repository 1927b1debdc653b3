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

package forks

import "fmt"

// 以太坊通过硬分叉引入协议变更。对交易层而言，真正有影响的只有两条规则：
//   - EIP-2 (Homestead) 之后签名的 s 必须位于曲线阶的低半部分，这里沿用 chainstart 豁免的历史做法；
//   - EIP-155 (Spurious Dragon) 之后 legacy 交易的 v 可以携带链 ID。

// Fork is a numerical identifier of specific network upgrades (forks).
// Fork 是特定网络升级（分叉）的数字标识符。
type Fork int

const (
	Frontier Fork = iota // labelled "chainstart"
	Homestead
	DAO
	TangerineWhistle
	SpuriousDragon
	Byzantium
	Constantinople
	Petersburg
	Istanbul
	MuirGlacier
	Berlin
	London
	ArrowGlacier
	GrayGlacier
	Paris
	Shanghai
	Cancun
	Prague
)

// Latest is the most recent fork known to this package.
const Latest = Prague

var forkToString = map[Fork]string{
	Frontier:         "chainstart",
	Homestead:        "homestead",
	DAO:              "dao",
	TangerineWhistle: "tangerineWhistle",
	SpuriousDragon:   "spuriousDragon",
	Byzantium:        "byzantium",
	Constantinople:   "constantinople",
	Petersburg:       "petersburg",
	Istanbul:         "istanbul",
	MuirGlacier:      "muirGlacier",
	Berlin:           "berlin",
	London:           "london",
	ArrowGlacier:     "arrowGlacier",
	GrayGlacier:      "grayGlacier",
	Paris:            "merge",
	Shanghai:         "shanghai",
	Cancun:           "cancun",
	Prague:           "prague",
}

var stringToFork = func() map[string]Fork {
	m := make(map[string]Fork, len(forkToString)+2)
	for f, name := range forkToString {
		m[name] = f
	}
	// Aliases used by other tooling.
	m["frontier"] = Frontier
	m["paris"] = Paris
	return m
}()

// String implements fmt.Stringer, returning the canonical hardfork label.
func (f Fork) String() string {
	if name, ok := forkToString[f]; ok {
		return name
	}
	return fmt.Sprintf("fork(%d)", int(f))
}

// Parse resolves a hardfork label (e.g. "london", "chainstart") to its Fork.
// Parse 将硬分叉标签解析为 Fork。
func Parse(label string) (Fork, bool) {
	f, ok := stringToFork[label]
	return f, ok
}

// IsEIP155 reports whether replay-protected legacy signatures are recognised
// at this fork. Chainstart, Homestead, DAO and Tangerine Whistle predate it.
func (f Fork) IsEIP155() bool {
	return f >= SpuriousDragon
}

// AllowsHighS reports whether signatures with s above half the curve order
// are accepted. Only chainstart transactions are exempt.
func (f Fork) AllowsHighS() bool {
	return f == Frontier
}
