// Copyright 2016 The go-ethereum Authors
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

package params

import (
	"math/big"
	"sort"
)

// 链 ID（EIP-155）用于区分不同的以太坊网络，防止签名交易在另一条链上被重放。
// 这里只保留交易编解码需要的部分：符号名称到数字链 ID 的映射。

// Chain identifiers of the well known networks.
const (
	MainnetChainID uint64 = 1
	RopstenChainID uint64 = 3
	RinkebyChainID uint64 = 4
	GoerliChainID  uint64 = 5
	KovanChainID   uint64 = 42
	HoleskyChainID uint64 = 17000
	SepoliaChainID uint64 = 11155111
)

const (
	// DefaultChain is the chain assumed when a transaction carries no chain id
	// and the caller did not name one.
	DefaultChain = "mainnet"

	// DefaultHardfork is the rule set transactions are interpreted under
	// unless the caller asks for another era.
	DefaultHardfork = "london"
)

// Chains maps symbolic chain names to their numeric EIP-155 chain id.
// Chains 将符号链名称映射到数字链 ID。
var Chains = map[string]uint64{
	"mainnet": MainnetChainID,
	"ropsten": RopstenChainID,
	"rinkeby": RinkebyChainID,
	"goerli":  GoerliChainID,
	"kovan":   KovanChainID,
	"holesky": HoleskyChainID,
	"sepolia": SepoliaChainID,
}

var chainNames = func() map[uint64]string {
	m := make(map[uint64]string, len(Chains))
	for name, id := range Chains {
		m[id] = name
	}
	return m
}()

// ChainID resolves a symbolic chain name. The returned integer is a fresh
// copy that callers may modify.
func ChainID(name string) (*big.Int, bool) {
	id, ok := Chains[name]
	if !ok {
		return nil, false
	}
	return new(big.Int).SetUint64(id), true
}

// ChainName returns the symbolic name of a numeric chain id, or the empty
// string if the id is not one of the known networks.
// ChainName 返回数字链 ID 对应的符号名称，未知链返回空字符串。
func ChainName(id *big.Int) string {
	if id == nil || !id.IsUint64() {
		return ""
	}
	return chainNames[id.Uint64()]
}

// ChainNames returns the known chain names in lexical order.
func ChainNames() []string {
	names := make([]string, 0, len(Chains))
	for name := range Chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
