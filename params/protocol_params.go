// Copyright 2015 The go-ethereum Authors
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

import "math/big"

const (
	TxGas uint64 = 21000 // Per transaction not creating a contract. NOTE: Not payable on data of calls between transactions.
	// TxGas 是每个不创建合约的交易的 gas 费用。
)

// Bounds enforced on user supplied transaction parameters. They are tighter
// than consensus: a zero priority fee or a zero legacy gas price is rejected.
// 对用户输入参数的限制，比共识规则更严格。
const (
	MaxTxNonce    uint64 = 10_000_000
	MinTxGasLimit uint64 = TxGas
	MaxTxGasLimit uint64 = 20_000_000
	MaxTxDataSize        = 10_000_000 // in hex characters
	MinTxChainID  uint64 = 1
	MaxTxChainID  uint64 = 1<<32 - 1
)

var (
	// MinTxGasFee is the smallest accepted maxFeePerGas / maxPriorityFeePerGas.
	MinTxGasFee = big.NewInt(1)
	// MaxTxGasFee caps fee-per-gas fields at 10 000 gwei.
	MaxTxGasFee = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(GWei))
	// MaxTxValue caps the transferred amount at 100 000 000 ether.
	MaxTxValue = new(big.Int).Mul(big.NewInt(100_000_000), big.NewInt(Ether))
)
