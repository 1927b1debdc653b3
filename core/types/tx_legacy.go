// Copyright 2021 The go-ethereum Authors
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

package types

import "math/big"

// EIP-155 把链 ID 编入传统交易的 v 值：
//   v = recid + chainId*2 + 35
// 没有链 ID 的旧交易使用 v = recid + 27。

var (
	big27 = big.NewInt(27)
	big35 = big.NewInt(35)
)

// deriveChainID derives the chain id from an EIP-155 v value. It returns nil
// for v values below 35, which carry no chain id.
func deriveChainID(v *big.Int) *big.Int {
	if v.Cmp(big35) < 0 {
		return nil
	}
	id := new(big.Int).Sub(v, big35)
	return id.Rsh(id, 1)
}

// eip155Offset returns chainId*2 + 35.
func eip155Offset(chainID *big.Int) *big.Int {
	off := new(big.Int).Lsh(chainID, 1)
	return off.Add(off, big35)
}

// isProtectedV reports whether v is chainId*2+35 or chainId*2+36.
func isProtectedV(v, chainID *big.Int) bool {
	rec := new(big.Int).Sub(v, eip155Offset(chainID))
	return rec.Sign() >= 0 && rec.Cmp(big.NewInt(1)) <= 0
}

// legacyV folds the recovery id into a legacy v value.
func legacyV(recid byte, chainID *big.Int, protected bool) *big.Int {
	v := new(big.Int).SetUint64(uint64(recid))
	if protected {
		return v.Add(v, eip155Offset(chainID))
	}
	return v.Add(v, big27)
}

// legacyRecoveryID is the inverse of legacyV. It returns false if v does not
// encode a recovery id of 0 or 1.
func legacyRecoveryID(v, chainID *big.Int, protected bool) (byte, bool) {
	rec := new(big.Int)
	if protected {
		rec.Sub(v, eip155Offset(chainID))
	} else {
		rec.Sub(v, big27)
	}
	if rec.Sign() < 0 || rec.Cmp(big.NewInt(1)) > 0 {
		return 0, false
	}
	return byte(rec.Uint64()), true
}
