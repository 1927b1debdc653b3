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

import (
	"github.com/jinzhu/copier"
	"github.com/sunyihoo/ethtx/common"
)

// AccessList is an EIP-2930 access list in canonical form: addresses and
// storage keys are lower-case 0x-prefixed hex, every address appears once and
// its storage keys form an ordered set.
// AccessList 是 EIP-2930 访问列表的规范形式：地址唯一，存储键按首次出现顺序去重。
type AccessList []AccessTuple

// AccessTuple is the element type of an access list.
type AccessTuple struct {
	Address     string   `json:"address"`
	StorageKeys []string `json:"storageKeys"`
}

// StorageKeys returns the total number of storage keys in the access list.
func (al AccessList) StorageKeys() int {
	sum := 0
	for _, tuple := range al {
		sum += len(tuple.StorageKeys)
	}
	return sum
}

// Copy returns a deep copy sharing no slices with al. The copy of an empty
// list is an empty, non-nil list.
func (al AccessList) Copy() AccessList {
	cpy := make(AccessList, 0, len(al))
	if err := copier.CopyWithOption(&cpy, al, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, which cannot happen here.
		panic(err)
	}
	if cpy == nil {
		cpy = AccessList{}
	}
	for i := range cpy {
		if cpy[i].StorageKeys == nil {
			cpy[i].StorageKeys = []string{}
		}
	}
	return cpy
}

// Addresses returns the parsed addresses of the list in order.
func (al AccessList) Addresses() []common.Address {
	addrs := make([]common.Address, len(al))
	for i, tuple := range al {
		addrs[i] = common.HexToAddress(tuple.Address)
	}
	return addrs
}

// wire converts the list into the nested byte-string form fed to RLP.
// 转换为 RLP 编码使用的嵌套结构 [[address, [key...]]...]。
func (al AccessList) wire() []interface{} {
	out := make([]interface{}, len(al))
	for i, tuple := range al {
		keys := make([]interface{}, len(tuple.StorageKeys))
		for j, key := range tuple.StorageKeys {
			keys[j] = common.FromHex(key)
		}
		out[i] = []interface{}{common.FromHex(tuple.Address), keys}
	}
	return out
}
