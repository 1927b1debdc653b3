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

package types

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/sunyihoo/ethtx/common"
	"github.com/sunyihoo/ethtx/params"
)

// 规范形式：
//   - 数值字段：最短的偶数位十六进制，零编码为空字符串（不是 "0x0"）。
//   - 数据字段：空值为 ""，否则为小写、带 0x 前缀、偶数位的十六进制。
//   - 访问列表：按地址首次出现顺序排列，存储键去重。

// RawTxMap maps transaction field names to canonical values. Scalars and
// data fields are strings, the access list is an AccessList.
type RawTxMap map[string]any

// Copy returns a deep copy of m. Nested lists, maps, byte slices and
// arbitrary precision integers are cloned rather than shared.
func (m RawTxMap) Copy() RawTxMap {
	if m == nil {
		return nil
	}
	cpy := make(RawTxMap, len(m))
	for k, v := range m {
		cpy[k] = deepCopyValue(v)
	}
	return cpy
}

func deepCopyValue(v any) any {
	switch v := v.(type) {
	case AccessList:
		return v.Copy()
	case *big.Int:
		if v == nil {
			return v
		}
		return new(big.Int).Set(v)
	case *uint256.Int:
		if v == nil {
			return v
		}
		return v.Clone()
	case []byte:
		return common.CopyBytes(v)
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = deepCopyValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = deepCopyValue(item)
		}
		return out
	case RawTxMap:
		return v.Copy()
	default:
		return v
	}
}

// str returns the canonical string value of a scalar field.
func (m RawTxMap) str(field string) string {
	s, _ := m[field].(string)
	return s
}

// bigInt returns the integer value of a canonical numeric field.
func (m RawTxMap) bigInt(field string) *big.Int {
	s := m.str(field)
	if s == "" {
		return new(big.Int)
	}
	n, _ := new(big.Int).SetString(s[2:], 16)
	return n
}

var defaultGasLimit = encodeNumber(new(big.Int).SetUint64(params.TxGas))

// NormalizeField converts value into the canonical representation of the
// named field. Numeric fields accept Go integers, *big.Int, *uint256.Int,
// integral float64, json.Number, decimal or 0x-prefixed hex strings and raw
// big-endian bytes. Data fields accept hex strings and byte slices. The
// access list accepts pair arrays, {address, storageKeys} objects and
// address to storage keys maps.
// NormalizeField 将任意形式的输入转换为字段的规范表示。
func NormalizeField(field string, value any) (any, error) {
	class, ok := fieldClasses[field]
	if !ok {
		return nil, fieldErrorf(field, "unknown field")
	}
	switch class {
	case numericField:
		n, err := parseNumber(field, value)
		if err != nil {
			return nil, err
		}
		switch {
		case field == FieldGasLimit && n.Sign() == 0:
			return defaultGasLimit, nil
		case field == FieldGasPrice && n.Sign() == 0:
			return nil, fieldErrorf(field, "gas price must not be zero")
		}
		return encodeNumber(n), nil

	case dataField:
		b, err := parseData(field, value)
		if err != nil {
			return nil, err
		}
		if field == FieldTo && len(b) != 0 && len(b) != common.AddressLength {
			return nil, fieldErrorf(field, "address must be %d bytes, got %d", common.AddressLength, len(b))
		}
		return encodeData(b), nil

	default:
		return normalizeAccessList(value)
	}
}

// encodeNumber renders n as minimal even-length hex, zero as "".
func encodeNumber(n *big.Int) string {
	if n.Sign() == 0 {
		return ""
	}
	h := n.Text(16)
	if len(h)%2 == 1 {
		h = "0" + h
	}
	return "0x" + h
}

func encodeData(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return "0x" + hex.EncodeToString(b)
}

func parseNumber(field string, value any) (*big.Int, error) {
	var n *big.Int
	switch v := value.(type) {
	case nil:
		return new(big.Int), nil
	case bool:
		if field != FieldYParity {
			return nil, fieldErrorf(field, "boolean value only allowed for %s", FieldYParity)
		}
		if v {
			return big.NewInt(1), nil
		}
		return new(big.Int), nil
	case int, int8, int16, int32, int64:
		n = big.NewInt(reflect.ValueOf(v).Int())
	case uint, uint8, uint16, uint32, uint64:
		n = new(big.Int).SetUint64(reflect.ValueOf(v).Uint())
	case *big.Int:
		if v == nil {
			return new(big.Int), nil
		}
		n = new(big.Int).Set(v)
	case big.Int:
		n = new(big.Int).Set(&v)
	case *hexutil.Big:
		if v == nil {
			return new(big.Int), nil
		}
		n = new(big.Int).Set(v.ToInt())
	case *uint256.Int:
		if v == nil {
			return new(big.Int), nil
		}
		n = v.ToBig()
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, fieldErrorf(field, "non-integral number %v", v)
		}
		n, _ = big.NewFloat(v).Int(nil)
	case json.Number:
		return parseNumericString(field, string(v))
	case string:
		return parseNumericString(field, v)
	case []byte:
		n = new(big.Int).SetBytes(v)
	case hexutil.Bytes:
		n = new(big.Int).SetBytes(v)
	default:
		return nil, fieldErrorf(field, "unsupported numeric value of type %T", value)
	}
	return checkNumber(field, n)
}

func parseNumericString(field, s string) (*big.Int, error) {
	var (
		n  *big.Int
		ok bool
	)
	switch {
	case s == "" || s == "0x" || s == "0X":
		return new(big.Int), nil
	case common.Has0xPrefix(s):
		if !common.IsHex(s) {
			return nil, fieldErrorf(field, "invalid hex number %q", s)
		}
		n, ok = new(big.Int).SetString(s[2:], 16)
	default:
		n, ok = new(big.Int).SetString(s, 10)
	}
	if !ok {
		return nil, fieldErrorf(field, "invalid number %q", s)
	}
	return checkNumber(field, n)
}

func checkNumber(field string, n *big.Int) (*big.Int, error) {
	if n.Sign() < 0 {
		return nil, fieldErrorf(field, "negative value %v", n)
	}
	if n.BitLen() > 256 {
		return nil, fieldErrorf(field, "value exceeds 256 bits")
	}
	return n, nil
}

func parseData(field string, value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		if common.Has0xPrefix(v) {
			v = v[2:]
		}
		if len(v)%2 == 1 {
			return nil, fieldErrorf(field, "hex string of odd length")
		}
		b, err := hex.DecodeString(v)
		if err != nil {
			return nil, fieldErrorf(field, "invalid hex string")
		}
		return b, nil
	case []byte:
		return common.CopyBytes(v), nil
	case hexutil.Bytes:
		return common.CopyBytes(v), nil
	case common.Address:
		return v.Bytes(), nil
	case *common.Address:
		if v == nil {
			return nil, nil
		}
		return v.Bytes(), nil
	case common.Hash:
		return v.Bytes(), nil
	default:
		return nil, fieldErrorf(field, "unsupported data value of type %T", value)
	}
}

// accessListBuilder accumulates tuples, merging repeated addresses and
// dropping repeated storage keys.
type accessListBuilder struct {
	list  AccessList
	index map[string]int
	seen  []mapset.Set[string]
}

func normalizeAccessList(value any) (AccessList, error) {
	b := &accessListBuilder{list: AccessList{}, index: make(map[string]int)}
	switch v := value.(type) {
	case nil:
	case AccessList:
		for _, tuple := range v {
			if err := b.add(tuple.Address, tuple.StorageKeys); err != nil {
				return nil, err
			}
		}
	case []AccessTuple:
		return normalizeAccessList(AccessList(v))
	case []any:
		for i, item := range v {
			if err := b.addEntry(i, item); err != nil {
				return nil, err
			}
		}
	case []map[string]any:
		for i, item := range v {
			if err := b.addEntry(i, item); err != nil {
				return nil, err
			}
		}
	case map[string]any:
		// Go maps are unordered, so the address order is made lexical.
		for _, addr := range sortedKeys(v) {
			if err := b.add(addr, v[addr]); err != nil {
				return nil, err
			}
		}
	case map[string][]string:
		addrs := make([]string, 0, len(v))
		for addr := range v {
			addrs = append(addrs, addr)
		}
		sort.Strings(addrs)
		for _, addr := range addrs {
			if err := b.add(addr, v[addr]); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fieldErrorf(FieldAccessList, "unsupported access list of type %T", value)
	}
	return b.list, nil
}

func (b *accessListBuilder) addEntry(i int, item any) error {
	switch item := item.(type) {
	case []any:
		if len(item) != 2 {
			return fieldErrorf(FieldAccessList, "entry %d: want [address, storageKeys], got %d items", i, len(item))
		}
		return b.add(item[0], item[1])
	case map[string]any:
		addr, ok := item["address"]
		if !ok {
			return fieldErrorf(FieldAccessList, "entry %d: missing address", i)
		}
		return b.add(addr, item["storageKeys"])
	case AccessTuple:
		return b.add(item.Address, item.StorageKeys)
	default:
		return fieldErrorf(FieldAccessList, "entry %d: unsupported entry of type %T", i, item)
	}
}

func (b *accessListBuilder) add(address any, keys any) error {
	raw, err := parseData(FieldAccessList, address)
	if err != nil {
		return err
	}
	if len(raw) != common.AddressLength {
		return fieldErrorf(FieldAccessList, "address must be %d bytes, got %d", common.AddressLength, len(raw))
	}
	list, err := storageKeyList(keys)
	if err != nil {
		return err
	}
	addr := encodeData(raw)
	i, ok := b.index[addr]
	if !ok {
		i = len(b.list)
		b.index[addr] = i
		b.list = append(b.list, AccessTuple{Address: addr, StorageKeys: []string{}})
		b.seen = append(b.seen, mapset.NewThreadUnsafeSet[string]())
	}
	for _, key := range list {
		raw, err := parseData(FieldAccessList, key)
		if err != nil {
			return err
		}
		if len(raw) != common.HashLength {
			return fieldErrorf(FieldAccessList, "storage key must be %d bytes, got %d", common.HashLength, len(raw))
		}
		if k := encodeData(raw); b.seen[i].Add(k) {
			b.list[i].StorageKeys = append(b.list[i].StorageKeys, k)
		}
	}
	return nil
}

func storageKeyList(keys any) ([]any, error) {
	switch keys := keys.(type) {
	case []any:
		return keys, nil
	case []string:
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = k
		}
		return out, nil
	case [][]byte:
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = k
		}
		return out, nil
	case []common.Hash:
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = k
		}
		return out, nil
	default:
		return nil, fieldErrorf(FieldAccessList, "storage keys must be an array, got %T", keys)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
