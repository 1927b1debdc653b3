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
	"fmt"
	"math/big"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
)

// present reports whether a named field was supplied with a non-nil value.
func present(fields map[string]any, name string) bool {
	v, ok := fields[name]
	return ok && v != nil
}

// compatibleTypes returns the transaction types whose field layout can hold
// the supplied field names.
// 根据出现的字段名排除不兼容的交易类型。
func compatibleTypes(fields map[string]any) mapset.Set[TxType] {
	set := mapset.NewThreadUnsafeSet(txTypes...)
	if present(fields, FieldMaxFeePerGas) || present(fields, FieldMaxPriorityFeePerGas) {
		set.Remove(LegacyTxType)
		set.Remove(AccessListTxType)
	}
	if present(fields, FieldAccessList) || present(fields, FieldYParity) {
		set.Remove(LegacyTxType)
	}
	if present(fields, FieldGasPrice) {
		set.Remove(DynamicFeeTxType)
	}
	return set
}

// inferType picks the transaction type of a named field map. A requested
// type must be compatible with the fields. Without one, legacy wins when
// possible and otherwise the first compatible type in table order.
func inferType(fields map[string]any, o *txOptions) (TxType, error) {
	set := compatibleTypes(fields)
	if o.hasType {
		if !set.Contains(o.txType) {
			return 0, fmt.Errorf("%w: fields %s are not valid for %s transactions",
				ErrTypeMismatch, fieldNames(fields), o.txType)
		}
		return o.txType, nil
	}
	for _, t := range txTypes {
		if set.Contains(t) {
			log.Trace("Inferred transaction type", "type", t, "candidates", set.Cardinality())
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: no transaction type accepts fields %s", ErrTypeMismatch, fieldNames(fields))
}

// inferListType resolves a positional field list by its length.
func inferListType(n int, o *txOptions) (TxType, error) {
	t, ok := txTypeForLength(n)
	if !ok {
		return 0, fmt.Errorf("%w: %d fields", ErrInvalidLength, n)
	}
	if o.hasType && o.txType != t {
		return 0, fmt.Errorf("%w: %d fields make a %s transaction, not %s", ErrTypeMismatch, n, t, o.txType)
	}
	return t, nil
}

// checkFieldNames rejects names that do not belong to typ. Legacy input may
// carry a chainId for EIP-155 and typed input may spell yParity as v.
func checkFieldNames(typ TxType, fields map[string]any) error {
	allowed := mapset.NewThreadUnsafeSet(txFields[typ]...)
	if typ == LegacyTxType {
		allowed.Add(FieldChainID)
	} else {
		allowed.Add(FieldV)
	}
	for _, name := range sortedKeys(fields) {
		if !allowed.Contains(name) {
			if _, known := fieldClasses[name]; known {
				return fmt.Errorf("%w: %s is not a field of %s transactions", ErrTypeMismatch, name, typ)
			}
			return fieldErrorf(name, "unknown field")
		}
	}
	return nil
}

func fieldNames(fields map[string]any) string {
	names := make([]string, 0, len(fields))
	for _, name := range sortedKeys(fields) {
		if fields[name] != nil {
			names = append(names, name)
		}
	}
	return "[" + strings.Join(names, " ") + "]"
}

// chainSource is one place a chain id can come from.
type chainSource struct {
	name string
	id   *big.Int
}

// reconcileChainID checks that every known source names the same chain and
// returns it, or nil if no source is known.
// 链标签、chainId 字段以及 EIP-155 v 值推导出的链 ID 必须一致。
func reconcileChainID(sources ...chainSource) (*big.Int, error) {
	var first *chainSource
	for i := range sources {
		src := &sources[i]
		if src.id == nil {
			continue
		}
		if first == nil {
			first = src
			continue
		}
		if first.id.Cmp(src.id) != 0 {
			return nil, fmt.Errorf("%w: %s gives %v, %s gives %v", ErrChainMismatch, first.name, first.id, src.name, src.id)
		}
	}
	if first == nil {
		return nil, nil
	}
	return new(big.Int).Set(first.id), nil
}

// envelopeValues returns the ordered canonical field values of tx. Without
// the signature the trailing three fields are dropped, and a replay protected
// legacy transaction gets the EIP-155 (chainId, "", "") triple instead.
// 未签名的 EIP-155 交易在签名位置放入 (chainId, 0, 0)。
func (tx *Transaction) envelopeValues(includeSignature bool) []any {
	fields := txFields[tx.typ]
	values := make([]any, 0, len(fields))
	for _, f := range fields {
		values = append(values, tx.raw[f])
	}
	if includeSignature {
		return values
	}
	values = values[:len(values)-3]
	if tx.typ == LegacyTxType && tx.Protected() {
		values = append(values, encodeNumber(tx.chainID), "", "")
	}
	return values
}
