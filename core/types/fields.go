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
	"strconv"
	"strings"
)

// Transaction field names, as they appear in a RawTxMap.
// RawTxMap 中使用的交易字段名。
const (
	FieldChainID              = "chainId"
	FieldNonce                = "nonce"
	FieldGasPrice             = "gasPrice"
	FieldMaxPriorityFeePerGas = "maxPriorityFeePerGas"
	FieldMaxFeePerGas         = "maxFeePerGas"
	FieldGasLimit             = "gasLimit"
	FieldTo                   = "to"
	FieldValue                = "value"
	FieldData                 = "data"
	FieldAccessList           = "accessList"
	FieldV                    = "v"
	FieldYParity              = "yParity"
	FieldR                    = "r"
	FieldS                    = "s"
)

type fieldClass int

const (
	numericField fieldClass = iota
	dataField
	accessListField
)

var fieldClasses = map[string]fieldClass{
	FieldChainID:              numericField,
	FieldNonce:                numericField,
	FieldGasPrice:             numericField,
	FieldMaxPriorityFeePerGas: numericField,
	FieldMaxFeePerGas:         numericField,
	FieldGasLimit:             numericField,
	FieldTo:                   dataField,
	FieldValue:                numericField,
	FieldData:                 dataField,
	FieldAccessList:           accessListField,
	FieldV:                    numericField,
	FieldYParity:              numericField,
	FieldR:                    numericField,
	FieldS:                    numericField,
}

// TxType identifies one of the supported transaction envelopes.
// TxType 标识交易信封类型（EIP-2718）。
type TxType uint8

// Transaction types.
const (
	LegacyTxType     TxType = 0x00 // pre EIP-2718, no type prefix
	AccessListTxType TxType = 0x01 // EIP-2930
	DynamicFeeTxType TxType = 0x02 // EIP-1559
)

// txTypes lists the supported types in table order, which is also the order
// used to break ties during type inference.
var txTypes = []TxType{LegacyTxType, AccessListTxType, DynamicFeeTxType}

// txFields holds the ordered wire layout of each transaction type. The last
// three entries are always the signature fields.
// 每种交易类型的字段顺序，最后三个总是签名字段。
var txFields = map[TxType][]string{
	LegacyTxType: {
		FieldNonce, FieldGasPrice, FieldGasLimit, FieldTo, FieldValue, FieldData,
		FieldV, FieldR, FieldS,
	},
	AccessListTxType: {
		FieldChainID, FieldNonce, FieldGasPrice, FieldGasLimit, FieldTo, FieldValue, FieldData,
		FieldAccessList, FieldYParity, FieldR, FieldS,
	},
	DynamicFeeTxType: {
		FieldChainID, FieldNonce, FieldMaxPriorityFeePerGas, FieldMaxFeePerGas, FieldGasLimit,
		FieldTo, FieldValue, FieldData, FieldAccessList, FieldYParity, FieldR, FieldS,
	},
}

var txTypeNames = map[TxType]string{
	LegacyTxType:     "legacy",
	AccessListTxType: "eip2930",
	DynamicFeeTxType: "eip1559",
}

// String implements fmt.Stringer.
func (t TxType) String() string {
	if name, ok := txTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TxType(%d)", uint8(t))
}

// Fields returns the ordered field names of the transaction type.
func (t TxType) Fields() []string {
	fields := txFields[t]
	return append([]string(nil), fields...)
}

// valid reports whether t is one of the supported types.
func (t TxType) valid() bool {
	_, ok := txFields[t]
	return ok
}

// sigField returns the name of the field carrying the recovery information.
func (t TxType) sigField() string {
	if t == LegacyTxType {
		return FieldV
	}
	return FieldYParity
}

// ParseTxType parses a type label. Both the symbolic names (legacy, eip2930,
// eip1559) and the numeric EIP-2718 ids are accepted.
func ParseTxType(label string) (TxType, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	for t, name := range txTypeNames {
		if label == name {
			return t, nil
		}
	}
	if n, err := strconv.ParseUint(strings.TrimPrefix(label, "0x"), 16, 8); err == nil {
		if t := TxType(n); t.valid() {
			return t, nil
		}
	}
	return 0, &FieldError{Field: "type", Reason: fmt.Sprintf("unknown transaction type %q", label)}
}

// txTypeForLength maps a positional field count to its transaction type.
func txTypeForLength(n int) (TxType, bool) {
	for _, t := range txTypes {
		if len(txFields[t]) == n {
			return t, true
		}
	}
	return 0, false
}
