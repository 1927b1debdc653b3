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
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/sunyihoo/ethtx/common"
)

// 交易信封（EIP-2718）：
//   - 传统交易：rlp([nonce, gasPrice, gasLimit, to, value, data, v, r, s])
//   - 类型化交易：type || rlp([...])，type 为 0x01 或 0x02
// 类型字节位于 [0x00, 0x7f]，而 RLP 列表以 >= 0xc0 开头，因此可以区分。

// encodeEnvelope serializes ordered canonical values, prefixing the type byte
// for typed transactions.
func encodeEnvelope(typ TxType, values []any) ([]byte, error) {
	list := make([]interface{}, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case string:
			list[i] = common.FromHex(v)
		case AccessList:
			list[i] = v.wire()
		default:
			return nil, fmt.Errorf("unexpected %T in %s transaction envelope", v, typ)
		}
	}
	payload, err := rlp.EncodeToBytes(list)
	if err != nil {
		return nil, err
	}
	if typ == LegacyTxType {
		return payload, nil
	}
	return append([]byte{byte(typ)}, payload...), nil
}

// decodeEnvelope splits an envelope into its type and the decoded list items,
// each either a []byte or a nested []interface{}.
func decodeEnvelope(b []byte) (TxType, []interface{}, error) {
	if len(b) == 0 {
		return 0, nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	typ, payload := LegacyTxType, b
	switch {
	case b[0] >= 0xc0:
		// legacy list
	case b[0] >= 0x80:
		return 0, nil, fmt.Errorf("%w: expected list or type prefix, got 0x%x", ErrDecode, b[0])
	default:
		if len(b) <= 1 {
			return 0, nil, fmt.Errorf("%w: %w", ErrDecode, errShortTypedTx)
		}
		typ = TxType(b[0])
		if typ == LegacyTxType || !typ.valid() {
			return 0, nil, fmt.Errorf("%w: %w: 0x%02x", ErrDecode, ErrTxTypeNotSupported, b[0])
		}
		payload = b[1:]
	}
	var items []interface{}
	if err := rlp.DecodeBytes(payload, &items); err != nil {
		return 0, nil, fmt.Errorf("%w: %s transaction: %w", ErrDecode, typ, err)
	}
	return typ, items, nil
}

// checkDecodedLength accepts a full field list, one with the signature
// stripped, and for legacy the six field pre EIP-155 preimage. Extra trailing
// items are ignored.
func checkDecodedLength(typ TxType, n int) error {
	arity := len(txFields[typ])
	if n >= arity-3 && (typ != LegacyTxType || n == arity-3 || n >= arity) {
		return nil
	}
	return fmt.Errorf("%w: %w: %s transaction with %d fields", ErrDecode, ErrInvalidLength, typ, n)
}

// namedFields maps positional items onto the field names of typ.
func namedFields(typ TxType, items []interface{}) map[string]any {
	fields := make(map[string]any, len(txFields[typ]))
	for i, name := range txFields[typ] {
		if i < len(items) {
			fields[name] = items[i]
		}
	}
	return fields
}
