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
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sunyihoo/ethtx/common"
)

// txJSON is the JSON representation of transactions. Field names follow the
// JSON-RPC transaction object, extended with the chain and hardfork labels.
type txJSON struct {
	Type hexutil.Uint64 `json:"type"`

	ChainID              *hexutil.Big    `json:"chainId,omitempty"`
	Nonce                *hexutil.Uint64 `json:"nonce"`
	To                   *common.Address `json:"to"`
	Gas                  *hexutil.Uint64 `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	Value                *hexutil.Big    `json:"value"`
	Input                *hexutil.Bytes  `json:"input"`
	AccessList           *AccessList     `json:"accessList,omitempty"`
	V                    *hexutil.Big    `json:"v"`
	R                    *hexutil.Big    `json:"r"`
	S                    *hexutil.Big    `json:"s"`
	YParity              *hexutil.Uint64 `json:"yParity,omitempty"`

	// Only used for encoding:
	Hash *common.Hash `json:"hash,omitempty"`

	Chain    string `json:"chain,omitempty"`
	Hardfork string `json:"hardfork,omitempty"`
}

func hexBig(n *big.Int) *hexutil.Big { return (*hexutil.Big)(n) }

func hexUint(n uint64) *hexutil.Uint64 { v := hexutil.Uint64(n); return &v }

// MarshalJSON marshals as JSON with a hash.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	var enc txJSON
	data := hexutil.Bytes(tx.Data())
	v, r, s := tx.RawSignatureValues()

	enc.Type = hexutil.Uint64(tx.typ)
	enc.ChainID = hexBig(tx.ChainID())
	enc.Nonce = hexUint(tx.Nonce())
	enc.To = tx.To()
	enc.Gas = hexUint(tx.Gas())
	enc.Value = hexBig(tx.Amount())
	enc.Input = &data
	enc.V, enc.R, enc.S = hexBig(v), hexBig(r), hexBig(s)
	enc.Chain = tx.chain
	enc.Hardfork = tx.hardfork.String()
	if hash, err := tx.Hash(); err == nil {
		enc.Hash = &hash
	}

	switch tx.typ {
	case LegacyTxType:
		enc.GasPrice = hexBig(tx.raw.bigInt(FieldGasPrice))
	case AccessListTxType:
		al := tx.AccessList()
		enc.GasPrice = hexBig(tx.raw.bigInt(FieldGasPrice))
		enc.AccessList = &al
		enc.YParity = hexUint(v.Uint64())
	case DynamicFeeTxType:
		al := tx.AccessList()
		enc.MaxPriorityFeePerGas = hexBig(tx.raw.bigInt(FieldMaxPriorityFeePerGas))
		enc.MaxFeePerGas = hexBig(tx.raw.bigInt(FieldMaxFeePerGas))
		enc.AccessList = &al
		enc.YParity = hexUint(v.Uint64())
	}
	return json.Marshal(&enc)
}

// UnmarshalJSON unmarshals from JSON.
func (tx *Transaction) UnmarshalJSON(input []byte) error {
	var dec txJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	typ := TxType(dec.Type)
	if !typ.valid() {
		return ErrTxTypeNotSupported
	}
	if dec.Nonce == nil {
		return errors.New("missing required field 'nonce' in transaction")
	}
	if dec.Gas == nil {
		return errors.New("missing required field 'gas' in transaction")
	}

	fields := map[string]any{
		FieldNonce:    uint64(*dec.Nonce),
		FieldGasLimit: uint64(*dec.Gas),
	}
	if dec.ChainID != nil {
		fields[FieldChainID] = dec.ChainID.ToInt()
	}
	if dec.To != nil {
		fields[FieldTo] = *dec.To
	}
	if dec.Value != nil {
		fields[FieldValue] = dec.Value.ToInt()
	}
	if dec.Input != nil {
		fields[FieldData] = []byte(*dec.Input)
	}
	if dec.R != nil {
		fields[FieldR] = dec.R.ToInt()
	}
	if dec.S != nil {
		fields[FieldS] = dec.S.ToInt()
	}
	switch typ {
	case LegacyTxType:
		if dec.GasPrice != nil {
			fields[FieldGasPrice] = dec.GasPrice.ToInt()
		}
		if dec.V != nil {
			fields[FieldV] = dec.V.ToInt()
		}
	default:
		if dec.GasPrice != nil && typ == AccessListTxType {
			fields[FieldGasPrice] = dec.GasPrice.ToInt()
		}
		if typ == DynamicFeeTxType {
			if dec.MaxPriorityFeePerGas != nil {
				fields[FieldMaxPriorityFeePerGas] = dec.MaxPriorityFeePerGas.ToInt()
			}
			if dec.MaxFeePerGas != nil {
				fields[FieldMaxFeePerGas] = dec.MaxFeePerGas.ToInt()
			}
		}
		if dec.AccessList != nil {
			fields[FieldAccessList] = *dec.AccessList
		}
		switch {
		case dec.YParity != nil:
			fields[FieldYParity] = uint64(*dec.YParity)
		case dec.V != nil:
			fields[FieldYParity] = dec.V.ToInt()
		}
	}

	opts := []Option{WithType(typ)}
	if dec.Hardfork != "" {
		opts = append(opts, WithHardfork(dec.Hardfork))
	}
	if dec.Chain != "" {
		opts = append(opts, WithChain(dec.Chain))
	}
	dtx, err := NewTransactionFromMap(fields, opts...)
	if err != nil {
		return err
	}
	if dec.Hash != nil {
		if hash, err := dtx.Hash(); err == nil && hash != *dec.Hash {
			return fmt.Errorf("%w: hash %s does not match transaction content %s", ErrDecode, dec.Hash.Hex(), hash.Hex())
		}
	}
	tx.typ, tx.hardfork, tx.chain, tx.chainID = dtx.typ, dtx.hardfork, dtx.chain, dtx.chainID
	tx.raw, tx.enc = dtx.raw, dtx.enc
	tx.from.Store(nil)
	return nil
}
