// Copyright 2023 The go-ethereum Authors
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

// Package txargs converts user facing transaction parameters into the raw
// field map understood by core/types, checking every field against the
// bounds in params.
package txargs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sunyihoo/ethtx/core/types"
)

// Amount is a value paired with the denomination it is expressed in.
// Amount 表示带单位的金额，例如 1.5 eth。
type Amount struct {
	Value any  `json:"value"`
	Unit  Unit `json:"unit,omitempty"`
}

// NewAmount returns an amount of value in unit u.
func NewAmount(value any, u Unit) *Amount {
	return &Amount{Value: value, Unit: u}
}

// UnmarshalJSON accepts a bare number or string, interpreted as wei, or an
// object of the form {"value": "1.5", "unit": "eth"}.
func (a *Amount) UnmarshalJSON(input []byte) error {
	input = bytes.TrimSpace(input)
	if len(input) > 0 && input[0] == '{' {
		var obj struct {
			Value json.RawMessage `json:"value"`
			Unit  string          `json:"unit"`
		}
		if err := json.Unmarshal(input, &obj); err != nil {
			return err
		}
		u, err := ParseUnit(obj.Unit)
		if err != nil {
			return err
		}
		v, err := decodeScalar(obj.Value)
		if err != nil {
			return err
		}
		a.Value, a.Unit = v, u
		return nil
	}
	v, err := decodeScalar(input)
	if err != nil {
		return err
	}
	a.Value, a.Unit = v, Wei
	return nil
}

func decodeScalar(input []byte) (any, error) {
	if len(input) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case nil, string, json.Number:
		return v, nil
	}
	return nil, fmt.Errorf("amount must be a number or a string, got %T", v)
}

// HumanizedTx holds transaction parameters the way a person writes them:
// numbers, decimal or hex strings and amounts tagged with a unit.
// HumanizedTx 表示人类可读形式的交易参数。
type HumanizedTx struct {
	From                 string  `json:"from,omitempty"` // Sender hint, never encoded. 发送者提示，不参与编码。
	To                   string  `json:"to"`
	Nonce                any     `json:"nonce"`
	Value                *Amount `json:"value"`
	MaxFeePerGas         *Amount `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *Amount `json:"maxPriorityFeePerGas"`
	GasPrice             *Amount `json:"gasPrice,omitempty"` // Only for raw maps of legacy and EIP-2930 transactions.
	GasLimit             any     `json:"gasLimit,omitempty"`
	Data                 string  `json:"data,omitempty"`
	ChainID              any     `json:"chainId,omitempty"`
	AccessList           any     `json:"accessList,omitempty"`
}

// Options configures ValidateField.
type Options struct {
	Unit Unit   // Denomination of amount fields, wei when empty.
	From string // Sender hint the recipient must differ from.
}

// TransactionFieldError collects the failures of every invalid field.
// TransactionFieldError 汇总所有字段的校验错误，而不是在第一个错误处停止。
type TransactionFieldError struct {
	FieldErrors map[string]string
}

func (e *TransactionFieldError) Error() string {
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f + ": " + e.FieldErrors[f]
	}
	return "invalid transaction fields: " + strings.Join(msgs, "; ")
}

// Unwrap allows errors.Is(err, types.ErrInvalidField).
func (e *TransactionFieldError) Unwrap() error { return types.ErrInvalidField }

func (e *TransactionFieldError) add(field string, err error) {
	if e.FieldErrors == nil {
		e.FieldErrors = make(map[string]string)
	}
	var ferr *types.FieldError
	if errors.As(err, &ferr) {
		e.FieldErrors[field] = ferr.Reason
		return
	}
	e.FieldErrors[field] = err.Error()
}

func (e *TransactionFieldError) empty() bool { return len(e.FieldErrors) == 0 }
