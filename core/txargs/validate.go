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

package txargs

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/sunyihoo/ethtx/common"
	"github.com/sunyihoo/ethtx/core/types"
	"github.com/sunyihoo/ethtx/params"
	"golang.org/x/exp/constraints"
)

// requiredFields must be present in every HumanizedTx.
// 必填字段：缺少任意一个都会单独报错。
var requiredFields = []string{
	types.FieldMaxFeePerGas,
	types.FieldMaxPriorityFeePerGas,
	types.FieldTo,
	types.FieldValue,
	types.FieldNonce,
}

var errMissingField = errors.New("missing required field")

// defaults returns the field values used where ToRawFields has no input.
func defaults() types.RawTxMap {
	return types.RawTxMap{
		types.FieldNonce:    "0x",
		types.FieldTo:       "0x",
		types.FieldValue:    "0x",
		types.FieldGasLimit: encodeQuantity(new(big.Int).SetUint64(params.TxGas)),
		types.FieldData:     "0x",
		types.FieldV:        "0x",
		types.FieldR:        "0x",
		types.FieldS:        "0x",
		types.FieldChainID:  encodeQuantity(new(big.Int).SetUint64(params.MainnetChainID)),
	}
}

// ToRawFields validates every field of tx and returns the raw field map of
// an EIP-1559 transaction. All invalid or missing fields are reported
// together in a *TransactionFieldError.
// ToRawFields 校验所有字段并合并默认值，错误会被汇总后一次性返回。
func ToRawFields(tx *HumanizedTx) (types.RawTxMap, error) {
	var (
		errs  = new(TransactionFieldError)
		out   = defaults()
		input = tx.fields()
	)
	for _, field := range requiredFields {
		if _, ok := input[field]; !ok {
			errs.add(field, errMissingField)
		}
	}
	if _, ok := input[types.FieldGasPrice]; ok {
		errs.add(types.FieldGasPrice, fmt.Errorf("cannot be combined with %s", types.FieldMaxFeePerGas))
		delete(input, types.FieldGasPrice)
	}
	for _, field := range sortedFields(input) {
		v, err := check(field, input[field].value, input[field].unit, tx.From)
		if err != nil {
			errs.add(field, err)
			continue
		}
		out[field] = canonical(v)
	}
	if !errs.empty() {
		log.Trace("Rejected transaction fields", "errors", len(errs.FieldErrors))
		return nil, errs
	}
	log.Debug("Validated transaction fields", "fields", len(input))
	return out, nil
}

// ValidateFields runs the field checks over an already canonical raw map,
// reporting all failures together. Signature fields are only checked to be
// well formed numbers and an empty recipient is accepted.
func ValidateFields(raw types.RawTxMap) error {
	errs := new(TransactionFieldError)
	for _, field := range sortedKeys(raw) {
		if err := validateRaw(field, raw[field]); err != nil {
			errs.add(field, err)
		}
	}
	if !errs.empty() {
		return errs
	}
	return nil
}

func validateRaw(field string, value any) error {
	switch field {
	case types.FieldV, types.FieldR, types.FieldS, types.FieldYParity:
		_, err := types.NormalizeField(field, value)
		return err
	case types.FieldTo:
		if s, ok := value.(string); ok && (s == "" || s == "0x") {
			return nil
		}
	}
	_, err := check(field, value, Wei, "")
	return err
}

// ValidateField checks a single humanized field and returns its canonical
// raw value. Amount fields are read in opts.Unit unless value is an
// *Amount carrying its own unit.
func ValidateField(name string, value any, opts *Options) (any, error) {
	if opts == nil {
		opts = new(Options)
	}
	unit := opts.Unit
	switch a := value.(type) {
	case *Amount:
		if a != nil {
			value, unit = a.Value, a.Unit
		}
	case Amount:
		value, unit = a.Value, a.Unit
	}
	v, err := check(name, value, unit, opts.From)
	if err != nil {
		return nil, err
	}
	return canonical(v), nil
}

// FromRawFields is the reverse of ToRawFields: it validates raw and returns
// its fields with amounts in wei and the recipient checksummed.
func FromRawFields(raw types.RawTxMap) (*HumanizedTx, error) {
	if err := ValidateFields(raw); err != nil {
		return nil, err
	}
	tx := new(HumanizedTx)
	for field, value := range raw {
		v, err := check(field, value, Wei, "")
		if err != nil {
			// Signature fields and an empty recipient are skipped.
			continue
		}
		switch field {
		case types.FieldTo:
			tx.To = common.HexToAddress(v.(string)).Hex()
		case types.FieldNonce:
			tx.Nonce = v
		case types.FieldGasLimit:
			tx.GasLimit = v
		case types.FieldChainID:
			tx.ChainID = v
		case types.FieldValue:
			tx.Value = NewAmount(v, Wei)
		case types.FieldMaxFeePerGas:
			tx.MaxFeePerGas = NewAmount(v, Wei)
		case types.FieldMaxPriorityFeePerGas:
			tx.MaxPriorityFeePerGas = NewAmount(v, Wei)
		case types.FieldGasPrice:
			tx.GasPrice = NewAmount(v, Wei)
		case types.FieldData:
			tx.Data = v.(string)
		case types.FieldAccessList:
			tx.AccessList = v
		}
	}
	return tx, nil
}

type humanValue struct {
	value any
	unit  Unit
}

// fields flattens tx into the set of supplied fields.
func (tx *HumanizedTx) fields() map[string]humanValue {
	m := make(map[string]humanValue)
	amount := func(field string, a *Amount) {
		if a != nil {
			m[field] = humanValue{a.Value, a.Unit}
		}
	}
	scalar := func(field string, v any) {
		if v != nil {
			m[field] = humanValue{v, Wei}
		}
	}
	if tx.To != "" {
		m[types.FieldTo] = humanValue{tx.To, Wei}
	}
	if tx.Data != "" {
		m[types.FieldData] = humanValue{tx.Data, Wei}
	}
	scalar(types.FieldNonce, tx.Nonce)
	scalar(types.FieldGasLimit, tx.GasLimit)
	scalar(types.FieldChainID, tx.ChainID)
	scalar(types.FieldAccessList, tx.AccessList)
	amount(types.FieldValue, tx.Value)
	amount(types.FieldMaxFeePerGas, tx.MaxFeePerGas)
	amount(types.FieldMaxPriorityFeePerGas, tx.MaxPriorityFeePerGas)
	amount(types.FieldGasPrice, tx.GasPrice)
	return m
}

// check validates one field. Numeric fields yield a *big.Int, the
// recipient and data yield lower-case hex strings, the access list an
// types.AccessList.
func check(field string, value any, unit Unit, from string) (any, error) {
	switch field {
	case types.FieldNonce:
		n, err := integer(field, value, Wei)
		if err != nil {
			return nil, err
		}
		return n, uintRange(field, n, 0, params.MaxTxNonce)

	case types.FieldGasLimit:
		n, err := integer(field, value, Wei)
		if err != nil {
			return nil, err
		}
		return n, uintRange(field, n, params.MinTxGasLimit, params.MaxTxGasLimit)

	case types.FieldChainID:
		n, err := integer(field, value, Wei)
		if err != nil {
			return nil, err
		}
		return n, uintRange(field, n, params.MinTxChainID, params.MaxTxChainID)

	case types.FieldMaxFeePerGas, types.FieldMaxPriorityFeePerGas, types.FieldGasPrice:
		n, err := integer(field, value, unit)
		if err != nil {
			return nil, err
		}
		return n, bigRange(field, n, params.MinTxGasFee, params.MaxTxGasFee)

	case types.FieldValue:
		n, err := integer(field, value, unit)
		if err != nil {
			return nil, err
		}
		return n, bigRange(field, n, new(big.Int), params.MaxTxValue)

	case types.FieldTo:
		return checkRecipient(value, from)

	case types.FieldData:
		if s, ok := value.(string); ok {
			if err := inRange(field, len(s), 0, params.MaxTxDataSize); err != nil {
				return nil, err
			}
		}
		v, err := types.NormalizeField(field, value)
		if err != nil {
			return nil, err
		}
		return v, nil

	case types.FieldAccessList:
		return types.NormalizeField(field, value)
	}
	return nil, &types.FieldError{Field: field, Reason: "unknown field"}
}

func integer(field string, value any, unit Unit) (*big.Int, error) {
	n, err := toWei(value, unit)
	if err != nil {
		return nil, &types.FieldError{Field: field, Reason: err.Error()}
	}
	return n, nil
}

func checkRecipient(value any, from string) (string, error) {
	var to string
	switch v := value.(type) {
	case string:
		to = v
	case common.Address:
		to = v.Hex()
	case *common.Address:
		if v != nil {
			to = v.Hex()
		}
	default:
		return "", &types.FieldError{Field: types.FieldTo, Reason: fmt.Sprintf("unsupported address of type %T", value)}
	}
	if !common.IsHexAddress(to) {
		return "", &types.FieldError{Field: types.FieldTo, Reason: "must be 40 hex characters with optional 0x prefix"}
	}
	if !common.VerifyChecksum(to) {
		return "", &types.FieldError{Field: types.FieldTo, Reason: "invalid EIP-55 checksum"}
	}
	addr := common.HexToAddress(to)
	if common.IsHexAddress(from) && common.HexToAddress(from) == addr {
		return "", &types.FieldError{Field: types.FieldTo, Reason: "recipient equals sender"}
	}
	return hexutil.Encode(addr.Bytes()), nil
}

// inRange reports a field error unless lo <= v <= hi.
func inRange[T constraints.Integer](field string, v, lo, hi T) error {
	if v < lo || v > hi {
		return &types.FieldError{Field: field, Reason: fmt.Sprintf("%d out of range [%d, %d]", v, lo, hi)}
	}
	return nil
}

func uintRange(field string, n *big.Int, lo, hi uint64) error {
	if n.Sign() < 0 || !n.IsUint64() {
		return &types.FieldError{Field: field, Reason: fmt.Sprintf("%v out of range [%d, %d]", n, lo, hi)}
	}
	return inRange(field, n.Uint64(), lo, hi)
}

func bigRange(field string, n, lo, hi *big.Int) error {
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		return &types.FieldError{Field: field, Reason: fmt.Sprintf("%v out of range [%v, %v]", n, lo, hi)}
	}
	return nil
}

// canonical renders a checked value in raw map form, zero as "0x".
func canonical(v any) any {
	switch v := v.(type) {
	case *big.Int:
		return encodeQuantity(v)
	case string:
		if v == "" {
			return "0x"
		}
		return v
	}
	return v
}

func encodeQuantity(n *big.Int) string {
	if n.Sign() == 0 {
		return "0x"
	}
	return hexutil.Encode(n.Bytes())
}

func sortedFields(m map[string]humanValue) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m types.RawTxMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
