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
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/sunyihoo/ethtx/params"
)

// Unit is an ether denomination tag attached to an amount.
// Unit 是附加在金额上的以太币单位。
type Unit string

const (
	Wei   Unit = "wei"
	GWei  Unit = "gwei"
	Ether Unit = "eth"
)

// ParseUnit parses a denomination label. The empty label means wei.
func ParseUnit(label string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "wei":
		return Wei, nil
	case "gwei":
		return GWei, nil
	case "eth", "ether":
		return Ether, nil
	}
	return "", fmt.Errorf("unknown unit %q", label)
}

// Decimals returns the number of decimal places between u and wei.
func (u Unit) Decimals() (int32, error) {
	switch u {
	case "", Wei:
		return params.WeiPrecision, nil
	case GWei:
		return params.GWeiPrecision, nil
	case Ether:
		return params.EtherPrecision, nil
	}
	return 0, fmt.Errorf("unknown unit %q", string(u))
}

// ParseUnits converts a decimal amount expressed in unit u into wei. The
// result must be a whole number of wei.
// ParseUnits 将以 u 为单位的十进制金额转换为 wei，结果必须为整数。
func ParseUnits(amount string, u Unit) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid decimal amount %q", amount)
	}
	return scale(d, u)
}

// FormatUnits renders a wei amount in unit u without trailing zeros.
func FormatUnits(wei *big.Int, u Unit) (string, error) {
	dec, err := u.Decimals()
	if err != nil {
		return "", err
	}
	if wei == nil {
		wei = new(big.Int)
	}
	return decimal.NewFromBigInt(wei, -dec).String(), nil
}

func scale(d decimal.Decimal, u Unit) (*big.Int, error) {
	dec, err := u.Decimals()
	if err != nil {
		return nil, err
	}
	d = d.Shift(dec)
	if !d.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d decimals for unit %s", d.Shift(-dec), dec, u)
	}
	return d.BigInt(), nil
}

// toWei converts a humanized amount into wei. Hex strings are read as
// integers of the given unit, decimal strings and numbers may carry a
// fractional part.
func toWei(value any, u Unit) (*big.Int, error) {
	switch v := value.(type) {
	case nil:
		return new(big.Int), nil
	case string:
		if v == "" || v == "0x" {
			return new(big.Int), nil
		}
		if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
			n, ok := new(big.Int).SetString(v[2:], 16)
			if !ok {
				return nil, fmt.Errorf("invalid hex amount %q", v)
			}
			return scale(decimal.NewFromBigInt(n, 0), u)
		}
		return ParseUnits(v, u)
	case json.Number:
		return ParseUnits(v.String(), u)
	case float64:
		return scale(decimal.NewFromFloat(v), u)
	case *big.Int:
		if v == nil {
			return new(big.Int), nil
		}
		return scale(decimal.NewFromBigInt(v, 0), u)
	case *hexutil.Big:
		if v == nil {
			return new(big.Int), nil
		}
		return scale(decimal.NewFromBigInt(v.ToInt(), 0), u)
	case *uint256.Int:
		if v == nil {
			return new(big.Int), nil
		}
		return scale(decimal.NewFromBigInt(v.ToBig(), 0), u)
	case decimal.Decimal:
		return scale(v, u)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scale(decimal.NewFromInt(rv.Int()), u)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return scale(decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0), u)
	}
	return nil, fmt.Errorf("unsupported amount of type %T", value)
}
