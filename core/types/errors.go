// Copyright 2014 The go-ethereum Authors
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
	"errors"
	"fmt"
)

var (
	// ErrInvalidField is returned when a field has the wrong shape or an out
	// of range value.
	ErrInvalidField = errors.New("invalid transaction field")

	// ErrInvalidLength is returned when a positional field list has a count
	// matching no transaction type.
	ErrInvalidLength = errors.New("invalid transaction field count")

	// ErrTypeMismatch is returned when the requested transaction type is not
	// compatible with the supplied fields.
	ErrTypeMismatch = errors.New("transaction type mismatch")

	// ErrChainMismatch is returned when the chain label, the chainId field or
	// an EIP-155 v value name different chains.
	ErrChainMismatch = errors.New("chain id mismatch")

	// ErrDecode wraps failures of the envelope codec.
	ErrDecode = errors.New("transaction decode failed")

	// ErrTxTypeNotSupported is returned for an unknown EIP-2718 type prefix.
	ErrTxTypeNotSupported = errors.New("transaction type not supported")

	ErrAlreadySigned = errors.New("transaction already signed")
	ErrNotSigned     = errors.New("transaction not signed")

	// ErrInvalidSig is returned for non-canonical or malformed signatures.
	ErrInvalidSig = errors.New("invalid transaction v, r, s values")

	// ErrRecoveryFailed is returned when no public key can be recovered from
	// a signature.
	ErrRecoveryFailed = errors.New("sender recovery failed")

	// ErrFieldUnavailable is returned by accessors for fields the transaction
	// type does not carry.
	ErrFieldUnavailable = errors.New("field not available for transaction type")

	errShortTypedTx   = errors.New("typed transaction too short")
	errInvalidYParity = errors.New("'yParity' field must be 0 or 1")
)

// FieldError reports a problem with a single named field.
// FieldError 描述单个字段的错误，包含字段名和原因。
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidField).
func (e *FieldError) Unwrap() error { return ErrInvalidField }

func fieldErrorf(field, format string, args ...any) error {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
