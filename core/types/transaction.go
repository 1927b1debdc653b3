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
	"bytes"
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/sunyihoo/ethtx/common"
	"github.com/sunyihoo/ethtx/params"
	"github.com/sunyihoo/ethtx/params/forks"
)

// minTxLength is the smallest accepted envelope. Three bytes or fewer cannot
// hold any transaction.
const minTxLength = 4

// Transaction is an Ethereum transaction of one of the supported envelope
// types. A Transaction is immutable: signing returns a new instance.
// Transaction 是不可变的以太坊交易，签名会返回新的实例。
type Transaction struct {
	typ      TxType
	hardfork forks.Fork
	chain    string   // symbolic chain name, empty for unknown chains
	chainID  *big.Int // never nil
	raw      RawTxMap // exactly the fields of typ, canonical
	enc      []byte   // envelope encoding

	// caches
	from atomic.Pointer[common.Address]
}

// Option configures transaction construction.
type Option func(*txOptions)

type txOptions struct {
	chain    string
	chainID  *big.Int
	hardfork string
	txType   TxType
	hasType  bool
}

// WithChain names the chain the transaction is meant for, e.g. "mainnet".
func WithChain(name string) Option {
	return func(o *txOptions) { o.chain = name }
}

// WithChainID sets a numeric chain id, for networks without a symbolic name.
// It must agree with WithChain and with the chainId field when those are set.
func WithChainID(id *big.Int) Option {
	return func(o *txOptions) {
		if id != nil {
			o.chainID = new(big.Int).Set(id)
		}
	}
}

// WithHardfork selects the rule set used for replay protection and signature
// canonicality. The default is london.
func WithHardfork(name string) Option {
	return func(o *txOptions) { o.hardfork = name }
}

// WithType requests a transaction type instead of inferring it.
func WithType(t TxType) Option {
	return func(o *txOptions) {
		o.txType = t
		o.hasType = true
	}
}

func newOptions(opts []Option) *txOptions {
	o := &txOptions{hardfork: params.DefaultHardfork}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewTransaction creates a transaction from a hex string, raw envelope bytes,
// a positional field list or a named field map.
// NewTransaction 根据输入的类型分派到对应的构造函数。
func NewTransaction(data any, opts ...Option) (*Transaction, error) {
	switch data := data.(type) {
	case string:
		return NewTransactionFromHex(data, opts...)
	case []byte:
		return NewTransactionFromBytes(data, opts...)
	case []any:
		return NewTransactionFromList(data, opts...)
	case []string:
		list := make([]any, len(data))
		for i, v := range data {
			list[i] = v
		}
		return NewTransactionFromList(list, opts...)
	case map[string]any:
		return NewTransactionFromMap(data, opts...)
	case RawTxMap:
		return NewTransactionFromMap(data, opts...)
	default:
		return nil, fmt.Errorf("%w: unsupported transaction input %T", ErrInvalidField, data)
	}
}

// NewTransactionFromHex decodes a hex encoded transaction envelope. The 0x
// prefix is optional.
func NewTransactionFromHex(s string, opts ...Option) (*Transaction, error) {
	b, err := hexutil.Decode(ensure0x(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return NewTransactionFromBytes(b, opts...)
}

func ensure0x(s string) string {
	if common.Has0xPrefix(s) {
		return "0x" + s[2:]
	}
	return "0x" + s
}

// NewTransactionFromBytes decodes a transaction envelope.
func NewTransactionFromBytes(b []byte, opts ...Option) (*Transaction, error) {
	o := newOptions(opts)
	if len(b) < minTxLength {
		return nil, fmt.Errorf("%w: input of %d bytes is too short", ErrDecode, len(b))
	}
	typ, items, err := decodeEnvelope(b)
	if err != nil {
		return nil, err
	}
	if o.hasType && o.txType != typ {
		return nil, fmt.Errorf("%w: envelope holds a %s transaction, not %s", ErrTypeMismatch, typ, o.txType)
	}
	if err := checkDecodedLength(typ, len(items)); err != nil {
		return nil, err
	}
	tx, err := newTransaction(typ, namedFields(typ, items), o)
	if err != nil {
		return nil, err
	}
	log.Trace("Decoded transaction", "type", typ, "size", len(b), "signed", tx.IsSigned())
	return tx, nil
}

// NewTransactionFromList creates a transaction from its positional fields.
// The field count selects the type: 9 legacy, 11 EIP-2930, 12 EIP-1559.
func NewTransactionFromList(list []any, opts ...Option) (*Transaction, error) {
	o := newOptions(opts)
	typ, err := inferListType(len(list), o)
	if err != nil {
		return nil, err
	}
	return newTransaction(typ, namedFields(typ, list), o)
}

// NewTransactionFromMap creates a transaction from named fields. Unless a
// type is requested, the type is inferred from the field names present.
func NewTransactionFromMap(fields map[string]any, opts ...Option) (*Transaction, error) {
	o := newOptions(opts)
	typ, err := inferType(fields, o)
	if err != nil {
		return nil, err
	}
	if err := checkFieldNames(typ, fields); err != nil {
		return nil, err
	}
	return newTransaction(typ, fields, o)
}

// newTransaction normalizes the named fields of typ, settles the chain id and
// assembles the transaction. It is the single funnel every constructor and
// Sign go through.
// newTransaction 是所有构造路径的汇合点：规范化字段、确定链 ID、编码信封。
func newTransaction(typ TxType, fields map[string]any, o *txOptions) (*Transaction, error) {
	fork, ok := forks.Parse(o.hardfork)
	if !ok {
		return nil, fieldErrorf("hardfork", "unknown hardfork %q", o.hardfork)
	}
	var labelID *big.Int
	if o.chain != "" {
		if labelID, ok = params.ChainID(o.chain); !ok {
			return nil, fieldErrorf("chain", "unknown chain %q", o.chain)
		}
	}
	if typ != LegacyTxType && present(fields, FieldV) {
		if present(fields, FieldYParity) {
			v, err := NormalizeField(FieldYParity, fields[FieldV])
			if err != nil {
				return nil, err
			}
			y, err := NormalizeField(FieldYParity, fields[FieldYParity])
			if err != nil {
				return nil, err
			}
			if v != y {
				return nil, fieldErrorf(FieldYParity, "'v' and 'yParity' fields do not match")
			}
		} else {
			fields = shallowCopy(fields)
			fields[FieldYParity] = fields[FieldV]
		}
	}
	raw := make(RawTxMap, len(txFields[typ]))
	for _, name := range txFields[typ] {
		v, err := NormalizeField(name, fields[name])
		if err != nil {
			return nil, err
		}
		raw[name] = v
	}

	var explicitID *big.Int
	if present(fields, FieldChainID) {
		v, err := NormalizeField(FieldChainID, fields[FieldChainID])
		if err != nil {
			return nil, err
		}
		if s := v.(string); s != "" {
			explicitID = RawTxMap{FieldChainID: s}.bigInt(FieldChainID)
		}
	}

	// Signature consistency.
	sigField := typ.sigField()
	hasR, hasS := raw[FieldR] != "", raw[FieldS] != ""
	if hasR != hasS {
		return nil, fieldErrorf(FieldS, "incomplete signature, r and s must both be set")
	}
	var vChainID *big.Int
	switch {
	case typ == LegacyTxType && !hasR:
		// An unsigned legacy transaction carries its chain id in the v slot.
		if v := raw.bigInt(FieldV); v.Sign() != 0 {
			if explicitID != nil && explicitID.Cmp(v) != 0 {
				return nil, fmt.Errorf("%w: chainId field gives %v, v slot gives %v", ErrChainMismatch, explicitID, v)
			}
			explicitID = v
		}
		raw[FieldV] = ""
	case typ == LegacyTxType:
		vChainID = deriveChainID(raw.bigInt(FieldV))
	case !hasR && raw[sigField] != "":
		return nil, fieldErrorf(sigField, "signature value without r and s")
	case hasR && raw.bigInt(sigField).Cmp(big.NewInt(1)) > 0:
		return nil, &FieldError{Field: sigField, Reason: errInvalidYParity.Error()}
	}

	chainID, err := reconcileChainID(
		chainSource{"chain " + o.chain, labelID},
		chainSource{"chain id option", o.chainID},
		chainSource{"chainId field", explicitID},
		chainSource{"signature v", vChainID},
	)
	if err != nil {
		return nil, err
	}
	if chainID == nil {
		chainID, _ = params.ChainID(params.DefaultChain)
	}
	if chainID.Sign() == 0 || chainID.BitLen() > 64 {
		return nil, fieldErrorf(FieldChainID, "chain id %v out of range", chainID)
	}
	if typ != LegacyTxType {
		raw[FieldChainID] = encodeNumber(chainID)
	}
	for _, name := range []string{FieldNonce, FieldGasLimit} {
		if !raw.bigInt(name).IsUint64() {
			return nil, fieldErrorf(name, "value exceeds 64 bits")
		}
	}

	tx := &Transaction{
		typ:      typ,
		hardfork: fork,
		chain:    params.ChainName(chainID),
		chainID:  chainID,
		raw:      raw,
	}
	if tx.enc, err = encodeEnvelope(typ, tx.envelopeValues(tx.IsSigned())); err != nil {
		return nil, err
	}
	return tx, nil
}

func shallowCopy(m map[string]any) map[string]any {
	cpy := make(map[string]any, len(m))
	for k, v := range m {
		cpy[k] = v
	}
	return cpy
}

// Type returns the transaction type.
func (tx *Transaction) Type() TxType { return tx.typ }

// Hardfork returns the rule set the transaction is interpreted under.
func (tx *Transaction) Hardfork() forks.Fork { return tx.hardfork }

// Chain returns the symbolic name of the chain, or the empty string if the
// chain id is not a known network.
func (tx *Transaction) Chain() string { return tx.chain }

// ChainID returns the EIP-155 chain id. The return value is never nil.
func (tx *Transaction) ChainID() *big.Int { return new(big.Int).Set(tx.chainID) }

// Raw returns a deep copy of the canonical fields.
func (tx *Transaction) Raw() RawTxMap { return tx.raw.Copy() }

// IsSigned reports whether the transaction carries a signature.
func (tx *Transaction) IsSigned() bool { return tx.raw.str(FieldR) != "" }

// Bytes returns the envelope encoding. Unsigned transactions are encoded
// without the signature fields.
func (tx *Transaction) Bytes() []byte { return common.CopyBytes(tx.enc) }

// Hex returns the 0x-prefixed envelope encoding.
func (tx *Transaction) Hex() string { return hexutil.Encode(tx.enc) }

// MarshalBinary returns the envelope encoding.
func (tx *Transaction) MarshalBinary() ([]byte, error) { return tx.Bytes(), nil }

// Nonce returns the sender account nonce of the transaction.
func (tx *Transaction) Nonce() uint64 { return tx.raw.bigInt(FieldNonce).Uint64() }

// Gas returns the gas limit of the transaction.
func (tx *Transaction) Gas() uint64 { return tx.raw.bigInt(FieldGasLimit).Uint64() }

// Amount returns the ether amount of the transaction in wei.
func (tx *Transaction) Amount() *big.Int { return tx.raw.bigInt(FieldValue) }

// Data returns the input data of the transaction.
func (tx *Transaction) Data() []byte { return common.FromHex(tx.raw.str(FieldData)) }

// AccessList returns a copy of the access list. Legacy transactions have none.
func (tx *Transaction) AccessList() AccessList {
	if al, ok := tx.raw[FieldAccessList].(AccessList); ok {
		return al.Copy()
	}
	return nil
}

// GasPrice returns the gas price of legacy and access list transactions.
func (tx *Transaction) GasPrice() (*big.Int, error) { return tx.field(FieldGasPrice) }

// MaxFeePerGas returns the fee cap of a dynamic fee transaction.
func (tx *Transaction) MaxFeePerGas() (*big.Int, error) { return tx.field(FieldMaxFeePerGas) }

// MaxPriorityFeePerGas returns the tip cap of a dynamic fee transaction.
func (tx *Transaction) MaxPriorityFeePerGas() (*big.Int, error) {
	return tx.field(FieldMaxPriorityFeePerGas)
}

func (tx *Transaction) field(name string) (*big.Int, error) {
	if _, ok := tx.raw[name]; !ok {
		return nil, fmt.Errorf("%w: %s has no %s", ErrFieldUnavailable, tx.typ, name)
	}
	return tx.raw.bigInt(name), nil
}

// pricePerGas returns the worst case price per gas: the gas price, or the
// fee cap of a dynamic fee transaction.
func (tx *Transaction) pricePerGas() *big.Int {
	if tx.typ == DynamicFeeTxType {
		return tx.raw.bigInt(FieldMaxFeePerGas)
	}
	return tx.raw.bigInt(FieldGasPrice)
}

// Fee returns the maximum fee the transaction can pay: price * gasLimit.
func (tx *Transaction) Fee() *big.Int {
	return new(big.Int).Mul(tx.pricePerGas(), new(big.Int).SetUint64(tx.Gas()))
}

// UpfrontCost returns value + fee, the balance the sender needs.
func (tx *Transaction) UpfrontCost() *big.Int {
	return new(big.Int).Add(tx.Amount(), tx.Fee())
}

// To returns the recipient address of the transaction.
// For contract-creation transactions, To returns nil.
func (tx *Transaction) To() *common.Address {
	to := tx.raw.str(FieldTo)
	if to == "" {
		return nil
	}
	addr := common.HexToAddress(to)
	return &addr
}

// RawSignatureValues returns the v (or yParity), r and s values. They are zero
// for an unsigned transaction.
func (tx *Transaction) RawSignatureValues() (v, r, s *big.Int) {
	return tx.raw.bigInt(tx.typ.sigField()), tx.raw.bigInt(FieldR), tx.raw.bigInt(FieldS)
}

// Hash returns the transaction hash, the Keccak256 of the signed envelope.
func (tx *Transaction) Hash() (common.Hash, error) {
	if !tx.IsSigned() {
		return common.Hash{}, ErrNotSigned
	}
	return tx.MessageToSign(true), nil
}

// Equal reports whether both transactions have the same signing hash. The
// signature does not take part in the comparison.
func (tx *Transaction) Equal(other *Transaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}
	return tx.MessageToSign(false) == other.MessageToSign(false)
}

// String returns a short human readable description.
func (tx *Transaction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s tx chain=%v nonce=%d", tx.typ, tx.chainID, tx.Nonce())
	if to := tx.To(); to != nil {
		fmt.Fprintf(&b, " to=%s", to.Hex())
	} else {
		b.WriteString(" to=<create>")
	}
	fmt.Fprintf(&b, " value=%v signed=%t", tx.Amount(), tx.IsSigned())
	return b.String()
}

// sameEncoding reports whether both transactions have identical envelopes.
func (tx *Transaction) sameEncoding(other *Transaction) bool {
	return bytes.Equal(tx.enc, other.enc)
}
