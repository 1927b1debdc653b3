// Copyright 2016 The go-ethereum Authors
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
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/sunyihoo/ethtx/common"
	"github.com/sunyihoo/ethtx/crypto"
)

// 签名状态机：Unsigned --Sign--> Signed。已签名交易不能再次签名，
// 签名总是返回新的交易实例，原实例保持不变。

// Protected reports whether the transaction is replay protected. Typed
// transactions always commit to their chain id. An unsigned legacy
// transaction is protected from EIP-155 (spuriousDragon) on, a signed one
// only if its v value also encodes the chain id.
func (tx *Transaction) Protected() bool {
	if tx.typ != LegacyTxType {
		return true
	}
	if !tx.hardfork.IsEIP155() {
		return false
	}
	if !tx.IsSigned() {
		return true
	}
	return isProtectedV(tx.raw.bigInt(FieldV), tx.chainID)
}

// MessageToSign returns the Keccak256 hash of the envelope. Without the
// signature this is the signing hash; with it, the transaction hash.
func (tx *Transaction) MessageToSign(includeSignature bool) common.Hash {
	enc, err := encodeEnvelope(tx.typ, tx.envelopeValues(includeSignature))
	if err != nil {
		// Canonical fields were validated on construction.
		panic(fmt.Sprintf("encoding canonical %s transaction: %v", tx.typ, err))
	}
	return crypto.Keccak256Hash(enc)
}

// Sign signs the transaction with prv and returns the signed copy. The
// receiver is left unchanged.
func (tx *Transaction) Sign(prv *ecdsa.PrivateKey) (*Transaction, error) {
	if tx.IsSigned() {
		return nil, ErrAlreadySigned
	}
	if prv == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrInvalidSig)
	}
	h := tx.MessageToSign(false)
	sig, err := crypto.Sign(h[:], prv)
	if err != nil {
		return nil, err
	}
	s, err := crypto.SignatureFromBytes(sig)
	if err != nil {
		return nil, err
	}

	raw := tx.raw.Copy()
	if tx.typ == LegacyTxType {
		raw[FieldV] = encodeNumber(legacyV(s.V, tx.chainID, tx.Protected()))
		raw[FieldChainID] = encodeNumber(tx.chainID)
	} else {
		raw[FieldYParity] = encodeNumber(new(big.Int).SetUint64(uint64(s.V)))
	}
	raw[FieldR] = encodeNumber(s.R)
	raw[FieldS] = encodeNumber(s.S)

	o := &txOptions{hardfork: tx.hardfork.String(), chain: tx.chain, txType: tx.typ, hasType: true}
	signed, err := newTransaction(tx.typ, raw, o)
	if err != nil {
		return nil, err
	}
	log.Debug("Signed transaction", "type", tx.typ, "chain", tx.chainID, "nonce", tx.Nonce())
	return signed, nil
}

// recoveryID extracts the recovery id of the signature.
func (tx *Transaction) recoveryID() (byte, bool) {
	v := tx.raw.bigInt(tx.typ.sigField())
	if tx.typ == LegacyTxType {
		return legacyRecoveryID(v, tx.chainID, tx.Protected())
	}
	if !v.IsUint64() || v.Uint64() > 1 {
		return 0, false
	}
	return byte(v.Uint64()), true
}

// RecoverPublicKey returns the 65 byte uncompressed public key that signed
// the transaction. Except under chainstart (frontier) rules, signatures with
// s above half the curve order are rejected.
func (tx *Transaction) RecoverPublicKey() ([]byte, error) {
	if !tx.IsSigned() {
		return nil, ErrNotSigned
	}
	recid, ok := tx.recoveryID()
	if !ok {
		return nil, fmt.Errorf("%w: bad recovery value %v", ErrInvalidSig, tx.raw.bigInt(tx.typ.sigField()))
	}
	sig := &crypto.Signature{R: tx.raw.bigInt(FieldR), S: tx.raw.bigInt(FieldS), V: recid}
	if !tx.hardfork.AllowsHighS() && sig.IsHighS() {
		return nil, fmt.Errorf("%w: high s value under %s rules", ErrInvalidSig, tx.hardfork)
	}
	if !crypto.ValidateSignatureValues(sig.V, sig.R, sig.S, false) {
		return nil, ErrInvalidSig
	}
	h := tx.MessageToSign(false)
	return crypto.Ecrecover(h[:], sig.Bytes())
}

// Sender returns the checksummed address that signed the transaction. The
// result is cached.
func (tx *Transaction) Sender() (common.Address, error) {
	if from := tx.from.Load(); from != nil {
		return *from, nil
	}
	pub, err := tx.RecoverPublicKey()
	if err != nil {
		if errors.Is(err, ErrNotSigned) {
			return common.Address{}, err
		}
		return common.Address{}, fmt.Errorf("%w: %w", ErrRecoveryFailed, err)
	}
	if len(pub) == 0 {
		return common.Address{}, ErrRecoveryFailed
	}
	addr, err := crypto.PubkeyBytesToAddress(pub)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrRecoveryFailed, err)
	}
	tx.from.Store(&addr)
	return addr, nil
}

// ContractAddress returns the address a contract creation transaction deploys
// to. It returns false if the transaction has a recipient or no sender can be
// recovered.
func (tx *Transaction) ContractAddress() (common.Address, bool) {
	if tx.To() != nil {
		return common.Address{}, false
	}
	from, err := tx.Sender()
	if err != nil {
		return common.Address{}, false
	}
	return crypto.CreateAddress(from, tx.Nonce()), true
}
