package types

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"math/big"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/sunyihoo/ethtx/common"
	"github.com/sunyihoo/ethtx/crypto"
)

// The example transaction of EIP-155.
var (
	eip155Key, _   = crypto.HexToECDSA("4646464646464646464646464646464646464646464646464646464646464646")
	eip155Sender   = common.HexToAddress("0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F")
	eip155SignHash = common.HexToHash("0xdaf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53")
	eip155Unsigned = "0xec098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a764000080018080"
	eip155Signed   = "0xf86c098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a76400008025a028ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa636276a067cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83"
)

func eip155Fields() map[string]any {
	return map[string]any{
		FieldNonce:    9,
		FieldGasPrice: big.NewInt(20_000_000_000),
		FieldGasLimit: 21000,
		FieldTo:       "0x3535353535353535353535353535353535353535",
		FieldValue:    "1000000000000000000",
		FieldChainID:  1,
	}
}

var (
	testKey1, _ = crypto.HexToECDSA("0000000000000000000000000000000000000000000000000000000000000001")
	testKey2, _ = crypto.HexToECDSA("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	testAddr1   = common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")
	testAddr2   = common.HexToAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23")

	testTo          = "0x095e7baea6a6c7c4c2dfeb977efac326af552d87"
	testStorageKey1 = "0x0000000000000000000000000000000000000000000000000000000000000001"
	testStorageKey2 = "0x0000000000000000000000000000000000000000000000000000000000000002"
)

func legacyFields() map[string]any {
	return map[string]any{
		FieldNonce:    3,
		FieldGasPrice: "0x3b9aca00",
		FieldGasLimit: "0x5208",
		FieldTo:       testTo,
		FieldValue:    big.NewInt(10),
		FieldData:     "0x5544",
	}
}

func accessListFields() map[string]any {
	f := legacyFields()
	f[FieldChainID] = 5
	f[FieldAccessList] = []any{
		[]any{testTo, []any{testStorageKey1}},
	}
	return f
}

func dynamicFeeFields() map[string]any {
	return map[string]any{
		FieldChainID:              1,
		FieldNonce:                0,
		FieldMaxPriorityFeePerGas: "0x3b9aca00",
		FieldMaxFeePerGas:         "100000000000",
		FieldGasLimit:             30000,
		FieldTo:                   testTo,
		FieldValue:                "0x0de0b6b3a7640000",
		FieldData:                 "",
		FieldAccessList: []any{
			map[string]any{"address": testTo, "storageKeys": []any{testStorageKey1, testStorageKey2}},
		},
	}
}

func mustTx(t *testing.T, data any, opts ...Option) *Transaction {
	t.Helper()
	tx, err := NewTransaction(data, opts...)
	if err != nil {
		t.Fatalf("creating transaction: %v", err)
	}
	return tx
}

func mustSign(t *testing.T, tx *Transaction, key *ecdsa.PrivateKey) *Transaction {
	t.Helper()
	signed, err := tx.Sign(key)
	if err != nil {
		t.Fatalf("signing transaction: %v", err)
	}
	return signed
}

func TestEIP155SigningHash(t *testing.T) {
	tx := mustTx(t, eip155Fields())
	if tx.Type() != LegacyTxType {
		t.Fatalf("wrong type %v", tx.Type())
	}
	if have := tx.Hex(); have != eip155Unsigned {
		t.Errorf("unsigned encoding mismatch:\nhave %s\nwant %s", have, eip155Unsigned)
	}
	if have := tx.MessageToSign(false); have != eip155SignHash {
		t.Errorf("signing hash mismatch: have %x, want %x", have, eip155SignHash)
	}
	if !tx.Protected() {
		t.Error("unsigned legacy transaction not replay protected")
	}
}

func TestEIP155Signing(t *testing.T) {
	tx := mustTx(t, eip155Fields())
	signed := mustSign(t, tx, eip155Key)
	if have := signed.Hex(); have != eip155Signed {
		t.Errorf("signed encoding mismatch:\nhave %s\nwant %s", have, eip155Signed)
	}
	if v := signed.Raw()[FieldV]; v != "0x25" {
		t.Errorf("wrong v: have %v, want 0x25", v)
	}
	from, err := signed.Sender()
	if err != nil {
		t.Fatal(err)
	}
	if from != eip155Sender {
		t.Errorf("sender mismatch: have %s, want %s", from, eip155Sender)
	}
}

func TestEIP155Decode(t *testing.T) {
	tx := mustTx(t, eip155Signed)
	if !tx.IsSigned() || !tx.Protected() {
		t.Fatalf("decoded tx: signed=%v protected=%v", tx.IsSigned(), tx.Protected())
	}
	if tx.ChainID().Cmp(big.NewInt(1)) != 0 || tx.Chain() != "mainnet" {
		t.Errorf("wrong chain %v (%s)", tx.ChainID(), tx.Chain())
	}
	if tx.Nonce() != 9 || tx.Gas() != 21000 {
		t.Errorf("wrong nonce/gas: %d %d", tx.Nonce(), tx.Gas())
	}
	from, err := tx.Sender()
	if err != nil {
		t.Fatal(err)
	}
	if from != eip155Sender {
		t.Errorf("sender mismatch: have %s, want %s", from, eip155Sender)
	}
	hash, err := tx.Hash()
	if err != nil {
		t.Fatal(err)
	}
	if want := crypto.Keccak256Hash(common.FromHex(eip155Signed)); hash != want {
		t.Errorf("hash mismatch: have %x, want %x", hash, want)
	}
	if tx.Hex() != eip155Signed {
		t.Errorf("re-encoding mismatch: %s", tx.Hex())
	}
	if !tx.Equal(mustTx(t, eip155Fields())) {
		t.Error("decoded transaction not equal to its unsigned source")
	}
	// Declaring another chain conflicts with the chain id in v.
	if _, err := NewTransaction(eip155Signed, WithChain("goerli")); !errors.Is(err, ErrChainMismatch) {
		t.Errorf("expected ErrChainMismatch, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := map[string]map[string]any{
		"legacy":     legacyFields(),
		"accessList": accessListFields(),
		"dynamicFee": dynamicFeeFields(),
	}
	for name, fields := range inputs {
		t.Run(name, func(t *testing.T) {
			tx := mustTx(t, fields)
			for _, tx := range []*Transaction{tx, mustSign(t, tx, testKey1)} {
				dec := mustTx(t, tx.Hex())
				if !reflect.DeepEqual(dec.Raw(), tx.Raw()) {
					t.Fatalf("raw mismatch:\nhave %s\nwant %s", spew.Sdump(dec.Raw()), spew.Sdump(tx.Raw()))
				}
				if !dec.sameEncoding(tx) {
					t.Fatalf("encoding mismatch: %s != %s", dec.Hex(), tx.Hex())
				}
				if dec.Type() != tx.Type() || dec.ChainID().Cmp(tx.ChainID()) != 0 {
					t.Fatalf("type/chain mismatch: %v/%v != %v/%v", dec.Type(), dec.ChainID(), tx.Type(), tx.ChainID())
				}
				// The positional form round trips as well when complete.
				list := make([]any, 0, len(tx.Type().Fields()))
				raw := tx.Raw()
				for _, f := range tx.Type().Fields() {
					list = append(list, raw[f])
				}
				if tx.IsSigned() || tx.Type() != LegacyTxType {
					fromList := mustTx(t, list, WithChain(tx.Chain()))
					if !fromList.sameEncoding(tx) {
						t.Fatalf("list encoding mismatch: %s != %s", fromList.Hex(), tx.Hex())
					}
				}
			}
		})
	}
}

func TestRawFieldSet(t *testing.T) {
	for _, fields := range []map[string]any{legacyFields(), accessListFields(), dynamicFeeFields()} {
		tx := mustTx(t, fields)
		raw := tx.Raw()
		want := tx.Type().Fields()
		if len(raw) != len(want) {
			t.Fatalf("%s: have %d fields, want %d", tx.Type(), len(raw), len(want))
		}
		for _, f := range want {
			if _, ok := raw[f]; !ok {
				t.Errorf("%s: missing field %s", tx.Type(), f)
			}
		}
	}
}

func TestListLength(t *testing.T) {
	legacy := []any{"", "0x01", "0x5208", testTo, "", "", "", "", ""}
	accessList := []any{"0x01", "", "0x01", "0x5208", testTo, "", "", []any{}, "", "", ""}
	dynamicFee := []any{"0x01", "", "0x01", "0x02", "0x5208", testTo, "", "", []any{}, "", "", ""}

	for want, list := range map[TxType][]any{
		LegacyTxType:     legacy,
		AccessListTxType: accessList,
		DynamicFeeTxType: dynamicFee,
	} {
		tx, err := NewTransactionFromList(list)
		if err != nil {
			t.Fatalf("%d fields: %v", len(list), err)
		}
		if tx.Type() != want {
			t.Errorf("%d fields: have type %v, want %v", len(list), tx.Type(), want)
		}
	}
	for _, n := range []int{0, 8, 10, 13} {
		if _, err := NewTransactionFromList(make([]any, n)); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("%d fields: expected ErrInvalidLength, got %v", n, err)
		}
	}
	if _, err := NewTransactionFromList(legacy, WithType(DynamicFeeTxType)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestTypeInference(t *testing.T) {
	tests := []struct {
		fields map[string]any
		hint   *TxType
		want   TxType
		err    error
	}{
		{fields: map[string]any{FieldGasPrice: 1}, want: LegacyTxType},
		{fields: map[string]any{FieldGasPrice: 1, FieldAccessList: []any{}}, want: AccessListTxType},
		{fields: map[string]any{FieldGasPrice: 1, FieldYParity: 0}, want: AccessListTxType},
		{fields: map[string]any{FieldMaxFeePerGas: 1}, want: DynamicFeeTxType},
		{fields: map[string]any{FieldMaxPriorityFeePerGas: 1, FieldAccessList: []any{}}, want: DynamicFeeTxType},
		// accessList alone leaves two candidates, table order decides
		{fields: map[string]any{FieldAccessList: []any{}}, want: AccessListTxType},
		{fields: map[string]any{FieldMaxFeePerGas: 1, FieldGasPrice: 1}, err: ErrTypeMismatch},
		{fields: map[string]any{FieldGasPrice: 1}, hint: ptr(DynamicFeeTxType), err: ErrTypeMismatch},
		{fields: map[string]any{FieldGasPrice: 1}, hint: ptr(AccessListTxType), want: AccessListTxType},
		{fields: map[string]any{FieldMaxFeePerGas: 1}, hint: ptr(LegacyTxType), err: ErrTypeMismatch},
	}
	for i, tt := range tests {
		o := &txOptions{}
		if tt.hint != nil {
			WithType(*tt.hint)(o)
		}
		have, err := inferType(tt.fields, o)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("test %d: expected %v, got %v", i, tt.err, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("test %d: unexpected error %v", i, err)
			continue
		}
		if have != tt.want {
			t.Errorf("test %d: have %v, want %v", i, have, tt.want)
		}
	}
}

func ptr[T any](v T) *T { return &v }

func TestUnknownField(t *testing.T) {
	f := legacyFields()
	f["from"] = testTo
	if _, err := NewTransaction(f); !errors.Is(err, ErrInvalidField) {
		t.Errorf("expected ErrInvalidField, got %v", err)
	}
	f = dynamicFeeFields()
	f[FieldV] = 1
	f[FieldYParity] = 0
	if _, err := NewTransaction(f); !errors.Is(err, ErrInvalidField) {
		t.Errorf("expected ErrInvalidField for v/yParity conflict, got %v", err)
	}
}

func TestChainResolution(t *testing.T) {
	f := legacyFields()
	tx := mustTx(t, f)
	if tx.ChainID().Cmp(big.NewInt(1)) != 0 || tx.Chain() != "mainnet" {
		t.Errorf("default chain: have %v (%s)", tx.ChainID(), tx.Chain())
	}
	tx = mustTx(t, f, WithChain("sepolia"))
	if tx.ChainID().Cmp(big.NewInt(11155111)) != 0 {
		t.Errorf("sepolia chain id: have %v", tx.ChainID())
	}
	f[FieldChainID] = 5
	tx = mustTx(t, f, WithChain("goerli"))
	if tx.Chain() != "goerli" {
		t.Errorf("wrong chain name %q", tx.Chain())
	}
	if _, err := NewTransaction(f, WithChain("mainnet")); !errors.Is(err, ErrChainMismatch) {
		t.Errorf("expected ErrChainMismatch, got %v", err)
	}
	if _, err := NewTransaction(f, WithChain("atlantis")); !errors.Is(err, ErrInvalidField) {
		t.Errorf("expected ErrInvalidField for unknown chain, got %v", err)
	}
	if _, err := NewTransaction(f, WithHardfork("shanghaii")); !errors.Is(err, ErrInvalidField) {
		t.Errorf("expected ErrInvalidField for unknown hardfork, got %v", err)
	}
	f[FieldChainID] = 1337
	tx = mustTx(t, f)
	if tx.Chain() != "" || tx.ChainID().Cmp(big.NewInt(1337)) != 0 {
		t.Errorf("custom chain: have %v (%q)", tx.ChainID(), tx.Chain())
	}
	if _, err := NewTransaction(f, WithChainID(big.NewInt(1338))); !errors.Is(err, ErrChainMismatch) {
		t.Errorf("expected ErrChainMismatch for chain id option, got %v", err)
	}
	delete(f, FieldChainID)
	tx = mustTx(t, f, WithChainID(big.NewInt(1337)))
	if tx.ChainID().Cmp(big.NewInt(1337)) != 0 {
		t.Errorf("chain id option: have %v", tx.ChainID())
	}
	signed, err := tx.Sign(testKey1)
	if err != nil {
		t.Fatal(err)
	}
	if signed.ChainID().Cmp(big.NewInt(1337)) != 0 {
		t.Errorf("signed chain id: have %v", signed.ChainID())
	}
}

func TestLegacyChainIDInV(t *testing.T) {
	// Unsigned legacy list with the chain id in the v slot.
	list := []any{"0x09", "0x04a817c800", "0x5208", "0x3535353535353535353535353535353535353535", "0x0de0b6b3a7640000", "", "0x05", "", ""}
	tx := mustTx(t, list)
	if tx.ChainID().Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("chain id from v slot: have %v, want 5", tx.ChainID())
	}
	if v := tx.Raw()[FieldV]; v != "" {
		t.Errorf("v slot not cleared: %v", v)
	}
	if tx.IsSigned() {
		t.Error("transaction should be unsigned")
	}
	dec := mustTx(t, tx.Bytes())
	if dec.ChainID().Cmp(big.NewInt(5)) != 0 {
		t.Errorf("decoded chain id: have %v, want 5", dec.ChainID())
	}
}

func TestSignatureIdentity(t *testing.T) {
	for _, fields := range []map[string]any{legacyFields(), accessListFields(), dynamicFeeFields(), eip155Fields()} {
		tx := mustTx(t, fields)
		before := tx.Raw()
		for _, key := range []*ecdsa.PrivateKey{testKey1, testKey2, eip155Key} {
			signed := mustSign(t, tx, key)
			if !signed.Equal(tx) || !tx.Equal(signed) {
				t.Errorf("%s: signed transaction not equal to unsigned", tx.Type())
			}
			if !signed.IsSigned() || tx.IsSigned() {
				t.Fatalf("%s: wrong signed state", tx.Type())
			}
		}
		if !reflect.DeepEqual(before, tx.Raw()) {
			t.Errorf("%s: signing mutated the source transaction", tx.Type())
		}
	}
}

func TestRecoveryInverse(t *testing.T) {
	generated, _ := crypto.GenerateKey()
	keys := []*ecdsa.PrivateKey{testKey1, testKey2, eip155Key, generated}
	for _, fork := range []string{"chainstart", "homestead", "spuriousDragon", "berlin", "london", "cancun"} {
		for _, fields := range []map[string]any{legacyFields(), accessListFields(), dynamicFeeFields()} {
			tx := mustTx(t, fields, WithHardfork(fork))
			for _, key := range keys {
				signed := mustSign(t, tx, key)
				from, err := signed.Sender()
				if err != nil {
					t.Fatalf("%s/%s: %v", fork, tx.Type(), err)
				}
				if want := crypto.PubkeyToAddress(key.PublicKey); from != want {
					t.Errorf("%s/%s: sender mismatch: have %s, want %s", fork, tx.Type(), from, want)
				}
				// and after a trip through the wire format
				dec := mustTx(t, signed.Hex(), WithHardfork(fork))
				if from2, err := dec.Sender(); err != nil || from2 != from {
					t.Errorf("%s/%s: decoded sender %s, %v", fork, tx.Type(), from2, err)
				}
			}
		}
	}
	if tx := mustTx(t, legacyFields(), WithHardfork("homestead")); tx.Protected() {
		t.Error("homestead legacy transaction should not be replay protected")
	}
}

func TestKnownSenders(t *testing.T) {
	tx := mustTx(t, dynamicFeeFields())
	for key, want := range map[*ecdsa.PrivateKey]common.Address{testKey1: testAddr1, testKey2: testAddr2} {
		from, err := mustSign(t, tx, key).Sender()
		if err != nil {
			t.Fatal(err)
		}
		if from != want {
			t.Errorf("have %s, want %s", from, want)
		}
	}
}

func TestSigningStateMachine(t *testing.T) {
	tx := mustTx(t, dynamicFeeFields())
	if _, err := tx.Hash(); !errors.Is(err, ErrNotSigned) {
		t.Errorf("Hash: expected ErrNotSigned, got %v", err)
	}
	if _, err := tx.RecoverPublicKey(); !errors.Is(err, ErrNotSigned) {
		t.Errorf("RecoverPublicKey: expected ErrNotSigned, got %v", err)
	}
	if _, err := tx.Sender(); !errors.Is(err, ErrNotSigned) {
		t.Errorf("Sender: expected ErrNotSigned, got %v", err)
	}
	signed := mustSign(t, tx, testKey1)
	if _, err := signed.Sign(testKey2); !errors.Is(err, ErrAlreadySigned) {
		t.Errorf("expected ErrAlreadySigned, got %v", err)
	}
	hash, err := signed.Hash()
	if err != nil {
		t.Fatal(err)
	}
	if want := crypto.Keccak256Hash(signed.Bytes()); hash != want {
		t.Errorf("hash mismatch: have %x, want %x", hash, want)
	}
}

func TestHighS(t *testing.T) {
	signed := mustSign(t, mustTx(t, dynamicFeeFields()), testKey2)
	raw := signed.Raw()
	n := crypto.S256().Params().N
	s := raw.bigInt(FieldS)
	raw[FieldS] = new(big.Int).Sub(n, s)
	raw[FieldYParity] = 1 - raw.bigInt(FieldYParity).Int64()

	london := mustTx(t, map[string]any(raw), WithHardfork("london"))
	if _, err := london.RecoverPublicKey(); !errors.Is(err, ErrInvalidSig) {
		t.Fatalf("london: expected ErrInvalidSig, got %v", err)
	}
	if _, err := london.Sender(); !errors.Is(err, ErrRecoveryFailed) {
		t.Errorf("london: expected ErrRecoveryFailed, got %v", err)
	}
	chainstart := mustTx(t, map[string]any(raw), WithHardfork("chainstart"))
	from, err := chainstart.Sender()
	if err != nil {
		t.Fatalf("chainstart: %v", err)
	}
	if from != testAddr2 {
		t.Errorf("chainstart: sender mismatch: have %s, want %s", from, testAddr2)
	}
}

func TestInvalidRecoveryID(t *testing.T) {
	signed := mustSign(t, mustTx(t, legacyFields()), testKey1)
	raw := signed.Raw()
	raw[FieldV] = 29 // neither 27/28 nor an EIP-155 value
	tx := mustTx(t, map[string]any(raw))
	if _, err := tx.RecoverPublicKey(); !errors.Is(err, ErrInvalidSig) {
		t.Errorf("expected ErrInvalidSig, got %v", err)
	}
}

func TestSignDeepCopy(t *testing.T) {
	tx := mustTx(t, dynamicFeeFields())
	signed := mustSign(t, tx, testKey1)
	al := signed.Raw()[FieldAccessList].(AccessList)
	al[0].StorageKeys[0] = "0xdead"
	if tx.AccessList()[0].StorageKeys[0] != testStorageKey1 {
		t.Error("signed copy shares access list with the source")
	}
	if signed.AccessList()[0].StorageKeys[0] != testStorageKey1 {
		t.Error("Raw returned an aliased access list")
	}
}

func TestAccessors(t *testing.T) {
	tx := mustTx(t, dynamicFeeFields())
	if _, err := tx.GasPrice(); !errors.Is(err, ErrFieldUnavailable) {
		t.Errorf("expected ErrFieldUnavailable, got %v", err)
	}
	maxFee, err := tx.MaxFeePerGas()
	if err != nil || maxFee.Cmp(big.NewInt(100_000_000_000)) != 0 {
		t.Errorf("MaxFeePerGas: %v %v", maxFee, err)
	}
	tip, err := tx.MaxPriorityFeePerGas()
	if err != nil || tip.Cmp(big.NewInt(1_000_000_000)) != 0 {
		t.Errorf("MaxPriorityFeePerGas: %v %v", tip, err)
	}
	wantFee := new(big.Int).Mul(big.NewInt(100_000_000_000), big.NewInt(30000))
	if tx.Fee().Cmp(wantFee) != 0 {
		t.Errorf("Fee: have %v, want %v", tx.Fee(), wantFee)
	}
	wantCost := new(big.Int).Add(wantFee, big.NewInt(1_000_000_000_000_000_000))
	if tx.UpfrontCost().Cmp(wantCost) != 0 {
		t.Errorf("UpfrontCost: have %v, want %v", tx.UpfrontCost(), wantCost)
	}
	if to := tx.To(); to == nil || *to != common.HexToAddress(testTo) || !common.VerifyChecksum(to.Hex()) {
		t.Errorf("To: have %v", to)
	}
	if tx.Gas() != 30000 || tx.Nonce() != 0 || len(tx.Data()) != 0 {
		t.Errorf("Gas/Nonce/Data: %d %d %x", tx.Gas(), tx.Nonce(), tx.Data())
	}

	legacy := mustTx(t, legacyFields())
	if _, err := legacy.MaxFeePerGas(); !errors.Is(err, ErrFieldUnavailable) {
		t.Errorf("expected ErrFieldUnavailable, got %v", err)
	}
	if gp, err := legacy.GasPrice(); err != nil || gp.Cmp(big.NewInt(1_000_000_000)) != 0 {
		t.Errorf("GasPrice: %v %v", gp, err)
	}
	if legacy.AccessList() != nil {
		t.Error("legacy transaction has an access list")
	}
	f := legacyFields()
	delete(f, FieldTo)
	create := mustTx(t, f)
	if create.To() != nil {
		t.Error("contract creation has a recipient")
	}
	addr, ok := mustSign(t, create, testKey1).ContractAddress()
	if !ok || addr != crypto.CreateAddress(testAddr1, 3) {
		t.Errorf("ContractAddress: %s %v", addr, ok)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		input any
		err   error
	}{
		{"0x", ErrDecode},
		{"0xc0", ErrDecode},
		{"0x02c0", ErrDecode},
		{"zz", ErrDecode},
		{"0x03c3010203", ErrTxTypeNotSupported},
		{[]byte{0x02, 0xc3, 0x01, 0x02, 0x03}, ErrInvalidLength},
		{"0xc9010203040506070809", ErrInvalidField}, // 1 byte recipient
		{"0x" + eip155Signed[4:], ErrDecode},
	}
	for i, tt := range tests {
		if _, err := NewTransaction(tt.input); !errors.Is(err, tt.err) {
			t.Errorf("test %d: expected %v, got %v", i, tt.err, err)
		}
	}
	if _, err := NewTransaction(eip155Signed, WithType(DynamicFeeTxType)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestJSON(t *testing.T) {
	for _, fields := range []map[string]any{legacyFields(), accessListFields(), dynamicFeeFields()} {
		tx := mustTx(t, fields, WithHardfork("cancun"))
		for _, tx := range []*Transaction{tx, mustSign(t, tx, testKey2)} {
			enc, err := json.Marshal(tx)
			if err != nil {
				t.Fatal(err)
			}
			var dec Transaction
			if err := json.Unmarshal(enc, &dec); err != nil {
				t.Fatalf("%s: %v\n%s", tx.Type(), err, enc)
			}
			if !dec.sameEncoding(tx) || dec.Hardfork() != tx.Hardfork() {
				t.Errorf("%s: JSON round trip mismatch:\n%s\n%s", tx.Type(), dec.Hex(), tx.Hex())
			}
		}
	}
}

func TestJSONHashMismatch(t *testing.T) {
	signed := mustSign(t, mustTx(t, dynamicFeeFields()), testKey1)
	enc, err := json.Marshal(signed)
	if err != nil {
		t.Fatal(err)
	}
	var obj map[string]any
	if err := json.Unmarshal(enc, &obj); err != nil {
		t.Fatal(err)
	}
	obj["hash"] = common.Hash{1}.Hex()
	if enc, err = json.Marshal(obj); err != nil {
		t.Fatal(err)
	}
	var dec Transaction
	if err := json.Unmarshal(enc, &dec); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}
