package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunyihoo/ethtx/common"
	"github.com/sunyihoo/ethtx/core/types"
	"github.com/sunyihoo/ethtx/crypto"
	"github.com/urfave/cli/v2"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// The example transaction of EIP-155.
const (
	eip155Key      = "4646464646464646464646464646464646464646464646464646464646464646"
	eip155Sender   = "0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F"
	eip155SignHash = "0xdaf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53"
	eip155Unsigned = "0xec098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a764000080018080"
	eip155Signed   = "0xf86c098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a76400008025a028ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa636276a067cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83"

	testKey1  = "0000000000000000000000000000000000000000000000000000000000000001"
	testAddr1 = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

// runEthtx runs the application in-process with the given stdin.
func runEthtx(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(stdin)
	app.ExitErrHandler = func(*cli.Context, error) {}

	// Keep the tests independent of any .env file in the working directory.
	args = append([]string{"ethtx", "--envfile", ""}, args...)
	err := app.Run(args)
	return runResult{stdout.String(), stderr.String(), err}
}

// unsetenv removes an environment variable for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	fields := `{"nonce": 9, "gasPrice": "20000000000", "gasLimit": 21000,
		"to": "0x3535353535353535353535353535353535353535",
		"value": "1000000000000000000", "chainId": 1}`
	res := runEthtx(t, "", "encode", fields)
	require.NoError(t, res.err)
	require.Equal(t, eip155Unsigned, strings.TrimSpace(res.stdout))

	res = runEthtx(t, "", "decode", eip155Signed)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, `"nonce": "0x9"`)
	require.Contains(t, res.stdout, `"chain": "mainnet"`)

	// The decoded JSON form encodes back to the same envelope.
	res = runEthtx(t, res.stdout, "encode")
	require.NoError(t, res.err)
	require.Equal(t, eip155Signed, strings.TrimSpace(res.stdout))
}

func TestEncodeList(t *testing.T) {
	list := `["0x09", "0x04a817c800", "0x5208", "0x3535353535353535353535353535353535353535",
		"0x0de0b6b3a7640000", "0x", "0x01", "0x", "0x"]`
	res := runEthtx(t, "", "encode", list)
	require.NoError(t, res.err)
	require.Equal(t, eip155Unsigned, strings.TrimSpace(res.stdout))
}

func TestSignCommand(t *testing.T) {
	res := runEthtx(t, "", "--key", eip155Key, "sign", eip155Unsigned)
	require.NoError(t, res.err)
	require.Equal(t, eip155Signed, strings.TrimSpace(res.stdout))

	res = runEthtx(t, "", "sender", eip155Signed)
	require.NoError(t, res.err)
	require.Equal(t, eip155Sender, strings.TrimSpace(res.stdout))
}

func TestSignStdin(t *testing.T) {
	// Several transactions, one per line, keep their order.
	stdin := eip155Unsigned + "\n\n" + eip155Unsigned + "\n"
	res := runEthtx(t, stdin, "--key", eip155Key, "sign")
	require.NoError(t, res.err)
	require.Equal(t, []string{eip155Signed, eip155Signed}, lines(res.stdout))
}

func TestSignWithoutKey(t *testing.T) {
	unsetenv(t, privateKeyEnv)
	unsetenv(t, mnemonicEnv)
	res := runEthtx(t, "", "sign", eip155Unsigned)
	require.ErrorIs(t, res.err, errNoKey)
}

func TestSignChainMismatch(t *testing.T) {
	res := runEthtx(t, "", "--chain", "sepolia", "--key", eip155Key, "sign", eip155Unsigned)
	require.ErrorIs(t, res.err, types.ErrChainMismatch)
}

func TestHashCommand(t *testing.T) {
	res := runEthtx(t, "", "hash", "--signing", eip155Unsigned)
	require.NoError(t, res.err)
	require.Equal(t, eip155SignHash, strings.TrimSpace(res.stdout))

	res = runEthtx(t, "", "hash", eip155Signed)
	require.NoError(t, res.err)
	want := crypto.Keccak256Hash(common.FromHex(eip155Signed))
	require.Equal(t, want.Hex(), strings.TrimSpace(res.stdout))
}

func TestSignAll(t *testing.T) {
	key, err := crypto.HexToECDSA(testKey1)
	require.NoError(t, err)

	var txs []*types.Transaction
	for nonce := 0; nonce < 16; nonce++ {
		tx, err := types.NewTransactionFromMap(map[string]any{
			types.FieldChainID:              5,
			types.FieldNonce:                nonce,
			types.FieldMaxFeePerGas:         "0x77359400",
			types.FieldMaxPriorityFeePerGas: "0x3b9aca00",
			types.FieldTo:                   eip155Sender,
		})
		require.NoError(t, err)
		txs = append(txs, tx)
	}
	signed, err := signAll(context.Background(), txs, key)
	require.NoError(t, err)
	require.Len(t, signed, len(txs))
	for i, tx := range signed {
		require.Equal(t, uint64(i), tx.Nonce())
		from, err := tx.Sender()
		require.NoError(t, err)
		require.Equal(t, testAddr1, from.Hex())
	}
	// The inputs stay unsigned.
	require.False(t, txs[0].IsSigned())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = signAll(ctx, txs, key)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMnemonicKey(t *testing.T) {
	const mnemonic = "test test test test test test test test test test test junk"

	key, err := mnemonicKey(mnemonic, "")
	require.NoError(t, err)
	require.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", crypto.PubkeyToAddress(key.PublicKey).Hex())

	key, err = mnemonicKey(mnemonic, "m/44'/60'/0'/0/1")
	require.NoError(t, err)
	require.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", crypto.PubkeyToAddress(key.PublicKey).Hex())

	_, err = mnemonicKey("not a mnemonic", "")
	require.Error(t, err)
	_, err = mnemonicKey(mnemonic, "m/x")
	require.Error(t, err)
}

func TestAddressCommand(t *testing.T) {
	res := runEthtx(t, "", "address", "--pubkey", "0x0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	require.NoError(t, res.err)
	require.Equal(t, testAddr1, strings.TrimSpace(res.stdout))

	res = runEthtx(t, "", "--key", testKey1, "address")
	require.NoError(t, res.err)
	require.Equal(t, testAddr1, strings.TrimSpace(res.stdout))

	res = runEthtx(t, "", "address", "--pubkey", "0x0102")
	require.Error(t, res.err)
}

func TestKeySources(t *testing.T) {
	dir := t.TempDir()
	keyfile := filepath.Join(dir, "signer.key")
	require.NoError(t, os.WriteFile(keyfile, []byte(testKey1), 0600))

	res := runEthtx(t, "", "--keyfile", keyfile, "address")
	require.NoError(t, res.err)
	require.Equal(t, testAddr1, strings.TrimSpace(res.stdout))

	// A missing .env file is an error only when it was named.
	res = runEthtx(t, "", "--envfile", filepath.Join(dir, "missing.env"), "--key", testKey1, "address")
	require.Error(t, res.err)

	// The .env file supplies the key when no flag does. Loading it sets the
	// variable in the process environment, so it is removed again right away.
	unsetenv(t, privateKeyEnv)
	envfile := filepath.Join(dir, "signer.env")
	require.NoError(t, os.WriteFile(envfile, []byte(privateKeyEnv+"="+eip155Key+"\n"), 0600))
	res = runEthtx(t, "", "--envfile", envfile, "address")
	os.Unsetenv(privateKeyEnv)
	require.NoError(t, res.err)
	require.Equal(t, eip155Sender, strings.TrimSpace(res.stdout))
}

func TestGenkeyCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "new.key")
	res := runEthtx(t, "", "genkey", file)
	require.NoError(t, res.err)

	key, err := crypto.LoadECDSA(file)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), strings.TrimSpace(res.stdout))

	// An existing key is never overwritten.
	res = runEthtx(t, "", "genkey", file)
	require.Error(t, res.err)
	again, err := crypto.LoadECDSA(file)
	require.NoError(t, err)
	require.Zero(t, key.D.Cmp(again.D))
}

func TestChecksumCommand(t *testing.T) {
	lower := strings.ToLower(testAddr1)
	res := runEthtx(t, "", "checksum", lower)
	require.NoError(t, res.err)
	require.Equal(t, testAddr1, strings.TrimSpace(res.stdout))

	res = runEthtx(t, "", "checksum", "--verify", testAddr1)
	require.NoError(t, res.err)
	require.Equal(t, testAddr1+" true", strings.TrimSpace(res.stdout))

	broken := "0x7e5F4552091A69125d5DfCb7b8C2659029395Bdf"
	res = runEthtx(t, "", "checksum", "--verify", testAddr1, broken)
	require.ErrorIs(t, res.err, errChecksumMismatch)
	require.Equal(t, []string{testAddr1 + " true", broken + " false"}, lines(res.stdout))

	res = runEthtx(t, "", "checksum", "0x1234")
	require.Error(t, res.err)
}

func TestValidateCommand(t *testing.T) {
	input := `{"to": "` + testAddr1 + `", "nonce": 1,
		"value": {"value": "1.5", "unit": "eth"},
		"maxFeePerGas": {"value": 30, "unit": "gwei"},
		"maxPriorityFeePerGas": {"value": 2, "unit": "gwei"}}`
	res := runEthtx(t, "", "validate", input)
	require.NoError(t, res.err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &raw))
	require.Equal(t, "0x14d1120d7b160000", raw["value"])
	require.Equal(t, "0x06fc23ac00", raw["maxFeePerGas"])
	require.Equal(t, "0x5208", raw["gasLimit"])

	// The printed map encodes into a transaction.
	res = runEthtx(t, "", "encode", res.stdout)
	require.NoError(t, res.err)
	require.True(t, strings.HasPrefix(strings.TrimSpace(res.stdout), "0x02"))
}

func TestValidateCommandErrors(t *testing.T) {
	input := `{"to": "` + testAddr1 + `", "nonce": 1, "value": "0", "gasLimit": 100,
		"maxFeePerGas": {"value": 30, "unit": "gwei"},
		"maxPriorityFeePerGas": {"value": 2, "unit": "gwei"}}`
	res := runEthtx(t, "", "validate", input)
	require.EqualError(t, res.err, "1 invalid field(s)")
	require.Equal(t, 1, len(lines(res.stderr)))
	require.True(t, strings.HasPrefix(res.stderr, "gasLimit: "))

	// Every invalid field is listed.
	res = runEthtx(t, "", "validate", `{"to": "0x1234", "nonce": -1}`)
	require.Error(t, res.err)
	for _, field := range []string{"maxFeePerGas", "maxPriorityFeePerGas", "nonce", "to", "value"} {
		require.Contains(t, res.stderr, field+": ")
	}
}

func TestValidateRaw(t *testing.T) {
	res := runEthtx(t, "", "validate", "--raw", eip155Signed)
	require.NoError(t, res.err)
	require.Equal(t, "OK", strings.TrimSpace(res.stdout))
}

func TestHumanizeCommand(t *testing.T) {
	res := runEthtx(t, "", "humanize", eip155Signed)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "mainnet (1)")
	require.Contains(t, res.stdout, "1 eth")
	require.Contains(t, res.stdout, "20 gwei")
	require.Contains(t, res.stdout, eip155Sender)

	res = runEthtx(t, "", "humanize", "--json", eip155Signed)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, `"to": "0x3535353535353535353535353535353535353535"`)
}

func TestDumpConfig(t *testing.T) {
	res := runEthtx(t, "", "--chain", "sepolia", "dumpconfig")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "[Tx]")
	require.Contains(t, res.stdout, `Chain = "sepolia"`)
	require.Contains(t, res.stdout, `Hardfork = "london"`)
	require.NotContains(t, res.stdout, "PrivateKey")

	// The dumped config loads back.
	file := filepath.Join(t.TempDir(), "ethtx.toml")
	require.NoError(t, os.WriteFile(file, []byte(res.stdout), 0644))
	var cfg ethtxConfig
	require.NoError(t, loadConfig(file, &cfg))
	require.Equal(t, "sepolia", cfg.Tx.Chain)
	require.Equal(t, "london", cfg.Tx.Hardfork)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		file := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(file, []byte(content), 0644))
		return file
	}

	file := write("ok.toml", "[Tx]\nChain = \"holesky\"\n\n[Keys]\nPrivateKey = \"01\"\n")
	var cfg ethtxConfig
	require.NoError(t, loadConfig(file, &cfg))
	require.Equal(t, "holesky", cfg.Tx.Chain)

	file = write("bad.toml", "[Tx]\nNetwork = 1\n")
	err := loadConfig(file, &cfg)
	require.ErrorContains(t, err, "field 'Network' is not defined")
	require.ErrorContains(t, err, file)

	// The config file chain applies to decoding.
	file = write("sepolia.toml", "[Tx]\nChain = \"sepolia\"\n")
	res := runEthtx(t, "", "--config", file, "decode", eip155Signed)
	require.ErrorIs(t, res.err, types.ErrChainMismatch)
}

func TestDeprecatedNetworkID(t *testing.T) {
	res := runEthtx(t, "", "--networkid", "11155111", "dumpconfig")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, `Chain = "sepolia"`)
}
