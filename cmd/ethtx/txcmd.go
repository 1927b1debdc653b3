// Copyright 2019 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/sunyihoo/ethtx/cmd/utils"
	"github.com/sunyihoo/ethtx/core"
	"github.com/sunyihoo/ethtx/core/types"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var (
	signingHashFlag = &cli.BoolFlag{
		Name:  "signing",
		Usage: "Print the hash that is signed instead of the transaction hash",
	}

	decodeCommand = &cli.Command{
		Action:    decodeTx,
		Name:      "decode",
		Usage:     "Decode serialized transactions into JSON",
		ArgsUsage: "<hex>... (or one per line on stdin)",
		Description: `
The decode command parses legacy, EIP-2930 and EIP-1559 envelopes and prints
their fields, chain and hardfork as JSON.`,
	}
	encodeCommand = &cli.Command{
		Action:    encodeTx,
		Name:      "encode",
		Usage:     "Encode a JSON field map or field list into a serialized transaction",
		ArgsUsage: "<json> (or stdin)",
		Description: `
The encode command accepts a JSON object keyed by field name, such as
{"nonce": 1, "to": "0x...", "maxFeePerGas": "0x..."}, or a JSON array of
positional fields. The transaction type is inferred unless --type is given.`,
	}
	signCommand = &cli.Command{
		Action:    signTx,
		Name:      "sign",
		Usage:     "Sign transactions",
		ArgsUsage: "<hex|json>... (or one per line on stdin)",
		Description: `
The sign command signs every given transaction with the selected key and
prints the signed envelopes in input order.`,
	}
	senderCommand = &cli.Command{
		Action:    senderTx,
		Name:      "sender",
		Usage:     "Recover the sender address of signed transactions",
		ArgsUsage: "<hex>...",
	}
	hashCommand = &cli.Command{
		Action:    hashTx,
		Name:      "hash",
		Usage:     "Print transaction hashes",
		ArgsUsage: "<hex>...",
		Flags:     []cli.Flag{signingHashFlag},
	}
)

// txOptions loads the configuration and converts it to construction options.
func txOptions(ctx *cli.Context) (ethtxConfig, []types.Option, error) {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return cfg, nil, err
	}
	opts, err := utils.TxOptions(&cfg.Tx)
	return cfg, opts, err
}

// parseTx builds a transaction from a hex envelope, a JSON field map, a
// JSON field list or the JSON form printed by decode.
func parseTx(input string, opts []types.Option) (*types.Transaction, error) {
	input = strings.TrimSpace(input)
	switch {
	case strings.HasPrefix(input, "{"):
		var fields map[string]any
		if err := decodeJSON(input, &fields); err != nil {
			return nil, err
		}
		if _, ok := fields["type"]; ok {
			tx := new(types.Transaction)
			if err := json.Unmarshal([]byte(input), tx); err != nil {
				return nil, err
			}
			return tx, nil
		}
		return types.NewTransactionFromMap(fields, opts...)
	case strings.HasPrefix(input, "["):
		var list []any
		if err := decodeJSON(input, &list); err != nil {
			return nil, err
		}
		return types.NewTransactionFromList(list, opts...)
	default:
		return types.NewTransactionFromHex(input, opts...)
	}
}

// decodeJSON decodes numbers as json.Number so that large integers keep
// their precision.
func decodeJSON(input string, v any) error {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON input: %w", err)
	}
	return nil
}

// parseInputs parses every transaction given on the command line or stdin.
func parseInputs(ctx *cli.Context) (ethtxConfig, []*types.Transaction, error) {
	cfg, opts, err := txOptions(ctx)
	if err != nil {
		return cfg, nil, err
	}
	inputs, err := utils.ReadInputs(ctx.Args().Slice(), ctx.App.Reader)
	if err != nil {
		return cfg, nil, err
	}
	if len(inputs) == 0 {
		return cfg, nil, errors.New("no transaction given")
	}
	txs := make([]*types.Transaction, len(inputs))
	for i, input := range inputs {
		if txs[i], err = parseTx(input, opts); err != nil {
			if len(inputs) > 1 {
				err = fmt.Errorf("transaction %d: %w", i, err)
			}
			return cfg, nil, err
		}
	}
	return cfg, txs, nil
}

func decodeTx(ctx *cli.Context) error {
	_, txs, err := parseInputs(ctx)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		out, err := json.MarshalIndent(tx, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, string(out))
	}
	return nil
}

func encodeTx(ctx *cli.Context) error {
	_, opts, err := txOptions(ctx)
	if err != nil {
		return err
	}
	input, err := utils.ReadInput(ctx.Args().Slice(), ctx.App.Reader)
	if err != nil {
		return err
	}
	tx, err := parseTx(input, opts)
	if err != nil {
		return err
	}
	log.Debug("Encoded transaction", "type", tx.Type(), "chain", tx.ChainID(), "size", len(tx.Bytes()))
	fmt.Fprintln(ctx.App.Writer, tx.Hex())
	return nil
}

func signTx(ctx *cli.Context) error {
	cfg, txs, err := parseInputs(ctx)
	if err != nil {
		return err
	}
	key, err := signingKey(ctx, &cfg.Keys)
	if err != nil {
		return err
	}
	signed, err := signAll(ctx.Context, txs, key)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	for _, tx := range signed {
		fmt.Fprintln(&out, tx.Hex())
	}
	_, err = ctx.App.Writer.Write(out.Bytes())
	return err
}

// signAll signs txs concurrently and returns the results in input order.
// It stops at the first failure.
// signAll 并发签名多笔交易，结果按输入顺序返回。
func signAll(ctx context.Context, txs []*types.Transaction, key *ecdsa.PrivateKey) ([]*types.Transaction, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	signed := make([]*types.Transaction, len(txs))
	for i, tx := range txs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := tx.Sign(key)
			if err != nil {
				return fmt.Errorf("transaction %d: %w", i, err)
			}
			signed[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return signed, nil
}

func senderTx(ctx *cli.Context) error {
	_, txs, err := parseInputs(ctx)
	if err != nil {
		return err
	}
	// Recover ahead on all cores; Sender below picks up the cached results.
	cacher := core.NewSenderCacher(runtime.NumCPU())
	defer cacher.Close()
	cacher.Recover(txs)

	for _, tx := range txs {
		from, err := tx.Sender()
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, from.Hex())
	}
	return nil
}

func hashTx(ctx *cli.Context) error {
	_, txs, err := parseInputs(ctx)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		if ctx.Bool(signingHashFlag.Name) {
			fmt.Fprintln(ctx.App.Writer, tx.MessageToSign(false).Hex())
			continue
		}
		h, err := tx.Hash()
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, h.Hex())
	}
	return nil
}
