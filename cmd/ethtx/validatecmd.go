// Copyright 2023 The go-ethereum Authors
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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/sunyihoo/ethtx/cmd/utils"
	"github.com/sunyihoo/ethtx/core/txargs"
	"github.com/sunyihoo/ethtx/core/types"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	rawInputFlag = &cli.BoolFlag{
		Name:  "raw",
		Usage: "Treat the input as a transaction or raw field map and check it against the bounds",
	}
	jsonOutputFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the humanized transaction as JSON",
	}

	validateCommand = &cli.Command{
		Action:    validateTx,
		Name:      "validate",
		Usage:     "Validate human readable transaction parameters",
		ArgsUsage: "<json> (or stdin)",
		Flags:     []cli.Flag{rawInputFlag},
		Description: `
The validate command checks parameters such as
{"to": "0x...", "nonce": 1, "value": {"value": "1.5", "unit": "eth"},
 "maxFeePerGas": {"value": 30, "unit": "gwei"}, "maxPriorityFeePerGas": {"value": 2, "unit": "gwei"}}
against the accepted bounds and prints the raw field map. All invalid fields
are reported together.`,
	}
	humanizeCommand = &cli.Command{
		Action:    humanizeTx,
		Name:      "humanize",
		Usage:     "Print a transaction with amounts in ether and gwei",
		ArgsUsage: "<hex|json>...",
		Flags:     []cli.Flag{jsonOutputFlag},
	}
)

func validateTx(ctx *cli.Context) error {
	input, err := utils.ReadInput(ctx.Args().Slice(), ctx.App.Reader)
	if err != nil {
		return err
	}
	if ctx.Bool(rawInputFlag.Name) {
		_, opts, err := txOptions(ctx)
		if err != nil {
			return err
		}
		tx, err := parseTx(input, opts)
		if err != nil {
			return err
		}
		if err := txargs.ValidateFields(tx.Raw()); err != nil {
			return reportFieldErrors(ctx.App.ErrWriter, err)
		}
		fmt.Fprintln(ctx.App.Writer, "OK")
		return nil
	}

	var h txargs.HumanizedTx
	if err := decodeJSON(input, &h); err != nil {
		return err
	}
	raw, err := txargs.ToRawFields(&h)
	if err != nil {
		return reportFieldErrors(ctx.App.ErrWriter, err)
	}
	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	return nil
}

// reportFieldErrors prints one line per invalid field.
func reportFieldErrors(w io.Writer, err error) error {
	var ferr *txargs.TransactionFieldError
	if !errors.As(err, &ferr) {
		return err
	}
	fields := invalidFields(ferr)
	for _, f := range fields {
		fmt.Fprintf(w, "%s: %s\n", f, ferr.FieldErrors[f])
	}
	return fmt.Errorf("%d invalid field(s)", len(fields))
}

func invalidFields(ferr *txargs.TransactionFieldError) []string {
	fields := make([]string, 0, len(ferr.FieldErrors))
	for f := range ferr.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func humanizeTx(ctx *cli.Context) error {
	_, txs, err := parseInputs(ctx)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		if ctx.Bool(jsonOutputFlag.Name) {
			h, err := txargs.FromRawFields(tx.Raw())
			if err != nil {
				return reportFieldErrors(ctx.App.ErrWriter, err)
			}
			out, err := json.MarshalIndent(h, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, string(out))
			continue
		}
		if err := printHumanized(ctx.App.Writer, tx); err != nil {
			return err
		}
	}
	return nil
}

// printHumanized writes an aligned, human readable summary of tx.
// printHumanized 以人类可读的格式输出交易摘要，金额以 eth/gwei 表示。
func printHumanized(w io.Writer, tx *types.Transaction) error {
	p := message.NewPrinter(language.English)
	row := func(name string, format string, args ...any) {
		p.Fprintf(w, "%-22s "+format+"\n", append([]any{name}, args...)...)
	}
	amount := func(n *big.Int, u txargs.Unit) string {
		s, _ := txargs.FormatUnits(n, u)
		return s + " " + string(u)
	}

	row("type", "%s", tx.Type())
	if name := tx.Chain(); name != "" {
		row("chain", "%s (%d)", name, tx.ChainID().Uint64())
	} else {
		row("chain", "%v", tx.ChainID())
	}
	row("hardfork", "%s", tx.Hardfork())
	row("nonce", "%d", tx.Nonce())
	if to := tx.To(); to != nil {
		row("to", "%s", to.Hex())
	} else {
		row("to", "%s", "contract creation")
	}
	row("value", "%s", amount(tx.Amount(), txargs.Ether))
	row("gas limit", "%d", tx.Gas())
	for _, f := range []struct {
		name string
		get  func() (*big.Int, error)
	}{
		{types.FieldGasPrice, tx.GasPrice},
		{types.FieldMaxFeePerGas, tx.MaxFeePerGas},
		{types.FieldMaxPriorityFeePerGas, tx.MaxPriorityFeePerGas},
	} {
		if v, err := f.get(); err == nil {
			row(f.name, "%s", amount(v, txargs.GWei))
		}
	}
	row("max fee", "%s", amount(tx.Fee(), txargs.Ether))
	row("upfront cost", "%s", amount(tx.UpfrontCost(), txargs.Ether))
	row("data", "%d bytes", len(tx.Data()))
	if al := tx.AccessList(); len(al) > 0 {
		row("access list", "%d addresses, %d storage keys", len(al), al.StorageKeys())
	}
	row("replay protected", "%t", tx.Protected())
	if !tx.IsSigned() {
		row("signed", "%t", false)
	} else {
		from, err := tx.Sender()
		if err != nil {
			return err
		}
		hash, _ := tx.Hash()
		row("from", "%s", from.Hex())
		row("hash", "%s", hash.Hex())
	}
	if err := txargs.ValidateFields(tx.Raw()); err != nil {
		var ferr *txargs.TransactionFieldError
		if errors.As(err, &ferr) {
			for _, f := range invalidFields(ferr) {
				row("warning", "%s: %s", f, ferr.FieldErrors[f])
			}
		}
	}
	fmt.Fprintln(w)
	return nil
}
