// Copyright 2016 The go-ethereum Authors
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
	"errors"
	"fmt"
	"os"

	"github.com/sunyihoo/ethtx/common"
	"github.com/sunyihoo/ethtx/crypto"
	"github.com/urfave/cli/v2"
)

var (
	verifyChecksumFlag = &cli.BoolFlag{
		Name:  "verify",
		Usage: "Verify the EIP-55 checksum of the given addresses instead of converting them",
	}
	pubkeyFlag = &cli.StringFlag{
		Name:  "pubkey",
		Usage: "Hex encoded public key (33 or 65 bytes) to derive the address from",
	}

	checksumCommand = &cli.Command{
		Action:    checksumAddresses,
		Name:      "checksum",
		Usage:     "Convert addresses to their EIP-55 checksummed form",
		ArgsUsage: "<address>...",
		Flags:     []cli.Flag{verifyChecksumFlag},
	}
	addressCommand = &cli.Command{
		Action: printAddress,
		Name:   "address",
		Usage:  "Print the address of the signing key or of a public key",
		Flags:  []cli.Flag{pubkeyFlag},
	}
	genkeyCommand = &cli.Command{
		Action:    generateKey,
		Name:      "genkey",
		Usage:     "Generate a new private key",
		ArgsUsage: "<keyfile>",
		Description: `
The genkey command writes a new hex encoded secp256k1 key to the given file,
which must not exist yet, and prints its address.`,
	}
)

var errChecksumMismatch = errors.New("checksum verification failed")

func checksumAddresses(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("no address given")
	}
	var failed bool
	for _, addr := range ctx.Args().Slice() {
		if ctx.Bool(verifyChecksumFlag.Name) {
			ok := common.VerifyChecksum(addr)
			failed = failed || !ok
			fmt.Fprintf(ctx.App.Writer, "%s %t\n", addr, ok)
			continue
		}
		sum, err := common.ToChecksumAddress(addr)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, sum)
	}
	if failed {
		return errChecksumMismatch
	}
	return nil
}

func printAddress(ctx *cli.Context) error {
	if pub := ctx.String(pubkeyFlag.Name); pub != "" {
		addr, err := crypto.PubkeyBytesToAddress(common.FromHex(pub))
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, addr.Hex())
		return nil
	}
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	key, err := signingKey(ctx, &cfg.Keys)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, crypto.PubkeyToAddress(key.PublicKey).Hex())
	return nil
}

func generateKey(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need the key file to write")
	}
	file := ctx.Args().First()
	if _, err := os.Stat(file); err == nil {
		return fmt.Errorf("key file %s already exists", file)
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}
	if err := crypto.SaveECDSA(file, key); err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, crypto.PubkeyToAddress(key.PublicKey).Hex())
	return nil
}
