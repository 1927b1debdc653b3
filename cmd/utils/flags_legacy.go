// Copyright 2020 The go-ethereum Authors
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

package utils

import (
	"github.com/sunyihoo/ethtx/internal/flags"
	"github.com/urfave/cli/v2"
)

// DeprecatedFlags is the list of all deprecated flags.
var DeprecatedFlags = []cli.Flag{
	NetworkIdFlag,
}

var (
	// Deprecated in favour of --chainid, which also takes hex.
	NetworkIdFlag = &cli.Uint64Flag{
		Name:     "networkid",
		Usage:    "Numeric chain id (deprecated, use --chainid)",
		Category: flags.DeprecatedCategory,
	}
)

// MigrateDeprecatedFlags copies the values of deprecated flags to their
// replacements.
func MigrateDeprecatedFlags(ctx *cli.Context) error {
	if ctx.IsSet(NetworkIdFlag.Name) && !ctx.IsSet(ChainIDFlag.Name) {
		if err := ctx.Set(ChainIDFlag.Name, ctx.String(NetworkIdFlag.Name)); err != nil {
			return err
		}
	}
	return nil
}
