// Copyright 2014 The go-ethereum Authors
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

// ethtx is a command-line tool to build, sign, inspect and validate Ethereum
// transactions offline.
package main

import (
	"fmt"
	"os"

	"github.com/sunyihoo/ethtx/cmd/utils"
	"github.com/sunyihoo/ethtx/internal/debug"
	"github.com/sunyihoo/ethtx/internal/flags"
	"github.com/urfave/cli/v2"
)

const clientIdentifier = "ethtx"

// envPrefix is the prefix of environment variables bound to flags.
const envPrefix = "ETHTX"

func newApp() *cli.App {
	app := flags.NewApp("offline Ethereum transaction codec and signer")
	app.Name = clientIdentifier
	app.Commands = []*cli.Command{
		// see txcmd.go
		decodeCommand,
		encodeCommand,
		signCommand,
		senderCommand,
		hashCommand,
		// see validatecmd.go
		validateCommand,
		humanizeCommand,
		// see accountcmd.go
		checksumCommand,
		addressCommand,
		genkeyCommand,
		// see config.go
		dumpConfigCommand,
	}
	app.Flags = append(app.Flags, utils.ConfigFileFlag)
	app.Flags = append(app.Flags, utils.TxFlags...)
	app.Flags = append(app.Flags, utils.KeyFlags...)
	app.Flags = append(app.Flags, utils.DeprecatedFlags...)
	app.Flags = append(app.Flags, debug.Flags...)
	flags.BindEnvVars(app.Flags, envPrefix)

	app.Before = func(ctx *cli.Context) error {
		if err := debug.Setup(ctx); err != nil {
			return err
		}
		flags.CheckEnvVars(app.Flags, envPrefix, privateKeyEnv, mnemonicEnv)
		return utils.MigrateDeprecatedFlags(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
