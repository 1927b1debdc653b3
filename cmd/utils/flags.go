// Copyright 2015 The go-ethereum Authors
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

// Package utils contains internal helper functions for ethtx commands.
package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/sunyihoo/ethtx/core/types"
	"github.com/sunyihoo/ethtx/internal/flags"
	"github.com/sunyihoo/ethtx/params"
	"github.com/urfave/cli/v2"
)

// DefaultHDPath is the BIP-44 path of the first Ethereum account.
const DefaultHDPath = "m/44'/60'/0'/0/0"

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.
//
// The flags are defined here so their names and help texts
// are the same for all commands.

var (
	// Transaction settings
	ConfigFileFlag = &flags.PathFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}
	ChainFlag = &cli.StringFlag{
		Name:     "chain",
		Usage:    "Chain the transaction is meant for (" + strings.Join(params.ChainNames(), "|") + ")",
		Category: flags.TxCategory,
	}
	ChainIDFlag = &flags.BigFlag{
		Name:     "chainid",
		Usage:    "Numeric chain id, for networks without a name",
		Category: flags.TxCategory,
	}
	MainnetFlag = &cli.BoolFlag{
		Name:     "mainnet",
		Usage:    "Ethereum mainnet",
		Category: flags.TxCategory,
	}
	SepoliaFlag = &cli.BoolFlag{
		Name:     "sepolia",
		Usage:    "Sepolia test network",
		Category: flags.TxCategory,
	}
	HoleskyFlag = &cli.BoolFlag{
		Name:     "holesky",
		Usage:    "Holesky test network",
		Category: flags.TxCategory,
	}
	HardforkFlag = &cli.StringFlag{
		Name:     "hardfork",
		Usage:    "Rule set for replay protection and signature checks",
		Category: flags.TxCategory,
	}
	TxTypeFlag = &cli.StringFlag{
		Name:     "type",
		Usage:    "Transaction type (legacy|eip2930|eip1559 or 0|1|2), inferred when empty",
		Category: flags.TxCategory,
	}

	// Key sources
	PrivateKeyFlag = &cli.StringFlag{
		Name:     "key",
		Usage:    "Hex encoded private key",
		EnvVars:  []string{"ETHTX_PRIVATE_KEY"},
		Category: flags.KeyCategory,
	}
	KeyFileFlag = &flags.PathFlag{
		Name:     "keyfile",
		Usage:    "File holding a hex encoded private key",
		Category: flags.KeyCategory,
	}
	MnemonicFlag = &cli.StringFlag{
		Name:     "mnemonic",
		Usage:    "BIP-39 mnemonic to derive the signing key from",
		EnvVars:  []string{"ETHTX_MNEMONIC"},
		Category: flags.KeyCategory,
	}
	HDPathFlag = &cli.StringFlag{
		Name:     "hdpath",
		Usage:    "Derivation path used with --mnemonic",
		Value:    DefaultHDPath,
		Category: flags.KeyCategory,
	}
	EnvFileFlag = &flags.PathFlag{
		Name:     "envfile",
		Usage:    "Optional .env file with ETHTX_PRIVATE_KEY or ETHTX_MNEMONIC",
		Value:    ".env",
		Category: flags.KeyCategory,
	}
)

// NetworkFlags is the flag group of all network presets.
var NetworkFlags = []cli.Flag{MainnetFlag, SepoliaFlag, HoleskyFlag}

// TxFlags is the set of flags that affect transaction construction.
var TxFlags = append([]cli.Flag{
	ChainFlag,
	ChainIDFlag,
	HardforkFlag,
	TxTypeFlag,
}, NetworkFlags...)

// KeyFlags is the set of flags that select the signing key.
var KeyFlags = []cli.Flag{
	PrivateKeyFlag,
	KeyFileFlag,
	MnemonicFlag,
	HDPathFlag,
	EnvFileFlag,
}

// TxConfig holds the transaction construction settings.
// TxConfig 保存构造交易时使用的链、硬分叉和类型设置。
type TxConfig struct {
	Chain    string
	ChainID  *big.Int `toml:",omitempty"`
	Hardfork string
	Type     string `toml:",omitempty"`
}

// KeyConfig holds the key source settings. The private key itself is only
// accepted from flags or the environment, never from the config file.
type KeyConfig struct {
	KeyFile        string `toml:",omitempty"`
	Mnemonic       string `toml:",omitempty"`
	DerivationPath string
	EnvFile        string
}

// DefaultTxConfig contains the default transaction settings. With no chain
// the chain id is taken from the transaction itself, falling back to
// mainnet.
var DefaultTxConfig = TxConfig{
	Hardfork: params.DefaultHardfork,
}

// DefaultKeyConfig contains the default key settings.
var DefaultKeyConfig = KeyConfig{
	DerivationPath: DefaultHDPath,
	EnvFile:        ".env",
}

// SetTxConfig applies transaction related command line flags to the config.
func SetTxConfig(ctx *cli.Context, cfg *TxConfig) {
	CheckExclusive(ctx, MainnetFlag, SepoliaFlag, HoleskyFlag, ChainFlag)
	switch {
	case ctx.IsSet(ChainFlag.Name):
		cfg.Chain = ctx.String(ChainFlag.Name)
	case ctx.Bool(MainnetFlag.Name):
		cfg.Chain = "mainnet"
	case ctx.Bool(SepoliaFlag.Name):
		cfg.Chain = "sepolia"
	case ctx.Bool(HoleskyFlag.Name):
		cfg.Chain = "holesky"
	}
	if ctx.IsSet(ChainIDFlag.Name) {
		cfg.ChainID = flags.GlobalBig(ctx, ChainIDFlag.Name)
		// A numeric chain id replaces the default chain name, but an
		// explicitly chosen name must still agree with it.
		if !ctx.IsSet(ChainFlag.Name) && !ctx.Bool(MainnetFlag.Name) && !ctx.Bool(SepoliaFlag.Name) && !ctx.Bool(HoleskyFlag.Name) {
			cfg.Chain = params.ChainName(cfg.ChainID)
		}
	}
	if ctx.IsSet(HardforkFlag.Name) {
		cfg.Hardfork = ctx.String(HardforkFlag.Name)
	}
	if ctx.IsSet(TxTypeFlag.Name) {
		cfg.Type = ctx.String(TxTypeFlag.Name)
	}
}

// SetKeyConfig applies key related command line flags to the config.
func SetKeyConfig(ctx *cli.Context, cfg *KeyConfig) {
	if ctx.IsSet(KeyFileFlag.Name) {
		cfg.KeyFile = ctx.String(KeyFileFlag.Name)
	}
	if ctx.IsSet(MnemonicFlag.Name) {
		cfg.Mnemonic = ctx.String(MnemonicFlag.Name)
	}
	if ctx.IsSet(HDPathFlag.Name) {
		cfg.DerivationPath = ctx.String(HDPathFlag.Name)
	}
	if ctx.IsSet(EnvFileFlag.Name) {
		cfg.EnvFile = ctx.String(EnvFileFlag.Name)
	}
}

// TxOptions converts the config into transaction construction options.
func TxOptions(cfg *TxConfig) ([]types.Option, error) {
	var opts []types.Option
	if cfg.Chain != "" {
		if _, ok := params.ChainID(cfg.Chain); !ok {
			return nil, fmt.Errorf("unknown chain %q, known chains: %s", cfg.Chain, strings.Join(params.ChainNames(), ", "))
		}
		opts = append(opts, types.WithChain(cfg.Chain))
	}
	if cfg.ChainID != nil {
		opts = append(opts, types.WithChainID(cfg.ChainID))
	}
	if cfg.Hardfork != "" {
		opts = append(opts, types.WithHardfork(cfg.Hardfork))
	}
	if cfg.Type != "" {
		t, err := types.ParseTxType(cfg.Type)
		if err != nil {
			return nil, err
		}
		opts = append(opts, types.WithType(t))
	}
	return opts, nil
}

// CheckExclusive verifies that only a single instance of the provided flags was
// set by the user.
func CheckExclusive(ctx *cli.Context, flags ...cli.Flag) {
	var set []string
	for _, flag := range flags {
		name := flag.Names()[0]
		if ctx.IsSet(name) {
			set = append(set, "--"+name)
		}
	}
	if len(set) > 1 {
		Fatalf("Flags %v can't be used at the same time", strings.Join(set, ", "))
	}
}
