// Copyright 2018 The go-ethereum Authors
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
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/joho/godotenv"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
	"github.com/sunyihoo/ethtx/cmd/utils"
	"github.com/sunyihoo/ethtx/crypto"
	"github.com/urfave/cli/v2"
)

const (
	privateKeyEnv = "ETHTX_PRIVATE_KEY"
	mnemonicEnv   = "ETHTX_MNEMONIC"
)

var errNoKey = errors.New("no signing key, use --key, --keyfile, --mnemonic or " + privateKeyEnv)

// loadEnvFile reads variables from the .env file without overriding the
// ones already set. A missing file is only an error if it was named
// explicitly.
func loadEnvFile(file string, explicit bool) error {
	if file == "" {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	log.Debug("Loaded environment file", "file", file)
	return nil
}

// signingKey returns the private key selected by the flags, the environment
// or the config file, in this order:
//   - a hex key from --key or ETHTX_PRIVATE_KEY
//   - the key file
//   - a key derived from the mnemonic at the configured path
//
// 按顺序查找签名私钥：命令行/环境变量中的十六进制私钥、私钥文件、助记词派生。
func signingKey(ctx *cli.Context, cfg *utils.KeyConfig) (*ecdsa.PrivateKey, error) {
	if err := loadEnvFile(cfg.EnvFile, ctx.IsSet(utils.EnvFileFlag.Name)); err != nil {
		return nil, err
	}
	hexkey := ctx.String(utils.PrivateKeyFlag.Name)
	if hexkey == "" {
		hexkey = os.Getenv(privateKeyEnv)
	}
	if hexkey != "" {
		key, err := crypto.HexToECDSA(strings.TrimSpace(hexkey))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		return key, nil
	}
	if cfg.KeyFile != "" {
		key, err := crypto.LoadECDSA(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load key file: %w", err)
		}
		return key, nil
	}
	mnemonic := cfg.Mnemonic
	if mnemonic == "" {
		mnemonic = os.Getenv(mnemonicEnv)
	}
	if mnemonic != "" {
		return mnemonicKey(mnemonic, cfg.DerivationPath)
	}
	return nil, errNoKey
}

// mnemonicKey derives the private key at path from a BIP-39 mnemonic.
func mnemonicKey(mnemonic, path string) (*ecdsa.PrivateKey, error) {
	if path == "" {
		path = utils.DefaultHDPath
	}
	wallet, err := hdwallet.NewFromMnemonic(strings.TrimSpace(mnemonic))
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}
	dpath, err := hdwallet.ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid derivation path %q: %w", path, err)
	}
	account, err := wallet.Derive(dpath, false)
	if err != nil {
		return nil, fmt.Errorf("failed to derive account: %w", err)
	}
	key, err := wallet.PrivateKey(account)
	if err != nil {
		return nil, fmt.Errorf("failed to get private key: %w", err)
	}
	// The wallet hands out keys on its own curve instance, so the scalar is
	// parsed again onto ours.
	return crypto.ToECDSA(crypto.FromECDSA(key))
}
