// Copyright 2015 The go-ethereum Authors
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

package flags

import (
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/urfave/cli/v2"
)

// PathString is a flag.Value holding a file path. The path is expanded when
// it is set, so "~/keys/signer.key" becomes "/home/user/keys/signer.key".
type PathString string

func (s *PathString) String() string { return string(*s) }

func (s *PathString) Set(value string) error {
	*s = PathString(expandPath(value))
	return nil
}

var (
	_ cli.Flag              = (*PathFlag)(nil)
	_ cli.RequiredFlag      = (*PathFlag)(nil)
	_ cli.VisibleFlag       = (*PathFlag)(nil)
	_ cli.DocGenerationFlag = (*PathFlag)(nil)
	_ cli.CategorizableFlag = (*PathFlag)(nil)
)

// PathFlag is a cli.Flag for file arguments such as key files, TOML configs
// and .env files. Home directory and environment references are expanded.
// PathFlag 用于文件路径参数，会展开 ~ 和环境变量。
type PathFlag struct {
	Name string

	Category    string
	DefaultText string
	Usage       string

	Required   bool
	Hidden     bool
	HasBeenSet bool

	Value        PathString
	defaultValue *PathString

	Aliases []string
	EnvVars []string
}

func (f *PathFlag) Names() []string { return append([]string{f.Name}, f.Aliases...) }
func (f *PathFlag) IsSet() bool     { return f.HasBeenSet }
func (f *PathFlag) String() string  { return cli.FlagStringer(f) }

// Apply reads the value from the environment, if present, and registers the
// flag under all of its names.
// Apply 先从环境变量读取值，再将标志注册到 FlagSet。
func (f *PathFlag) Apply(set *flag.FlagSet) error {
	// Every application starts from the declared default, not from the value
	// a previous run parsed into the flag.
	if f.defaultValue == nil {
		def := f.Value
		f.defaultValue = &def
	}
	f.Value = *f.defaultValue
	for _, envVar := range f.EnvVars {
		if value, found := syscall.Getenv(strings.TrimSpace(envVar)); found {
			f.Value.Set(value)
			f.HasBeenSet = true
			break
		}
	}
	eachName(f, func(name string) {
		set.Var(&f.Value, name, f.Usage)
	})
	return nil
}

func (f *PathFlag) IsRequired() bool     { return f.Required }
func (f *PathFlag) IsVisible() bool      { return !f.Hidden }
func (f *PathFlag) GetCategory() string  { return f.Category }
func (f *PathFlag) TakesValue() bool     { return true }
func (f *PathFlag) GetUsage() string     { return f.Usage }
func (f *PathFlag) GetValue() string     { return f.Value.String() }
func (f *PathFlag) GetEnvVars() []string { return f.EnvVars }
func (f *PathFlag) GetDefaultText() string {
	if f.DefaultText != "" {
		return f.DefaultText
	}
	if f.defaultValue != nil {
		return f.defaultValue.String()
	}
	return f.GetValue()
}

var (
	_ cli.Flag              = (*BigFlag)(nil)
	_ cli.RequiredFlag      = (*BigFlag)(nil)
	_ cli.VisibleFlag       = (*BigFlag)(nil)
	_ cli.DocGenerationFlag = (*BigFlag)(nil)
	_ cli.CategorizableFlag = (*BigFlag)(nil)
)

// BigFlag is a command line flag that accepts 256 bit integers in decimal or
// 0x-prefixed hexadecimal syntax, e.g. --chainid 0xaa36a7.
// BigFlag 接受十进制或十六进制表示的 256 位整数。
type BigFlag struct {
	Name string

	Category    string
	DefaultText string
	Usage       string

	Required   bool
	Hidden     bool
	HasBeenSet bool

	Value        *big.Int
	defaultValue *big.Int

	Aliases []string
	EnvVars []string
}

func (f *BigFlag) Names() []string { return append([]string{f.Name}, f.Aliases...) }
func (f *BigFlag) IsSet() bool     { return f.HasBeenSet }
func (f *BigFlag) String() string  { return cli.FlagStringer(f) }

func (f *BigFlag) Apply(set *flag.FlagSet) error {
	// The default is captured once, before the environment or the command
	// line can overwrite the value.
	// 只在第一次应用时保存默认值，之后每次都从默认值开始。
	if f.defaultValue == nil {
		f.defaultValue = new(big.Int)
		if f.Value != nil {
			f.defaultValue.Set(f.Value)
		}
	}
	f.Value = new(big.Int).Set(f.defaultValue)

	for _, envVar := range f.EnvVars {
		envVar = strings.TrimSpace(envVar)
		if value, found := syscall.Getenv(envVar); found {
			n, ok := math.ParseBig256(value)
			if !ok {
				return fmt.Errorf("could not parse %q from environment variable %q for flag %s", value, envVar, f.Name)
			}
			f.Value.Set(n)
			f.HasBeenSet = true
			break
		}
	}
	eachName(f, func(name string) {
		set.Var((*bigValue)(f.Value), name, f.Usage)
	})
	return nil
}

func (f *BigFlag) IsRequired() bool     { return f.Required }
func (f *BigFlag) IsVisible() bool      { return !f.Hidden }
func (f *BigFlag) GetCategory() string  { return f.Category }
func (f *BigFlag) TakesValue() bool     { return true }
func (f *BigFlag) GetUsage() string     { return f.Usage }
func (f *BigFlag) GetValue() string     { return f.Value.String() }
func (f *BigFlag) GetEnvVars() []string { return f.EnvVars }
func (f *BigFlag) GetDefaultText() string {
	if f.DefaultText != "" {
		return f.DefaultText
	}
	if f.defaultValue == nil {
		return ""
	}
	return f.defaultValue.String()
}

// bigValue turns *big.Int into a flag.Value.
type bigValue big.Int

func (b *bigValue) String() string {
	if b == nil {
		return ""
	}
	return (*big.Int)(b).String()
}

func (b *bigValue) Set(s string) error {
	n, ok := math.ParseBig256(s)
	if !ok {
		return errors.New("invalid integer syntax")
	}
	*b = (bigValue)(*n)
	return nil
}

// GlobalBig returns the value of a BigFlag, or nil if the flag is unknown.
// GlobalBig 返回 BigFlag 的当前值。
func GlobalBig(ctx *cli.Context, name string) *big.Int {
	val := ctx.Generic(name)
	if val == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(val.(*bigValue)))
}

// expandPath replaces a leading tilde with the home directory, expands
// environment variables and cleans the result.
// Note, ~someuser/tmp is not expanded.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~\\") {
		if home := HomeDir(); home != "" {
			p = home + p[1:]
		}
	}
	return filepath.Clean(os.ExpandEnv(p))
}

// HomeDir returns the current user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func eachName(f cli.Flag, fn func(string)) {
	for _, name := range f.Names() {
		fn(strings.TrimSpace(name))
	}
}
