// Copyright 2020 The go-ethereum Authors
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
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/sunyihoo/ethtx/internal/version"
	"github.com/urfave/cli/v2"
)

// NewApp creates an app with sane defaults.
// NewApp 创建带有默认设置的 cli 应用。
func NewApp(usage string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Version = version.Info()
	app.Usage = usage
	app.Copyright = "Copyright 2013-2025 The go-ethereum Authors"
	return app
}

// EnvName returns the environment variable bound to a flag name,
// e.g. ("ETHTX", "log.file") -> "ETHTX_LOG_FILE".
func EnvName(prefix, name string) string {
	name = strings.NewReplacer(".", "_", "-", "_").Replace(name)
	return strings.ToUpper(prefix + "_" + name)
}

// BindEnvVars binds every flag that has no explicit environment variable to
// the one derived from its first name.
// BindEnvVars 为未声明环境变量的标志自动绑定 PREFIX_NAME 形式的环境变量。
func BindEnvVars(flags []cli.Flag, prefix string) {
	for _, f := range flags {
		env := EnvName(prefix, f.Names()[0])
		switch f := f.(type) {
		case *cli.StringFlag:
			if len(f.EnvVars) == 0 {
				f.EnvVars = []string{env}
			}
		case *cli.IntFlag:
			if len(f.EnvVars) == 0 {
				f.EnvVars = []string{env}
			}
		case *cli.BoolFlag:
			if len(f.EnvVars) == 0 {
				f.EnvVars = []string{env}
			}
		case *PathFlag:
			if len(f.EnvVars) == 0 {
				f.EnvVars = []string{env}
			}
		case *BigFlag:
			if len(f.EnvVars) == 0 {
				f.EnvVars = []string{env}
			}
		}
	}
}

// CheckEnvVars warns about environment variables with the given prefix that
// are not bound to any flag. extra lists variables read outside of flags.
func CheckEnvVars(flags []cli.Flag, prefix string, extra ...string) []string {
	known := make(map[string]bool)
	for _, name := range extra {
		known[name] = true
	}
	for _, f := range flags {
		if ef, ok := f.(cli.DocGenerationFlag); ok {
			for _, env := range ef.GetEnvVars() {
				known[env] = true
			}
		}
	}
	var unknown []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, prefix+"_") && !known[name] {
			log.Warn("Unknown environment variable", "name", name)
			unknown = append(unknown, name)
		}
	}
	return unknown
}
