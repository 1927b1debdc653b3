// Copyright 2022 The go-ethereum Authors
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

package version

import (
	"runtime/debug"
	"time"
)

// Set with -ldflags "-X github.com/sunyihoo/ethtx/internal/version.gitCommit=<hash>"
// when the binary is built outside of a git checkout.
// 在没有 git 信息的构建中，通过链接器参数注入。
var gitCommit, gitDate string

// VCSInfo describes the source revision a binary was built from.
type VCSInfo struct {
	Commit string // full commit hash
	Date   string // commit date, YYYYMMDD
	Dirty  bool   // the work tree had local modifications
}

// VCS returns the revision embedded by the linker or, failing that, by the
// go tool. ok is false for builds of other modules that import this one.
func VCS() (info VCSInfo, ok bool) {
	if gitCommit != "" {
		return VCSInfo{Commit: gitCommit, Date: gitDate}, true
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Path != ourPath {
		return VCSInfo{}, false
	}
	return buildInfoVCS(bi)
}

// buildInfoVCS extracts the vcs.* settings recorded by go build.
// 从 go build 记录的 vcs.* 设置中读取版本信息。
func buildInfoVCS(bi *debug.BuildInfo) (VCSInfo, bool) {
	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}
	info := VCSInfo{
		Commit: settings["vcs.revision"],
		Dirty:  settings["vcs.modified"] == "true",
	}
	if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
		info.Date = t.UTC().Format("20060102")
	}
	return info, info.Commit != "" && info.Date != ""
}
