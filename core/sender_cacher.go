// Copyright 2018 The go-ethereum Authors
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

// Package core holds helpers that operate on batches of transactions.
package core

import (
	"sync"

	"github.com/sunyihoo/ethtx/core/types"
)

// senderCacherRequest asks for the senders of a slice of transactions to be
// recovered and cached into the transactions themselves.
//
// The inc field defines the number of transactions to skip after each
// recovery, which lets several workers share one input slice while still
// processing the early transactions first.
// inc 字段定义了每次恢复后要跳过的交易数量，使多个工作线程共享同一输入切片。
type senderCacherRequest struct {
	txs []*types.Transaction
	inc int
}

// SenderCacher is a helper structure to concurrently ecrecover transaction
// senders on background goroutines.
// SenderCacher 在后台 goroutine 上并发地恢复并缓存交易发送者。
type SenderCacher struct {
	threads int
	tasks   chan *senderCacherRequest

	workers sync.WaitGroup
	closed  sync.Once
}

// NewSenderCacher creates a sender cacher and starts threads workers.
func NewSenderCacher(threads int) *SenderCacher {
	if threads < 1 {
		threads = 1
	}
	cacher := &SenderCacher{
		tasks:   make(chan *senderCacherRequest, threads),
		threads: threads,
	}
	cacher.workers.Add(threads)
	for i := 0; i < threads; i++ {
		go cacher.cache()
	}
	return cacher
}

// cache runs until the cacher is closed.
func (cacher *SenderCacher) cache() {
	defer cacher.workers.Done()
	for task := range cacher.tasks {
		for i := 0; i < len(task.txs); i += task.inc {
			task.txs[i].Sender()
		}
	}
}

// Recover schedules the sender recovery of txs and returns without waiting.
// Nothing is validated here and invalid or missing signatures are skipped:
// callers still call Sender and get the error there.
// Recover 安排恢复发送者，不等待完成；无效签名留给调用者处理。
func (cacher *SenderCacher) Recover(txs []*types.Transaction) {
	if len(txs) == 0 {
		return
	}
	// Ensure we have meaningful task sizes and schedule the recoveries
	tasks := cacher.threads
	if len(txs) < tasks*4 {
		tasks = (len(txs) + 3) / 4
	}
	for i := 0; i < tasks; i++ {
		cacher.tasks <- &senderCacherRequest{
			txs: txs[i:],
			inc: tasks,
		}
	}
}

// Close waits for the scheduled recoveries and stops the workers. Recover
// must not be called after Close.
func (cacher *SenderCacher) Close() {
	cacher.closed.Do(func() {
		close(cacher.tasks)
		cacher.workers.Wait()
	})
}
