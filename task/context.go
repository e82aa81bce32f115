/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package task

import (
	"net"
	"time"

	"github.com/google/uuid"

	libatm "github.com/nabbar/g3proxy/atomic"
)

// ServerStats is the shared, process-lifetime counter sink a task reports
// into. It is intentionally minimal here: the stat package owns the real
// metric registry and node tagging; Context only needs a narrow surface.
type ServerStats interface {
	IncTaskTotal()
	IncTaskAlive()
	DecTaskAlive()
}

// Context is exclusively owned by the task it belongs to: created on
// accept, mutated only by the owning goroutine, destroyed when the task
// terminates. Byte counters are atomics because the relay engine's read
// and write goroutines update them from different goroutines than the one
// that later reads them for the final log line.
type Context struct {
	ID         uuid.UUID
	PeerAddr   net.Addr
	LocalAddr  net.Addr
	CreatedAt  time.Time
	stage      libatm.Value[Stage]
	clientRead libatm.Value[uint64]
	clientSent libatm.Value[uint64]
	upstrRead  libatm.Value[uint64]
	upstrSent  libatm.Value[uint64]
	Stats      ServerStats
}

func NewContext(peer, local net.Addr, stats ServerStats) *Context {
	c := &Context{
		ID:        uuid.New(),
		PeerAddr:  peer,
		LocalAddr: local,
		CreatedAt: time.Now(),
		Stats:     stats,
	}
	c.stage = libatm.NewValueDefault[Stage](Preparing, Preparing)
	c.clientRead = libatm.NewValue[uint64]()
	c.clientSent = libatm.NewValue[uint64]()
	c.upstrRead = libatm.NewValue[uint64]()
	c.upstrSent = libatm.NewValue[uint64]()

	if stats != nil {
		stats.IncTaskTotal()
		stats.IncTaskAlive()
	}

	return c
}

// Stage returns the current lifecycle stage. Transitions are monotonic:
// SetStage silently refuses to move the task backward or out of Finished.
func (c *Context) Stage() Stage {
	return c.stage.Load()
}

func (c *Context) SetStage(s Stage) {
	if c.stage.Load() == Finished {
		return
	}
	if s < c.stage.Load() {
		return
	}
	c.stage.Store(s)
}

func (c *Context) AddClientRead(n uint64) {
	c.clientRead.Store(c.clientRead.Load() + n)
}

func (c *Context) AddClientSent(n uint64) {
	c.clientSent.Store(c.clientSent.Load() + n)
}

func (c *Context) AddUpstreamRead(n uint64) {
	c.upstrRead.Store(c.upstrRead.Load() + n)
}

func (c *Context) AddUpstreamSent(n uint64) {
	c.upstrSent.Store(c.upstrSent.Load() + n)
}

func (c *Context) Counters() (clientRead, clientSent, upstreamRead, upstreamSent uint64) {
	return c.clientRead.Load(), c.clientSent.Load(), c.upstrRead.Load(), c.upstrSent.Load()
}

// Finish transitions the task to Finished and releases the task_alive
// gauge. Safe to call multiple times; only the first call has effect.
func (c *Context) Finish() {
	if c.stage.Load() == Finished {
		return
	}
	c.stage.Store(Finished)
	if c.Stats != nil {
		c.Stats.DecTaskAlive()
	}
}
