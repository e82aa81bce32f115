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
	"sync"

	libatm "github.com/nabbar/g3proxy/atomic"
)

// QuitPolicy is the shared, process-lifetime shutdown signal every task
// selects on cooperatively. Graceful shutdown closes Quit(); force shutdown
// additionally flips ForceQuit, observed by the relay's idle-check tick.
type QuitPolicy struct {
	once  sync.Once
	quit  chan struct{}
	force libatm.Value[bool]
}

func NewQuitPolicy() *QuitPolicy {
	return &QuitPolicy{
		quit:  make(chan struct{}),
		force: libatm.NewValue[bool](),
	}
}

// Quit returns the channel tasks select on; it is closed exactly once by
// RequestQuit, broadcasting to every waiter simultaneously.
func (p *QuitPolicy) Quit() <-chan struct{} {
	return p.quit
}

// RequestQuit broadcasts QuitRuntime. Every task selecting on Quit() at its
// next await point transitions to Finished(CanceledAsServerQuit).
func (p *QuitPolicy) RequestQuit() {
	p.once.Do(func() {
		close(p.quit)
	})
}

// Force sets the force_quit flag, checked on every idle tick by tasks
// still in flight after the graceful shutdown grace period elapses.
func (p *QuitPolicy) Force() {
	p.force.Store(true)
}

func (p *QuitPolicy) IsForced() bool {
	return p.force.Load()
}
