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

package escape

import (
	"net"
	"sync"
	"time"
)

const defaultPoolEntryTTL = 30 * time.Second

type poolEntry struct {
	conn          net.Conn
	expireInstant time.Time
}

// ConnPool is a per-destination LIFO pool of already-connected upstream
// proxy sockets, keyed by the caller's own (proxy, upstream, userBound)
// string, generalizing the teacher's socket/client/tcp pooling idiom
// (documented by its test suite's accept/close/pool lifecycle) to a LIFO
// stack guarded by a mutex + slice.
type ConnPool struct {
	mu      sync.Mutex
	entries map[string][]poolEntry
	ttl     time.Duration
}

func NewConnPool() *ConnPool {
	return &ConnPool{entries: make(map[string][]poolEntry), ttl: defaultPoolEntryTTL}
}

// Push returns a connection to the pool's LIFO stack for key.
func (p *ConnPool) Push(key string, conn net.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[key] = append(p.entries[key], poolEntry{conn: conn, expireInstant: time.Now().Add(p.ttl)})
}

// Pop pops the most recently pushed, still-live connection for key,
// discarding any expired entries it finds along the way.
func (p *ConnPool) Pop(key string) (net.Conn, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stack := p.entries[key]
	now := time.Now()
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if now.Before(top.expireInstant) {
			p.entries[key] = stack
			return top.conn, true
		}
		_ = top.conn.Close()
	}
	p.entries[key] = stack
	return nil, false
}
