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

package icap

import (
	"net"
	"time"
)

// Dialer is the minimal collaborator Pool needs to create a fresh
// connection on a miss.
type Dialer func() (net.Conn, error)

// pooledConn couples a Connection with the eof-poller that detects a
// peer-initiated close while the connection sits idle in the pool.
type pooledConn struct {
	conn  *Connection
	dead  chan struct{}
}

// Pool is a bounded, idle-connection pool for one ICAP service endpoint:
// the Go equivalent of spec.md's channel-based connection cache, built as
// a buffered channel of idle connections plus one eof-poller goroutine per
// pooled entry.
type Pool struct {
	dial     Dialer
	idle     chan *pooledConn
	idleWait time.Duration
}

func NewPool(dial Dialer, size int, idleWait time.Duration) *Pool {
	if size <= 0 {
		size = 1
	}
	if idleWait <= 0 {
		idleWait = 30 * time.Second
	}
	return &Pool{dial: dial, idle: make(chan *pooledConn, size), idleWait: idleWait}
}

// Get returns a pooled connection if one is alive, otherwise dials fresh.
func (p *Pool) Get() (*Connection, error) {
	for {
		select {
		case pc := <-p.idle:
			select {
			case <-pc.dead:
				continue // peer closed while idle; discard and try the next.
			default:
				return pc.conn, nil
			}
		default:
			c, err := p.dial()
			if err != nil {
				return nil, err
			}
			return NewConnection(c), nil
		}
	}
}

// Put returns conn to the pool, starting its eof-poller. If the pool is
// full the connection is closed instead of blocking the caller.
func (p *Pool) Put(conn *Connection) {
	pc := &pooledConn{conn: conn, dead: make(chan struct{})}
	go p.pollEOF(pc)

	select {
	case p.idle <- pc:
	default:
		close(pc.dead)
		_ = conn.Close()
	}
}

// pollEOF races a zero-byte Read against idleWait: a Read that returns
// (even with err==nil on some platforms for a zero-length buffer) signals
// the peer closed its side, so the entry is marked dead instead of being
// handed back out.
func (p *Pool) pollEOF(pc *pooledConn) {
	buf := make([]byte, 1)
	_ = pc.conn.conn.SetReadDeadline(time.Now().Add(p.idleWait))
	n, err := pc.conn.conn.Read(buf)
	if n == 0 && err != nil {
		close(pc.dead)
	}
}

func (p *Pool) Close() error {
	close(p.idle)
	for pc := range p.idle {
		_ = pc.conn.Close()
	}
	return nil
}
