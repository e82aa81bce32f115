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

// Package socket defines the narrow contracts the Socket acceptor
// component implements, shared by every transport-specific server under
// socket/server/*: a Context wrapping one accepted connection and handed
// to a HandlerFunc, and a Server lifecycle every listener kind exposes
// the same way. This package itself carries no transport code - that
// lives in socket/server/tcp and its siblings.
package socket

import (
	"context"
	"net"
)

// Context is the narrow, transport-agnostic surface a HandlerFunc gets
// for one accepted connection: read/write/close plus the two addresses,
// without exposing the concrete net.Conn type underneath.
type Context interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// HandlerFunc processes one accepted connection end to end; it owns the
// connection and is responsible for closing it.
type HandlerFunc func(c Context)

// UpdateConnFunc configures a raw net.Conn before it is wrapped into a
// Context - the seam socket option tuning (keep-alive, buffers, IP
// transparency) hangs off of, mirroring the updateFunc parameter the
// retrieval pack's socket/server/tcp test suite passes to New.
type UpdateConnFunc func(net.Conn)

// Server is the lifecycle every socket/server/* listener exposes.
type Server interface {
	RegisterServer(address string) error
	Listen(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Done() <-chan struct{}
	IsRunning() bool
	IsGone() bool
	OpenConnections() int64
}
