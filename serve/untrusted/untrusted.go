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

// Package untrusted implements the untrusted-TLS-passthrough server task:
// the path taken when the TLS interception core declines to intercept a
// connection (most commonly a client that pins the upstream's real
// certificate), so the tunnel is relayed opaquely instead of terminated.
// Grounded on the original untrusted-task rule that an unauthenticated
// tunnel is only ever allowed to move a bounded number of bytes before
// being closed.
package untrusted

import (
	"io"
	"net"

	liberr "github.com/nabbar/g3proxy/errors"
	libtsk "github.com/nabbar/g3proxy/task"
)

const codeNotPermitted = liberr.MinPkgServe + iota

func ErrNotPermitted() liberr.Error {
	return liberr.New(codeNotPermitted, "untrusted tunnel not permitted: no read limit configured")
}

// Config bounds what an untrusted (declined-interception) tunnel may do.
type Config struct {
	// ReadLimit caps the number of client->upstream bytes an untrusted
	// tunnel may move before the connection is torn down. Zero or
	// negative refuses the tunnel outright, mirroring the original
	// task's "no auth info permitted, and no read limit configured ->
	// close" rule.
	ReadLimit int64
}

// Run relays one declined-interception connection opaquely between
// client and upstream, without ever terminating the client's TLS
// session - the client negotiated it with the real upstream cert, not a
// forged one, so this proxy cannot see inside it.
func Run(clientConn net.Conn, upstream io.ReadWriteCloser, cfg Config, transit libtsk.TransitFunc, quit <-chan struct{}, forced func() bool) error {
	if cfg.ReadLimit <= 0 {
		_ = clientConn.Close()
		_ = upstream.Close()
		return ErrNotPermitted()
	}

	limitedClientRead := &io.LimitedReader{R: clientConn, N: cfg.ReadLimit}
	return transit(limitedClientRead, clientConn, upstream, upstream, quit, forced)
}
