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

// Package config holds the configuration types socket/server/* listeners
// are constructed from - address, optional TLS, and the idle-timeout
// knobs the accept loop enforces on every live connection.
package config

import (
	libdur "github.com/nabbar/g3proxy/duration"
	libtls "github.com/nabbar/g3proxy/certificates"
)

// TLS is the optional TLS termination a listener can be asked to
// perform on accept, before handing the connection to the handler.
type TLS struct {
	Enabled bool
	Config  libtls.Config
}

// Server is the address/transport configuration a single
// socket/server/tcp.Server is built from.
type Server struct {
	// Address is a "host:port" listen address. Empty is invalid.
	Address string

	TLS TLS

	// ConIdleTimeout bounds how long an accepted connection may sit idle
	// (no read progress) before the acceptor closes it; zero disables
	// the timeout.
	ConIdleTimeout libdur.Duration
}
