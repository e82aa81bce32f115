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

package tls

import (
	"fmt"

	liberr "github.com/nabbar/g3proxy/errors"
)

// error codes, one per failure kind spec.md §4.4 names, plus the two
// internal parse-failure kinds this module needs ahead of the six named
// ones.
const (
	codeNotHandshakeRecord = liberr.MinPkgTlsIntercept + iota
	codeNotClientHello
	codeInternalOpensslServerError
	codeUpstreamPrepareFailed
	codeUpstreamHandshakeTimeout
	codeUpstreamHandshakeFailed
	codeNoFakeCertGenerated
	codeClientHandshakeFailed
)

func errNotHandshakeRecord() liberr.Error {
	return liberr.New(codeNotHandshakeRecord, "initial record is not a TLS handshake record")
}

func errNotClientHello() liberr.Error {
	return liberr.New(codeNotClientHello, "initial handshake message is not a ClientHello")
}

// NeedMoreClientHello mirrors inspect.NeedMoreData for the one extra
// layer of parsing this package does past protocol classification.
type NeedMoreClientHello int

func (e NeedMoreClientHello) Error() string {
	return fmt.Sprintf("need %d more bytes to parse ClientHello", int(e))
}

func InternalOpensslServerError(parent error) liberr.Error {
	return liberr.New(codeInternalOpensslServerError, "internal TLS server context error", parent)
}

func UpstreamPrepareFailed(parent error) liberr.Error {
	return liberr.New(codeUpstreamPrepareFailed, "upstream TLS dial preparation failed", parent)
}

func UpstreamHandshakeTimeout() liberr.Error {
	return liberr.New(codeUpstreamHandshakeTimeout, "upstream TLS handshake timed out")
}

func UpstreamHandshakeFailed(parent error) liberr.Error {
	return liberr.New(codeUpstreamHandshakeFailed, "upstream TLS handshake failed", parent)
}

func NoFakeCertGenerated(parent error) liberr.Error {
	return liberr.New(codeNoFakeCertGenerated, "no forged certificate could be generated", parent)
}

func ClientHandshakeFailed(parent error) liberr.Error {
	return liberr.New(codeClientHandshakeFailed, "client-facing TLS handshake failed", parent)
}
