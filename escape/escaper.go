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

// Package escape implements the outbound connection layer: escapers open
// the actual socket toward (or through) an upstream, after a route has
// picked which escaper a given destination uses.
package escape

import (
	"context"
	"io"
	"net"
	"strconv"
)

// Node is a destination address plus the port, the minimal addressing
// unit every Escaper.Setup call resolves against.
type Node struct {
	Host string
	Port uint16
}

func (n Node) String() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(int(n.Port)))
}

// ReadWriteCloser is the established outbound channel handed back to the
// task/relay layer.
type ReadWriteCloser = io.ReadWriteCloser

// Kind is the closed set of escaper backends spec.md §4.8 names. Modeled
// as a closed tagged variant - one concrete struct per kind plus a Kind
// tag - the same pattern the teacher's certificates package uses (one
// struct per certificate kind behind a shared interface).
type Kind int

const (
	KindDirect Kind = iota
	KindProxyHTTP
	KindProxyHTTPS
	KindProxySOCKS5
	KindProxyFloat
)

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindProxyHTTP:
		return "proxy_http"
	case KindProxyHTTPS:
		return "proxy_https"
	case KindProxySOCKS5:
		return "proxy_socks5"
	case KindProxyFloat:
		return "proxy_float"
	default:
		return "unknown"
	}
}

// Escaper is the capability set spec.md §9 describes: a generic Setup
// plus the two forward-proxy specializations and a UDP associate path.
type Escaper interface {
	Kind() Kind
	Setup(ctx context.Context, host Node) (ReadWriteCloser, error)
	NewHTTPForwardConnection(ctx context.Context, host Node) (ReadWriteCloser, error)
	NewHTTPSForwardConnection(ctx context.Context, host Node) (ReadWriteCloser, error)
	UDPSetupConnection(ctx context.Context, host Node) (net.PacketConn, error)
}
