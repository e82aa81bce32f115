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
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	liberr "github.com/nabbar/g3proxy/errors"
)

const codeProxyConnectFailed = liberr.MinPkgEscape + iota

func errProxyConnectFailed(parent error) liberr.Error {
	return liberr.New(codeProxyConnectFailed, "upstream proxy CONNECT failed", parent)
}

// HTTPForwardEscaper routes every connection through a fixed upstream HTTP
// forward proxy, issuing CONNECT for the actual destination. A LIFO pool
// of already-CONNECTed sockets is reused per (proxy, destination) pair.
type HTTPForwardEscaper struct {
	Proxy   Node
	TLS     bool
	pool    *ConnPool
}

func NewHTTPForwardEscaper(proxy Node, tlsProxy bool) *HTTPForwardEscaper {
	return &HTTPForwardEscaper{Proxy: proxy, TLS: tlsProxy, pool: NewConnPool()}
}

func (e *HTTPForwardEscaper) Kind() Kind {
	if e.TLS {
		return KindProxyHTTPS
	}
	return KindProxyHTTP
}

func (e *HTTPForwardEscaper) Setup(ctx context.Context, host Node) (ReadWriteCloser, error) {
	key := e.Proxy.String() + "|" + host.String()
	if conn, ok := e.pool.Pop(key); ok {
		return conn, nil
	}

	d := net.Dialer{Timeout: 10 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", e.Proxy.String())
	if err != nil {
		return nil, errProxyConnectFailed(err)
	}

	req := fmt.Sprintf("CONNECT %s HTTP/1.1\r\nHost: %s\r\n\r\n", host.String(), host.String())
	if _, err := conn.Write([]byte(req)); err != nil {
		_ = conn.Close()
		return nil, errProxyConnectFailed(err)
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, &http.Request{Method: "CONNECT"})
	if err != nil {
		_ = conn.Close()
		return nil, errProxyConnectFailed(err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = conn.Close()
		return nil, errProxyConnectFailed(fmt.Errorf("upstream proxy returned %d", resp.StatusCode))
	}

	return &pooledEscaperConn{Conn: conn, pool: e.pool, key: key}, nil
}

func (e *HTTPForwardEscaper) NewHTTPForwardConnection(ctx context.Context, host Node) (ReadWriteCloser, error) {
	return e.Setup(ctx, host)
}

func (e *HTTPForwardEscaper) NewHTTPSForwardConnection(ctx context.Context, host Node) (ReadWriteCloser, error) {
	return e.Setup(ctx, host)
}

func (e *HTTPForwardEscaper) UDPSetupConnection(ctx context.Context, host Node) (net.PacketConn, error) {
	return nil, errProxyConnectFailed(fmt.Errorf("proxy_http escaper has no UDP associate path"))
}

// pooledEscaperConn returns itself to the escaper's pool on Close instead
// of tearing the TCP connection down, so a follow-up request to the same
// (proxy, destination) pair can reuse it.
type pooledEscaperConn struct {
	net.Conn
	pool *ConnPool
	key  string
}

func (c *pooledEscaperConn) Close() error {
	c.pool.Push(c.key, c.Conn)
	return nil
}
