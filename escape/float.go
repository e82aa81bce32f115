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
	"context"
	"fmt"
	"net"
	"sync/atomic"
)

// FloatEscaper rotates through a set of upstream HTTP-forward peers
// (a "floating" pool of egress nodes), picking the next one round-robin
// on every Setup call - the capability spec.md §9 names proxy_float for.
type FloatEscaper struct {
	peers []*HTTPForwardEscaper
	next  atomic.Uint32
}

func NewFloatEscaper(proxies []Node) *FloatEscaper {
	peers := make([]*HTTPForwardEscaper, 0, len(proxies))
	for _, p := range proxies {
		peers = append(peers, NewHTTPForwardEscaper(p, false))
	}
	return &FloatEscaper{peers: peers}
}

func (e *FloatEscaper) Kind() Kind { return KindProxyFloat }

func (e *FloatEscaper) pick() (*HTTPForwardEscaper, error) {
	if len(e.peers) == 0 {
		return nil, fmt.Errorf("proxy_float escaper has no peers configured")
	}
	i := e.next.Add(1) - 1
	return e.peers[int(i)%len(e.peers)], nil
}

func (e *FloatEscaper) Setup(ctx context.Context, host Node) (ReadWriteCloser, error) {
	p, err := e.pick()
	if err != nil {
		return nil, err
	}
	return p.Setup(ctx, host)
}

func (e *FloatEscaper) NewHTTPForwardConnection(ctx context.Context, host Node) (ReadWriteCloser, error) {
	return e.Setup(ctx, host)
}

func (e *FloatEscaper) NewHTTPSForwardConnection(ctx context.Context, host Node) (ReadWriteCloser, error) {
	return e.Setup(ctx, host)
}

func (e *FloatEscaper) UDPSetupConnection(ctx context.Context, host Node) (net.PacketConn, error) {
	p, err := e.pick()
	if err != nil {
		return nil, err
	}
	return p.UDPSetupConnection(ctx, host)
}
