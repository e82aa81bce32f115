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
	"net"
	"time"
)

// DirectEscaper dials the destination itself: no intermediate hop.
type DirectEscaper struct {
	DialTimeout time.Duration
}

func (e *DirectEscaper) Kind() Kind { return KindDirect }

func (e *DirectEscaper) Setup(ctx context.Context, host Node) (ReadWriteCloser, error) {
	d := net.Dialer{Timeout: e.dialTimeout()}
	return d.DialContext(ctx, "tcp", host.String())
}

func (e *DirectEscaper) NewHTTPForwardConnection(ctx context.Context, host Node) (ReadWriteCloser, error) {
	return e.Setup(ctx, host)
}

func (e *DirectEscaper) NewHTTPSForwardConnection(ctx context.Context, host Node) (ReadWriteCloser, error) {
	return e.Setup(ctx, host)
}

func (e *DirectEscaper) UDPSetupConnection(ctx context.Context, host Node) (net.PacketConn, error) {
	return net.ListenPacket("udp", ":0")
}

func (e *DirectEscaper) dialTimeout() time.Duration {
	if e.DialTimeout > 0 {
		return e.DialTimeout
	}
	return 10 * time.Second
}
