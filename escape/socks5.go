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
	"encoding/binary"
	"fmt"
	"net"
	"time"
)

// SOCKS5Escaper routes connections through a fixed upstream SOCKS5 proxy
// (RFC 1928), no-auth only - username/password negotiation is out of
// scope here, handled instead by the auth package at the server side.
type SOCKS5Escaper struct {
	Proxy Node
}

func (e *SOCKS5Escaper) Kind() Kind { return KindProxySOCKS5 }

func (e *SOCKS5Escaper) Setup(ctx context.Context, host Node) (ReadWriteCloser, error) {
	d := net.Dialer{Timeout: 10 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", e.Proxy.String())
	if err != nil {
		return nil, errProxyConnectFailed(err)
	}

	if _, err := conn.Write([]byte{0x05, 0x01, 0x00}); err != nil {
		_ = conn.Close()
		return nil, errProxyConnectFailed(err)
	}
	reply := make([]byte, 2)
	if _, err := readFull(conn, reply); err != nil {
		_ = conn.Close()
		return nil, errProxyConnectFailed(err)
	}
	if reply[0] != 0x05 || reply[1] != 0x00 {
		_ = conn.Close()
		return nil, errProxyConnectFailed(fmt.Errorf("socks5 auth negotiation rejected"))
	}

	req := []byte{0x05, 0x01, 0x00, 0x03, byte(len(host.Host))}
	req = append(req, []byte(host.Host)...)
	portBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(portBuf, host.Port)
	req = append(req, portBuf...)
	if _, err := conn.Write(req); err != nil {
		_ = conn.Close()
		return nil, errProxyConnectFailed(err)
	}

	hdr := make([]byte, 4)
	if _, err := readFull(conn, hdr); err != nil {
		_ = conn.Close()
		return nil, errProxyConnectFailed(err)
	}
	if hdr[1] != 0x00 {
		_ = conn.Close()
		return nil, errProxyConnectFailed(fmt.Errorf("socks5 connect failed with reply code %d", hdr[1]))
	}
	if err := discardBoundAddr(conn, hdr[3]); err != nil {
		_ = conn.Close()
		return nil, errProxyConnectFailed(err)
	}

	return conn, nil
}

func (e *SOCKS5Escaper) NewHTTPForwardConnection(ctx context.Context, host Node) (ReadWriteCloser, error) {
	return e.Setup(ctx, host)
}

func (e *SOCKS5Escaper) NewHTTPSForwardConnection(ctx context.Context, host Node) (ReadWriteCloser, error) {
	return e.Setup(ctx, host)
}

func (e *SOCKS5Escaper) UDPSetupConnection(ctx context.Context, host Node) (net.PacketConn, error) {
	return nil, errProxyConnectFailed(fmt.Errorf("socks5 UDP associate not implemented"))
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// discardBoundAddr reads and discards the BND.ADDR/BND.PORT trailer of a
// SOCKS5 reply, whose length depends on the address type byte.
func discardBoundAddr(conn net.Conn, atyp byte) error {
	var n int
	switch atyp {
	case 0x01:
		n = 4 + 2
	case 0x04:
		n = 16 + 2
	case 0x03:
		lenBuf := make([]byte, 1)
		if _, err := readFull(conn, lenBuf); err != nil {
			return err
		}
		n = int(lenBuf[0]) + 2
	default:
		return fmt.Errorf("unknown socks5 address type %d", atyp)
	}
	buf := make([]byte, n)
	_, err := readFull(conn, buf)
	return err
}
