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

// Package tproxy implements the transparent-proxy server: a listener bound
// with Linux's IP_TRANSPARENT socket option, so a kernel policy-routing rule
// can hand it traffic addressed to arbitrary destinations without a NAT
// rewrite. Because IP_TRANSPARENT preserves the original destination
// address/port as the accepted connection's own local address, no
// SO_ORIGINAL_DST lookup (the REDIRECT/NAT-mode mechanism) is needed - the
// original destination is simply conn.LocalAddr().
package tproxy

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	liberr "github.com/nabbar/g3proxy/errors"
	libtsk "github.com/nabbar/g3proxy/task"
)

const (
	codeSockoptFailed = liberr.MinPkgServe + 10 + iota
	codeNotTCPAddr
)

func errSockoptFailed(parent error) liberr.Error {
	return liberr.New(codeSockoptFailed, "setsockopt IP_TRANSPARENT failed", parent)
}

func errNotTCPAddr() liberr.Error {
	return liberr.New(codeNotTCPAddr, "accepted connection's local address is not a *net.TCPAddr")
}

// Config is the transparent listener's bind configuration.
type Config struct {
	// Address is the "host:port" the policy-routed traffic is redirected
	// to locally; it is unrelated to the original destination, which is
	// recovered per-connection from LocalAddr() instead.
	Address string
}

// Listen binds a TCP listener with IP_TRANSPARENT set on the listening
// socket (and, via inheritance, on every socket Accept returns), which is
// what lets the kernel deliver connections whose destination address is
// not one of this host's own addresses.
func Listen(ctx context.Context, cfg Config) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_IP, unix.IP_TRANSPARENT, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	ln, err := lc.Listen(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, errSockoptFailed(err)
	}
	return ln, nil
}

// Serve runs the transparent-proxy accept loop: each accepted connection's
// original destination is its own LocalAddr (IP_TRANSPARENT semantics), so
// it is handed straight to task.RunTask as the Host/Port target, with TLS
// interception left to RunCtx.TLSIntercept exactly as any other listener.
func Serve(ctx context.Context, ln net.Listener, runCtx *libtsk.RunContext) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go serveOne(ctx, conn, runCtx)
	}
}

func serveOne(ctx context.Context, conn net.Conn, runCtx *libtsk.RunContext) {
	target, ok := conn.LocalAddr().(*net.TCPAddr)
	if !ok {
		if runCtx.Log != nil {
			runCtx.Log.Error("transparent proxy accept", errNotTCPAddr())
		}
		_ = conn.Close()
		return
	}

	local := *runCtx
	local.Host = target.IP.String()
	local.Port = uint16(target.Port)

	_ = libtsk.RunTask(ctx, conn, conn.RemoteAddr(), conn.LocalAddr(), &local)
}
