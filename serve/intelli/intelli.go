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

// Package intelli implements the intelligent single-port server: one
// listener shared by HTTP, SOCKS5, TLS and raw-TCP clients alike, with no
// up-front protocol selection. The split happens per-connection, inside
// task.RunTask's own classifyInitial step, so this package contributes only
// the plumbing that turns a socket.Server's accepted connections into
// RunTask calls with a fixed upstream target - there is no protocol
// decision left to make here, by design.
package intelli

import (
	"context"
	"net"

	libsck "github.com/nabbar/g3proxy/socket"
	sckcfg "github.com/nabbar/g3proxy/socket/config"
	scktcp "github.com/nabbar/g3proxy/socket/server/tcp"
	libtsk "github.com/nabbar/g3proxy/task"
)

// Config is the intelligent server's bind configuration. Target is the
// fixed default destination used whenever the classified protocol does not
// itself carry a destination (a bare TCP stream with no CONNECT/SOCKS5
// request); protocols that do carry one (HTTP CONNECT, SOCKS5) override it
// per-connection inside the escaper/task layer, not here.
type Config struct {
	Server     sckcfg.Server
	TargetHost string
	TargetPort uint16
}

// Server wraps a socket/server/tcp.Server, dispatching every accepted
// connection straight into task.RunTask without any protocol gate - the
// single point where g3proxy's many single-purpose listeners collapse into
// one intelligent port.
type Server struct {
	tcp    *scktcp.Server
	cfg    Config
	runCtx *libtsk.RunContext
}

// New builds an intelligent Server. runCtx is copied per-connection with
// Host/Port defaulted from cfg.Target*, so callers may leave runCtx.Host
// and runCtx.Port unset and rely on this package's default instead.
func New(cfg Config, runCtx *libtsk.RunContext) (*Server, error) {
	s := &Server{cfg: cfg, runCtx: runCtx}

	tcp, err := scktcp.New(nil, s.handle, cfg.Server)
	if err != nil {
		return nil, err
	}
	s.tcp = tcp
	return s, nil
}

func (s *Server) Listen(ctx context.Context) error {
	return s.tcp.Listen(ctx)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.tcp.Shutdown(ctx)
}

func (s *Server) Done() <-chan struct{} {
	return s.tcp.Done()
}

func (s *Server) handle(c libsck.Context) {
	conn, ok := c.(net.Conn)
	if !ok {
		_ = c.Close()
		return
	}

	local := *s.runCtx
	if local.Host == "" {
		local.Host = s.cfg.TargetHost
	}
	if local.Port == 0 {
		local.Port = s.cfg.TargetPort
	}

	_ = libtsk.RunTask(context.Background(), conn, conn.RemoteAddr(), conn.LocalAddr(), &local)
}
