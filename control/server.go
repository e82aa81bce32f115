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

package control

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"sync/atomic"
)

// SocketPath builds the control socket path convention spec.md describes:
// "${control_dir}/${daemonGroup}.sock", or a per-process variant when
// perProcess is true.
func SocketPath(controlDir, daemonGroup string, perProcess bool) string {
	if perProcess {
		return fmt.Sprintf("%s/%s_%d.sock", controlDir, daemonGroup, os.Getpid())
	}
	return fmt.Sprintf("%s/%s.sock", controlDir, daemonGroup)
}

// Server accepts control-plane connections on a Unix domain socket and
// dispatches each framed Request through a Dispatcher.
type Server struct {
	path       string
	dispatcher *Dispatcher

	listener net.Listener
	running  atomic.Bool
	openConn atomic.Int64
}

func NewServer(path string, dispatcher *Dispatcher) *Server {
	return &Server{path: path, dispatcher: dispatcher}
}

// Start listens on the server's socket path and serves connections until
// ctx is canceled or Close is called.
func (s *Server) Start(ctx context.Context) error {
	_ = os.Remove(s.path)

	l, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("control: listen on %s: %w", s.path, err)
	}
	s.listener = l
	s.running.Store(true)

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			s.running.Store(false)
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	s.openConn.Add(1)
	defer s.openConn.Add(-1)
	defer func() { _ = conn.Close() }()

	br := bufio.NewReader(conn)
	for {
		var req Request
		if err := readFrame(br, &req); err != nil {
			return
		}
		resp := s.dispatcher.Dispatch(req)
		if err := writeFrame(conn, resp); err != nil {
			return
		}
	}
}

func (s *Server) IsRunning() bool {
	return s.running.Load()
}

func (s *Server) OpenConnections() int64 {
	return s.openConn.Load()
}

func (s *Server) Close() error {
	s.running.Store(false)
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	_ = os.Remove(s.path)
	return err
}
