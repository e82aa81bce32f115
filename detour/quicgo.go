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

package detour

import (
	"context"
	"time"

	"github.com/quic-go/quic-go"
)

// quicgoConn adapts a real quic-go connection to detour.Conn. quic-go is
// the only dependency graph in the retrieved corpus that carries QUIC
// (bassosimone-nop's go.mod), so this adapter is the module's sole wire
// binding to it; everything above Conn/Stream stays quic-go-agnostic.
type quicgoConn struct {
	qc quic.Connection
}

func NewQuicGoSession(qc quic.Connection) *Session {
	return NewSession(&quicgoConn{qc: qc})
}

func (c *quicgoConn) OpenStreamSync(ctx context.Context) (Stream, error) {
	st, err := c.qc.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	return &quicgoStream{st: st}, nil
}

type quicgoStream struct {
	st quic.Stream
}

func (s *quicgoStream) Read(p []byte) (int, error)  { return s.st.Read(p) }
func (s *quicgoStream) Write(p []byte) (int, error) { return s.st.Write(p) }
func (s *quicgoStream) Close() error                { return s.st.Close() }

func (s *quicgoStream) SetReadDeadline(t time.Time) error {
	return s.st.SetReadDeadline(t)
}

// CancelClose maps the two spec.md close reasons onto quic-go's
// CancelWrite(code); the reason string itself is recorded in the task log
// at the Open call site, not on the wire, since quic-go's
// ApplicationErrorCode is numeric.
func (s *quicgoStream) CancelClose(reason string) {
	code := quic.StreamErrorCode(0)
	if reason == reasonForceQuit {
		code = quic.StreamErrorCode(1)
	}
	s.st.CancelWrite(code)
}
