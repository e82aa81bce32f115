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

// Package detour implements the QUIC stream-detour client: instead of
// relaying a stream directly to its chosen upstream, the proxy opens a
// pair of QUIC streams on a shared connection to a detour node and relays
// through it, used when the direct path is blocked or degraded.
package detour

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/g3proxy/errors"
	librly "github.com/nabbar/g3proxy/relay"
)

const (
	codeOpenStreamFailed = liberr.MinPkgDetour + iota
	codeHandshakeRejected
)

func errOpenStreamFailed(parent error) liberr.Error {
	return liberr.New(codeOpenStreamFailed, "detour stream open failed", parent)
}

func errHandshakeRejected(reason string) liberr.Error {
	return liberr.New(codeHandshakeRejected, "detour handshake rejected: "+reason)
}

// reasonForceQuit and reasonFinished are the two close reasons a detour
// stream pair is closed with, per spec.md §4.7; the QUIC adapter maps
// these onto quic-go's ApplicationErrorCode/string close API.
const (
	reasonForceQuit = "force-quit"
	reasonFinished  = "finished"
)

// connectionReuseLimit bounds how many substream pairs a single shared
// QUIC connection serves before it is drained and replaced.
const connectionReuseLimit = 128

// Stream is the narrow surface detour needs from a QUIC stream - small
// enough that both the real quic-go adapter (quicgoAdapter, in
// quicgo.go) and a test fake can implement it without pulling in every
// method quic.Stream happens to expose.
type Stream interface {
	io.Reader
	io.Writer
	io.Closer
	SetReadDeadline(time.Time) error
	CancelClose(reason string)
}

// Conn is the narrow surface detour needs from a shared QUIC connection.
type Conn interface {
	OpenStreamSync(ctx context.Context) (Stream, error)
}

// Session wraps one shared QUIC connection to a detour node, handing out
// north/south stream pairs tagged with a match_id for correlation.
type Session struct {
	qc      Conn
	matchID atomic.Uint32
	reuses  atomic.Uint32
}

func NewSession(qc Conn) *Session {
	return &Session{qc: qc}
}

// Exhausted reports whether this session has served its reuse limit and
// should be drained and replaced by the caller's connection pool.
func (s *Session) Exhausted() bool {
	return s.reuses.Load() >= connectionReuseLimit
}

// matchIDOf returns the low 16 bits of the session's per-connection
// counter, the correlation tag spec.md assigns to each substream pair.
func (s *Session) matchIDOf() uint16 {
	return uint16(s.matchID.Add(1) & 0xFFFF)
}

// streamPair is the north (client-facing) and south (upstream-facing)
// QUIC streams opened for one detoured connection.
type streamPair struct {
	north Stream
	south Stream
}

func (s *Session) openPair(ctx context.Context) (*streamPair, uint16, error) {
	north, err := s.qc.OpenStreamSync(ctx)
	if err != nil {
		return nil, 0, errOpenStreamFailed(err)
	}
	south, err := s.qc.OpenStreamSync(ctx)
	if err != nil {
		_ = north.Close()
		return nil, 0, errOpenStreamFailed(err)
	}
	s.reuses.Add(1)
	return &streamPair{north: north, south: south}, s.matchIDOf(), nil
}

// Open detours one client<->upstream connection through a fresh pair of
// QUIC streams: the north leg carries client bytes to the detour node,
// the south leg carries the node's relayed bytes back. Relaying itself
// reuses the relay package's Transit, so the same idle/limit/audit
// machinery governs a detoured connection as a direct one.
func Open(ctx context.Context, sess *Session, clientConn io.ReadWriteCloser, cfg librly.Config, quitCh <-chan struct{}, forced func() bool) error {
	pair, matchID, err := sess.openPair(ctx)
	if err != nil {
		return err
	}
	defer closePair(pair, forced)

	if err := sendHandshake(pair.north, matchID); err != nil {
		return err
	}
	if err := awaitHandshakeAck(pair.south); err != nil {
		return err
	}

	return librly.Transit(clientConn, pair.north, pair.south, clientConn, cfg, quitCh, forced, nil)
}

func closePair(pair *streamPair, forced func() bool) {
	reason := reasonFinished
	if forced != nil && forced() {
		reason = reasonForceQuit
	}
	pair.north.CancelClose(reason)
	pair.south.CancelClose(reason)
	_ = pair.north.Close()
	_ = pair.south.Close()
}

// sendHandshake writes the minimal per-stream-pair header: a 2-byte
// match_id, so the detour node can correlate north and south streams that
// may arrive out of order.
func sendHandshake(north Stream, matchID uint16) error {
	buf := []byte{byte(matchID >> 8), byte(matchID)}
	if _, err := north.Write(buf); err != nil {
		return errOpenStreamFailed(err)
	}
	return nil
}

func awaitHandshakeAck(south Stream) error {
	buf := make([]byte, 1)
	_ = south.SetReadDeadline(time.Now().Add(5 * time.Second))
	n, err := south.Read(buf)
	if err != nil || n != 1 || buf[0] != 0x00 {
		return errHandshakeRejected("no ack from detour node")
	}
	return nil
}
