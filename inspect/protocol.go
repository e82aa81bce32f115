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

// Package inspect implements the protocol-inspection state machine: given a
// bounded initial buffer from a transparent client stream, classify the
// inner protocol up to a bounded recursion depth.
package inspect

import "fmt"

// Protocol is the outcome of classifying a client's first bytes.
type Protocol int

const (
	Unknown Protocol = iota
	Http
	Ssh
	TlsModern
	TlsLegacy
	TlsTlcp
	SslLegacy
	Smtp
	Imap
	Mqtt
	Stomp
	Smpp
	BitTorrent
	Rtmp
	Rtsp
)

func (p Protocol) String() string {
	switch p {
	case Http:
		return "Http"
	case Ssh:
		return "Ssh"
	case TlsModern:
		return "TlsModern"
	case TlsLegacy:
		return "TlsLegacy"
	case TlsTlcp:
		return "TlsTlcp"
	case SslLegacy:
		return "SslLegacy"
	case Smtp:
		return "Smtp"
	case Imap:
		return "Imap"
	case Mqtt:
		return "Mqtt"
	case Stomp:
		return "Stomp"
	case Smpp:
		return "Smpp"
	case BitTorrent:
		return "BitTorrent"
	case Rtmp:
		return "Rtmp"
	case Rtsp:
		return "Rtsp"
	default:
		return "Unknown"
	}
}

// IsTLS reports whether p is any of the four TLS/SSL variants.
func (p Protocol) IsTLS() bool {
	switch p {
	case TlsModern, TlsLegacy, TlsTlcp, SslLegacy:
		return true
	default:
		return false
	}
}

// NeedMoreData is returned by a candidate (or by Classify) when the
// available buffer is a correct-so-far prefix but too short to decide.
type NeedMoreData struct {
	N int
}

func (e NeedMoreData) Error() string {
	return fmt.Sprintf("need %d more bytes", e.N)
}

// candidate bit positions in the State.Excluded bitmask. Order matches the
// dispatch order: cheaper/more-specific checks first.
const (
	bitHTTP = 1 << iota
	bitSSH
	bitTLS
	bitSMTP
	bitIMAP
	bitMQTT
	bitSTOMP
	bitSMPP
	bitBitTorrent
	bitRTMP
	bitRTSP

	allBits = bitHTTP | bitSSH | bitTLS | bitSMTP | bitIMAP | bitMQTT |
		bitSTOMP | bitSMPP | bitBitTorrent | bitRTMP | bitRTSP
)

// MaxDepth bounds the recursion when a TLS payload itself wraps an inner
// protocol (e.g. TLS -> inner HTTP/2 over ALPN).
const MaxDepth = 4

// State carries the bitmask of protocols not yet excluded and the current
// parse position inside the first client buffer, across successive calls
// as more bytes arrive.
type State struct {
	Excluded uint32
	Pos      int
	Depth    int
}

func NewState() *State {
	return &State{}
}

func (s *State) excludeCurrent(bit uint32) {
	s.Excluded |= bit
}

func (s *State) excludeOther(bits uint32) {
	s.Excluded |= bits
}

func (s *State) isExcluded(bit uint32) bool {
	return s.Excluded&bit != 0
}

// checker is the per-candidate contract; a definitive match returns
// (protocol, true, nil); a definitive mismatch returns (Unknown, false,
// nil) and the caller excludes that bit; insufficient data returns
// (Unknown, false, NeedMoreData{n}).
type checker func(s *State, data []byte) (Protocol, bool, error)

var checkers = []struct {
	bit uint32
	fn  checker
}{
	{bitTLS, checkTLS},
	{bitSMPP, checkSMPP},
	{bitHTTP, checkHTTP},
	{bitSSH, checkSSH},
	{bitSMTP, checkSMTP},
	{bitIMAP, checkIMAP},
}

// Classify runs every non-excluded candidate against data. If every
// candidate is excluded, the result is Unknown (never an error) - matching
// spec.md's "if all are excluded the result is Unknown".
func Classify(s *State, data []byte) (Protocol, error) {
	if s.Depth > MaxDepth {
		return Unknown, nil
	}

	var mostBytesNeeded int

	for _, c := range checkers {
		if s.isExcluded(c.bit) {
			continue
		}

		proto, matched, err := c.fn(s, data)
		if err != nil {
			if nmd, ok := err.(NeedMoreData); ok {
				if nmd.N > mostBytesNeeded {
					mostBytesNeeded = nmd.N
				}
				continue
			}
			return Unknown, err
		}
		if matched {
			return proto, nil
		}
		s.excludeCurrent(c.bit)
	}

	if mostBytesNeeded > 0 {
		return Unknown, NeedMoreData{N: mostBytesNeeded}
	}

	return Unknown, nil
}
