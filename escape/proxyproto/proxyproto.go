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

// Package proxyproto emits PROXY protocol v1 (text) and v2 (binary) headers
// ahead of a forwarded connection, so a downstream peer configured to expect
// one (proxy_protocol: v1|v2 on a listening port) learns the original
// client address instead of this proxy's own. No PROXY-protocol library
// was found anywhere in the corpus, so the wire format - small and fully
// specified by the upstream haproxy documentation - is implemented directly
// against encoding/binary, the way the teacher's own wire-format code
// (certagent/wire.go's msgpack framing) is hand-assembled when no library
// covers the concern.
package proxyproto

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
)

type Version int

const (
	V1 Version = 1
	V2 Version = 2
)

var v2Signature = [12]byte{0x0D, 0x0A, 0x0D, 0x0A, 0x00, 0x0D, 0x0A, 0x51, 0x55, 0x49, 0x54, 0x0A}

// Header carries the original endpoints to emit ahead of a relayed stream.
type Header struct {
	SourceIP   net.IP
	SourcePort uint16
	DestIP     net.IP
	DestPort   uint16
}

// Encode renders h as either a v1 text header or a v2 binary header.
func Encode(v Version, h Header) ([]byte, error) {
	switch v {
	case V1:
		return encodeV1(h)
	case V2:
		return encodeV2(h)
	default:
		return nil, fmt.Errorf("proxyproto: unknown version %d", v)
	}
}

func encodeV1(h Header) ([]byte, error) {
	family := "TCP4"
	src, dst := h.SourceIP.To4(), h.DestIP.To4()
	if src == nil || dst == nil {
		family = "TCP6"
		src, dst = h.SourceIP.To16(), h.DestIP.To16()
		if src == nil || dst == nil {
			return nil, fmt.Errorf("proxyproto: invalid source/dest IP")
		}
	}
	line := fmt.Sprintf("PROXY %s %s %s %d %d\r\n", family, ipString(src), ipString(dst), h.SourcePort, h.DestPort)
	return []byte(line), nil
}

func ipString(ip net.IP) string {
	return ip.String()
}

func encodeV2(h Header) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(v2Signature[:])
	buf.WriteByte(0x21) // version 2, command PROXY

	src4, dst4 := h.SourceIP.To4(), h.DestIP.To4()
	isV4 := src4 != nil && dst4 != nil

	var addrLen uint16
	var famByte byte
	if isV4 {
		famByte = 0x11 // AF_INET, STREAM
		addrLen = 12   // 4+4+2+2
	} else {
		famByte = 0x21 // AF_INET6, STREAM
		addrLen = 36 // 16+16+2+2
	}
	buf.WriteByte(famByte)
	if err := binary.Write(&buf, binary.BigEndian, addrLen); err != nil {
		return nil, err
	}

	if isV4 {
		buf.Write(src4)
		buf.Write(dst4)
	} else {
		src16, dst16 := h.SourceIP.To16(), h.DestIP.To16()
		if src16 == nil || dst16 == nil {
			return nil, fmt.Errorf("proxyproto: invalid source/dest IPv6")
		}
		buf.Write(src16)
		buf.Write(dst16)
	}
	if err := binary.Write(&buf, binary.BigEndian, h.SourcePort); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, h.DestPort); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the encoded header to w, e.g. a freshly dialed upstream
// connection, before any application bytes are relayed onto it.
func WriteTo(w net.Conn, v Version, h Header) error {
	b, err := Encode(v, h)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
