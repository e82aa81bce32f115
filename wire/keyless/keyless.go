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

// Package keyless is a first-party codec for the keyless wire protocol: a
// TLS front-end delegates private-key operations to a back-end signing
// service over a small TLV-item message. This module defines the
// protocol itself (not a third-party integration), hand-implemented over
// encoding/binary the same way wire/ttheader is.
package keyless

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var protocolVersion = [2]byte{0x01, 0x00}

type OpCode byte

const (
	OpPing       OpCode = 0xF1
	OpPong       OpCode = 0xF2
	OpResponseOK OpCode = 0xF0
	OpResponseErr OpCode = 0xFF
)

// ErrorCode is the single-byte payload of an OpResponseErr item.
type ErrorCode byte

const (
	ErrNoError              ErrorCode = 0
	ErrCryptographyFailure   ErrorCode = 1
	ErrKeyNotFound           ErrorCode = 2
	ErrReadError             ErrorCode = 3
	ErrVersionMismatch       ErrorCode = 4
	ErrBadOpCode             ErrorCode = 5
	ErrUnexpectedOpCode      ErrorCode = 6
	ErrFormatError           ErrorCode = 7
	ErrInternalError         ErrorCode = 8
	ErrCertNotFound          ErrorCode = 9
	ErrExpired               ErrorCode = 10
	ErrRemoteConfiguration   ErrorCode = 11
)

// Item is one OpCode+payload entry inside a Message.
type Item struct {
	Op      OpCode
	Payload []byte
}

// Message is one keyless request or response: a 4-byte id plus the list
// of items carried in its body.
type Message struct {
	ID    uint32
	Items []Item
}

// Encode renders m as protocol_version(2) + length(2) + id(4) + items.
func Encode(m Message) ([]byte, error) {
	var body bytes.Buffer
	for _, it := range m.Items {
		if len(it.Payload) > 0xFFFF {
			return nil, fmt.Errorf("keyless: item payload too large (%d bytes)", len(it.Payload))
		}
		body.WriteByte(byte(it.Op))
		var lenBuf [2]byte
		binary.BigEndian.PutUint16(lenBuf[:], uint16(len(it.Payload)))
		body.Write(lenBuf[:])
		body.Write(it.Payload)
	}

	if body.Len() > 0xFFFF {
		return nil, fmt.Errorf("keyless: message body too large (%d bytes)", body.Len())
	}

	var out bytes.Buffer
	out.Write(protocolVersion[:])
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(body.Len()))
	out.Write(lenBuf[:])
	var idBuf [4]byte
	binary.BigEndian.PutUint32(idBuf[:], m.ID)
	out.Write(idBuf[:])
	out.Write(body.Bytes())

	return out.Bytes(), nil
}

// Decode reads one message from r, validating the protocol version and
// item framing.
func Decode(r io.Reader) (Message, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Message{}, err
	}
	if hdr[0] != protocolVersion[0] || hdr[1] != protocolVersion[1] {
		return Message{}, fmt.Errorf("keyless: unsupported protocol version %d.%d", hdr[0], hdr[1])
	}

	msgLen := binary.BigEndian.Uint16(hdr[2:4])
	id := binary.BigEndian.Uint32(hdr[4:8])

	body := make([]byte, msgLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return Message{}, err
	}

	var items []Item
	off := 0
	for off < len(body) {
		if off+3 > len(body) {
			return Message{}, fmt.Errorf("keyless: truncated item header")
		}
		op := OpCode(body[off])
		itLen := binary.BigEndian.Uint16(body[off+1 : off+3])
		off += 3
		if off+int(itLen) > len(body) {
			return Message{}, fmt.Errorf("keyless: truncated item payload")
		}
		payload := body[off : off+int(itLen)]
		off += int(itLen)
		items = append(items, Item{Op: op, Payload: payload})
	}

	return Message{ID: id, Items: items}, nil
}

// ErrorMessage builds a RESPONSE_ERR message carrying a single-byte
// error code, the canonical error reply shape for a malformed or
// unsupported request.
func ErrorMessage(id uint32, code ErrorCode) Message {
	return Message{ID: id, Items: []Item{{Op: OpResponseErr, Payload: []byte{byte(code)}}}}
}

// PongMessage builds a PONG reply to a PING request of the same id.
func PongMessage(id uint32) Message {
	return Message{ID: id, Items: []Item{{Op: OpPong}}}
}
