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

// Package ttheader is a first-party codec for CloudWeGo Kitex's TTHeader
// framed-RPC header, distinct from plain Thrift framed transport. This
// module defines the protocol itself (not a third-party integration),
// hand-implemented over encoding/binary the same way wire/keyless is.
package ttheader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var magic = [2]byte{0x10, 0x00}

const (
	ProtocolBinary  byte = 0x00
	ProtocolCompact byte = 0x02
)

const (
	infoKeyValue    byte = 0x01
	infoIntKeyValue byte = 0x10
	infoACLToken    byte = 0x11
)

// Header is the decoded TTHeader metadata plus the framed payload that
// follows it.
type Header struct {
	Flags       uint16
	SeqID       uint32
	ProtocolID  byte
	KeyValue    map[string]string
	IntKeyValue map[uint16]string
	ACLToken    []byte
	Payload     []byte
}

// Encode renders h as a complete TTHeader frame: 4-byte total length,
// magic, flags, sequence id, header size, protocol id, transforms count,
// info blocks, zero padding to a 4-byte boundary, then the payload.
// The LENGTH field equals the encoded frame size minus the 4 bytes of
// the LENGTH field itself.
func Encode(h Header) ([]byte, error) {
	var region bytes.Buffer
	region.WriteByte(h.ProtocolID)
	region.WriteByte(0x00) // num transforms

	if len(h.KeyValue) > 0 {
		region.WriteByte(infoKeyValue)
		if err := writeU16(&region, uint16(len(h.KeyValue))); err != nil {
			return nil, err
		}
		for k, v := range h.KeyValue {
			if err := writeString(&region, k); err != nil {
				return nil, err
			}
			if err := writeString(&region, v); err != nil {
				return nil, err
			}
		}
	}

	if len(h.IntKeyValue) > 0 {
		region.WriteByte(infoIntKeyValue)
		if err := writeU16(&region, uint16(len(h.IntKeyValue))); err != nil {
			return nil, err
		}
		for k, v := range h.IntKeyValue {
			if err := writeU16(&region, k); err != nil {
				return nil, err
			}
			if err := writeString(&region, v); err != nil {
				return nil, err
			}
		}
	}

	if len(h.ACLToken) > 0 {
		region.WriteByte(infoACLToken)
		if err := writeU16(&region, uint16(len(h.ACLToken))); err != nil {
			return nil, err
		}
		region.Write(h.ACLToken)
	}

	for region.Len()%4 != 0 {
		region.WriteByte(0x00)
	}

	if region.Len()%4 != 0 || region.Len() > 0xFFFF*4 {
		return nil, fmt.Errorf("ttheader: header region size %d invalid", region.Len())
	}
	headerSizeWords := uint16(region.Len() / 4)

	var frame bytes.Buffer
	frame.Write(magic[:])
	if err := writeU16(&frame, h.Flags); err != nil {
		return nil, err
	}
	if err := writeU32(&frame, h.SeqID); err != nil {
		return nil, err
	}
	if err := writeU16(&frame, headerSizeWords); err != nil {
		return nil, err
	}
	frame.Write(region.Bytes())
	frame.Write(h.Payload)

	var out bytes.Buffer
	if err := writeU32(&out, uint32(frame.Len())); err != nil {
		return nil, err
	}
	out.Write(frame.Bytes())

	return out.Bytes(), nil
}

// Decode reads one TTHeader frame from r.
func Decode(r io.Reader) (Header, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Header{}, err
	}
	total := binary.BigEndian.Uint32(lenBuf[:])

	frame := make([]byte, total)
	if _, err := io.ReadFull(r, frame); err != nil {
		return Header{}, err
	}

	if len(frame) < 12 || frame[0] != magic[0] || frame[1] != magic[1] {
		return Header{}, fmt.Errorf("ttheader: bad magic")
	}

	h := Header{
		Flags:       binary.BigEndian.Uint16(frame[2:4]),
		SeqID:       binary.BigEndian.Uint32(frame[4:8]),
		KeyValue:    make(map[string]string),
		IntKeyValue: make(map[uint16]string),
	}
	headerSizeWords := binary.BigEndian.Uint16(frame[8:10])
	headerLen := int(headerSizeWords) * 4

	if 10+headerLen > len(frame) {
		return Header{}, fmt.Errorf("ttheader: header size %d exceeds frame", headerLen)
	}
	region := frame[10 : 10+headerLen]
	h.Payload = frame[10+headerLen:]

	if len(region) < 2 {
		return Header{}, fmt.Errorf("ttheader: header region too short")
	}
	h.ProtocolID = region[0]
	// region[1] is num transforms; transform ids, if any, would follow -
	// unsupported here since no transform is specified by spec.md.
	off := 2

	for off < len(region) {
		infoID := region[off]
		off++
		if infoID == 0x00 {
			break // padding reached
		}
		switch infoID {
		case infoKeyValue:
			count, n, err := readU16(region, off)
			if err != nil {
				return Header{}, err
			}
			off = n
			for i := 0; i < int(count); i++ {
				k, next, err := readString(region, off)
				if err != nil {
					return Header{}, err
				}
				off = next
				v, next, err := readString(region, off)
				if err != nil {
					return Header{}, err
				}
				off = next
				h.KeyValue[k] = v
			}
		case infoIntKeyValue:
			count, n, err := readU16(region, off)
			if err != nil {
				return Header{}, err
			}
			off = n
			for i := 0; i < int(count); i++ {
				key, n2, err := readU16(region, off)
				if err != nil {
					return Header{}, err
				}
				off = n2
				v, next, err := readString(region, off)
				if err != nil {
					return Header{}, err
				}
				off = next
				h.IntKeyValue[key] = v
			}
		case infoACLToken:
			n, next, err := readU16(region, off)
			if err != nil {
				return Header{}, err
			}
			off = next
			if off+int(n) > len(region) {
				return Header{}, fmt.Errorf("ttheader: truncated ACL token")
			}
			h.ACLToken = region[off : off+int(n)]
			off += int(n)
		default:
			return Header{}, fmt.Errorf("ttheader: unknown info id 0x%02x", infoID)
		}
	}

	return h, nil
}

func writeU16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeU32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeString(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("ttheader: string too long (%d bytes)", len(s))
	}
	if err := writeU16(w, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readU16(b []byte, off int) (uint16, int, error) {
	if off+2 > len(b) {
		return 0, 0, fmt.Errorf("ttheader: truncated uint16 at offset %d", off)
	}
	return binary.BigEndian.Uint16(b[off : off+2]), off + 2, nil
}

func readString(b []byte, off int) (string, int, error) {
	n, next, err := readU16(b, off)
	if err != nil {
		return "", 0, err
	}
	if next+int(n) > len(b) {
		return "", 0, fmt.Errorf("ttheader: truncated string at offset %d", next)
	}
	return string(b[next : next+int(n)]), next + int(n), nil
}
