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

package inspect

import "encoding/binary"

// smppHdrLen is the fixed SMPP PDU header: command_length, command_id,
// command_status, sequence_number, each a big-endian uint32.
const smppHdrLen = 16

// smppMaxCommandLength bounds a PDU to 16 MiB, per spec.md's sanity check
// on the wire (command_length's leading byte must be zero).
const smppMaxCommandLength = 16 * 1024 * 1024

// smppBindReceiver, smppBindTransmitter, smppBindTransceiver, smppOutbind are
// the only command_id values a detector accepts from a freshly opened client
// stream: a session always opens with one of these.
const (
	smppBindReceiver    = 0x00000001
	smppBindTransmitter = 0x00000002
	smppBindTransceiver = 0x00000009
	smppOutbind         = 0x0000000B
)

func checkSMPP(s *State, data []byte) (Protocol, bool, error) {
	if len(data) < smppHdrLen {
		return Unknown, false, NeedMoreData{N: smppHdrLen - len(data)}
	}

	if data[0] != 0x00 {
		return Unknown, false, nil
	}

	cmdLength := binary.BigEndian.Uint32(data[0:4])
	if cmdLength < smppHdrLen || cmdLength > smppMaxCommandLength {
		return Unknown, false, nil
	}

	cmdID := binary.BigEndian.Uint32(data[4:8])
	switch cmdID {
	case smppBindReceiver, smppBindTransmitter, smppBindTransceiver, smppOutbind:
	default:
		return Unknown, false, nil
	}

	cmdStatus := binary.BigEndian.Uint32(data[8:12])
	if cmdStatus != 0 {
		return Unknown, false, nil
	}

	return Smpp, true, nil
}
