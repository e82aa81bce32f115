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

// TLS record + handshake header layout, grounded on
// original_source/lib/g3-dpi/src/protocol/ssl.go and the byte tables in
// spec.md §4.3.
const (
	sslHdrLen           = 5
	sslHandshakeHdrLen  = 4
	sslHandshakeVerLen  = 2
	sslRecordTypeHandshake = 0x16
	sslHandshakeClientHello = 0x01

	tlsProbeLen = sslHdrLen + sslHandshakeHdrLen + sslHandshakeVerLen
)

// checkTLS implements spec.md §4.3's TLS detection: a 5-byte record
// header (type=0x16, 2-byte legacy version, 2-byte fragment length <=
// 2^14 and != 0), a 4-byte Handshake header (ClientHello=0x01, 3-byte
// length), and 2 bytes of client-hello version, mapped per the table:
// 0x0101 -> TlsTlcp, 0x0200|0x0300 -> SslLegacy, 0x0301|0x0302 -> TlsLegacy,
// 0x0303|0x0304 -> TlsModern.
func checkTLS(s *State, data []byte) (Protocol, bool, error) {
	if len(data) < sslHdrLen {
		return Unknown, false, NeedMoreData{N: sslHdrLen - len(data)}
	}

	if data[0] != sslRecordTypeHandshake {
		return Unknown, false, nil
	}

	fragLen := int(data[3])<<8 | int(data[4])
	if fragLen == 0 || fragLen > 1<<14 {
		return Unknown, false, nil
	}

	if len(data) < sslHdrLen+sslHandshakeHdrLen {
		return Unknown, false, NeedMoreData{N: sslHdrLen + sslHandshakeHdrLen - len(data)}
	}

	if data[5] != sslHandshakeClientHello {
		return Unknown, false, nil
	}

	if len(data) < tlsProbeLen {
		return Unknown, false, NeedMoreData{N: tlsProbeLen - len(data)}
	}

	verMajor, verMinor := data[9], data[10]
	switch {
	case verMajor == 0x01 && verMinor == 0x01:
		return TlsTlcp, true, nil
	case verMajor == 0x02 && verMinor == 0x00, verMajor == 0x03 && verMinor == 0x00:
		return SslLegacy, true, nil
	case verMajor == 0x03 && (verMinor == 0x01 || verMinor == 0x02):
		return TlsLegacy, true, nil
	case verMajor == 0x03 && (verMinor == 0x03 || verMinor == 0x04):
		return TlsModern, true, nil
	default:
		return Unknown, false, nil
	}
}
