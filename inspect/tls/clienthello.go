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

// Package tls implements the TLS interception core: given the raw client
// stream and its buffered first bytes, terminate TLS client-side while
// proxying an authentic TLS session upstream, injecting a forged leaf
// certificate that chains to a locally trusted CA.
package tls

// extServerName and extALPN are the TLS extension type IDs this module
// reads out of a ClientHello; every other extension is skipped over.
// The record/handshake header layout mirrors inspect's own tls_detect.go
// (sslHdrLen et al.), kept as a private copy here since Intercept parses
// past the header inspect.Classify only peeks at.
const (
	extServerName    = 0x0000
	extALPN          = 0x0010
	sniHostNameType  = 0x00

	sslHdrLen               = 5
	sslHandshakeHdrLen      = 4
	sslRecordTypeHandshake  = 0x16
	sslHandshakeClientHello = 0x01
)

// ClientHello is the subset of a parsed ClientHello this module needs:
// the SNI host name (if the extension was present) and the ALPN protocol
// list offered by the client, in the order the client sent them.
type ClientHello struct {
	ServerName string
	ALPN       []string
}

// parseClientHello walks the exact record/handshake/extension byte layout
// a TLS ClientHello uses - record header, handshake header, legacy
// version, random, session id, cipher suites, compression methods,
// extension list - mirroring the field-by-field offsets the original
// client_hello parser uses, except this one only reads the two
// extensions spec.md's interception protocol needs instead of
// rewriting arbitrary ones.
func parseClientHello(p []byte) (*ClientHello, error) {
	if len(p) < sslHdrLen+sslHandshakeHdrLen {
		return nil, NeedMoreClientHello(sslHdrLen + sslHandshakeHdrLen - len(p))
	}
	if p[0] != sslRecordTypeHandshake {
		return nil, errNotHandshakeRecord()
	}

	recordLen := int(p[3])<<8 | int(p[4])
	if len(p) < sslHdrLen+recordLen {
		return nil, NeedMoreClientHello(sslHdrLen + recordLen - len(p))
	}

	offset := sslHdrLen
	if p[offset] != sslHandshakeClientHello {
		return nil, errNotClientHello()
	}
	offset += 4 // handshake type (1) + length (3)
	offset += 2 // legacy_version
	offset += 32 // random

	if offset >= len(p) {
		return nil, NeedMoreClientHello(offset + 1 - len(p))
	}
	sessionIDLen := int(p[offset])
	offset += 1 + sessionIDLen

	if offset+2 > len(p) {
		return nil, NeedMoreClientHello(offset + 2 - len(p))
	}
	cipherSuiteLen := int(p[offset])<<8 | int(p[offset+1])
	offset += 2 + cipherSuiteLen

	if offset >= len(p) {
		return nil, NeedMoreClientHello(offset + 1 - len(p))
	}
	compressionLen := int(p[offset])
	offset += 1 + compressionLen

	ch := &ClientHello{}
	if offset+2 > len(p) {
		// no extensions present - a legal, if unusual, ClientHello
		return ch, nil
	}
	extTotalLen := int(p[offset])<<8 | int(p[offset+1])
	offset += 2
	extEnd := offset + extTotalLen
	if extEnd > len(p) {
		return nil, NeedMoreClientHello(extEnd - len(p))
	}

	for offset+4 <= extEnd {
		extType := int(p[offset])<<8 | int(p[offset+1])
		extLen := int(p[offset+2])<<8 | int(p[offset+3])
		body := offset + 4
		bodyEnd := body + extLen
		if bodyEnd > extEnd {
			break
		}

		switch extType {
		case extServerName:
			ch.ServerName = parseSNIExt(p[body:bodyEnd])
		case extALPN:
			ch.ALPN = parseALPNExt(p[body:bodyEnd])
		}

		offset = bodyEnd
	}

	return ch, nil
}

// parseSNIExt reads the first host_name entry of a server_name extension
// body; additional entries (never sent by real clients) are ignored.
func parseSNIExt(b []byte) string {
	if len(b) < 2 {
		return ""
	}
	listLen := int(b[0])<<8 | int(b[1])
	off := 2
	end := off + listLen
	if end > len(b) {
		end = len(b)
	}
	for off+3 <= end {
		nameType := b[off]
		nameLen := int(b[off+1])<<8 | int(b[off+2])
		off += 3
		if off+nameLen > end {
			break
		}
		if nameType == sniHostNameType {
			return string(b[off : off+nameLen])
		}
		off += nameLen
	}
	return ""
}

// parseALPNExt reads the protocol_name_list of an ALPN extension body, in
// client-offered order.
func parseALPNExt(b []byte) []string {
	if len(b) < 2 {
		return nil
	}
	listLen := int(b[0])<<8 | int(b[1])
	off := 2
	end := off + listLen
	if end > len(b) {
		end = len(b)
	}
	var out []string
	for off < end {
		n := int(b[off])
		off++
		if off+n > end {
			break
		}
		out = append(out, string(b[off:off+n]))
		off += n
	}
	return out
}

// intersectALPN keeps only the client-offered protocols this proxy
// supports, in the client's preference order. Per spec.md step 4: an
// empty intersection means the original list is forwarded unchanged.
func intersectALPN(offered, supported []string) []string {
	if len(offered) == 0 {
		return nil
	}
	supportedSet := make(map[string]bool, len(supported))
	for _, s := range supported {
		supportedSet[s] = true
	}
	var out []string
	for _, p := range offered {
		if supportedSet[p] {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return offered
	}
	return out
}
