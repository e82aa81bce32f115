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

import "bytes"

// httpMethods are the request lines a client-first HTTP detector accepts;
// matching requires the method followed by a single space, per RFC 7230.
var httpMethods = [][]byte{
	[]byte("GET "), []byte("POST "), []byte("PUT "), []byte("HEAD "),
	[]byte("DELETE "), []byte("OPTIONS "), []byte("PATCH "), []byte("CONNECT "),
	[]byte("TRACE "),
}

// checkHTTP matches a leading HTTP request-line method token. The longest
// candidate method is "OPTIONS ", so until that many bytes are in hand a
// partial-but-consistent prefix yields NeedMoreData rather than a verdict.
func checkHTTP(s *State, data []byte) (Protocol, bool, error) {
	for _, m := range httpMethods {
		if len(data) >= len(m) {
			if bytes.Equal(data[:len(m)], m) {
				return Http, true, nil
			}
			continue
		}
		if bytes.Equal(data, m[:len(data)]) {
			return Unknown, false, NeedMoreData{N: len(m) - len(data)}
		}
	}
	return Unknown, false, nil
}

// sshBanner is the fixed "SSH-" prefix every SSH server and client
// identification string begins with (RFC 4253 §4.2).
var sshBanner = []byte("SSH-")

func checkSSH(s *State, data []byte) (Protocol, bool, error) {
	if len(data) < len(sshBanner) {
		if bytes.Equal(data, sshBanner[:len(data)]) {
			return Unknown, false, NeedMoreData{N: len(sshBanner) - len(data)}
		}
		return Unknown, false, nil
	}
	if bytes.Equal(data[:len(sshBanner)], sshBanner) {
		return Ssh, true, nil
	}
	return Unknown, false, nil
}

// smtpGreeting is the "220 " that opens every SMTP server greeting
// (RFC 5321 §4.2) - the only direction a transparently intercepted client
// stream can observe before the proxy itself dials upstream.
var smtpGreeting = []byte("220 ")
var smtpGreetingDash = []byte("220-")

func checkSMTP(s *State, data []byte) (Protocol, bool, error) {
	const n = 4
	if len(data) < n {
		if bytes.Equal(data, smtpGreeting[:len(data)]) || bytes.Equal(data, smtpGreetingDash[:len(data)]) {
			return Unknown, false, NeedMoreData{N: n - len(data)}
		}
		return Unknown, false, nil
	}
	if bytes.Equal(data[:n], smtpGreeting) || bytes.Equal(data[:n], smtpGreetingDash) {
		return Smtp, true, nil
	}
	return Unknown, false, nil
}

// imapGreeting is the untagged "* OK" (or "* PREAUTH"/"* BYE") response an
// IMAP server sends before any command is issued (RFC 3501 §7.1.1).
var imapGreeting = []byte("* OK")

func checkIMAP(s *State, data []byte) (Protocol, bool, error) {
	const n = 4
	if len(data) < n {
		if bytes.Equal(data, imapGreeting[:len(data)]) {
			return Unknown, false, NeedMoreData{N: n - len(data)}
		}
		return Unknown, false, nil
	}
	if bytes.Equal(data[:n], imapGreeting) {
		return Imap, true, nil
	}
	return Unknown, false, nil
}
