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

package icap

import (
	"fmt"
	"net/textproto"
	"strconv"
)

// Message is the encapsulated HTTP message an adaptation round-trip
// carries: a raw header block (request-line + headers, already
// CRLF-terminated) and an optional body.
type Message struct {
	Header []byte
	Body   []byte
}

// AdaptOptions tunes one round-trip: ServiceURI/Host address the ICAP
// service, PreviewSize enables RFC 3507 §4.5 preview when > 0, and
// ExtraHeaders carries the X-Client-IP/X-Client-Username/etc. extension
// headers spec.md names.
type AdaptOptions struct {
	ServiceURI   string
	Host         string
	PreviewSize  int
	ExtraHeaders textproto.MIMEHeader
}

// ReqMod drives one ICAP REQMOD exchange over conn for msg, applying the
// preview optimization when the message body exceeds PreviewSize.
func ReqMod(conn *Connection, msg Message, opt AdaptOptions) (Result, error) {
	return adapt(conn, "REQMOD", "req-hdr", "req-body", msg, opt)
}

func adapt(conn *Connection, method, hdrPart, bodyPart string, msg Message, opt AdaptOptions) (Result, error) {
	headers := textproto.MIMEHeader{}
	headers.Set("Host", opt.Host)
	headers.Set("Encapsulated", encapsulatedValue(hdrPart, bodyPart, len(msg.Header), len(msg.Body)))
	for k, vs := range opt.ExtraHeaders {
		for _, v := range vs {
			headers.Add(k, v)
		}
	}

	preview := opt.PreviewSize > 0 && len(msg.Body) > 0
	previewLen := len(msg.Body)
	if preview && previewLen > opt.PreviewSize {
		previewLen = opt.PreviewSize
	}
	if preview {
		headers.Set("Preview", strconv.Itoa(previewLen))
	}

	if err := conn.WriteRequest(method, opt.ServiceURI, headers); err != nil {
		return Result{}, err
	}
	if len(msg.Header) > 0 {
		if _, err := conn.bw.Write(msg.Header); err != nil {
			return Result{}, errClosed(err)
		}
	}

	if len(msg.Body) == 0 {
		if err := flushErr(conn.bw); err != nil {
			return Result{}, err
		}
	} else if preview {
		complete := previewLen == len(msg.Body)
		if err := conn.WriteChunk(msg.Body[:previewLen], true, complete); err != nil {
			return Result{}, err
		}
		resp, err := conn.ReadResponse()
		if err != nil {
			return Result{}, err
		}
		if resp.Status.Code != 100 {
			// service decided from the preview alone: 200/204/>=300.
			return classifyStatus(resp), nil
		}
		if !complete {
			if err := conn.WriteChunk(msg.Body[previewLen:], true, false); err != nil {
				return Result{}, err
			}
		}
	} else {
		if err := conn.WriteChunk(msg.Body, true, false); err != nil {
			return Result{}, err
		}
	}

	resp, err := conn.ReadResponse()
	if err != nil {
		return Result{}, err
	}
	return classifyStatus(resp), nil
}

// encapsulatedValue builds the RFC 3507 §4.4.1 "Encapsulated" header: it
// names each present part with its byte offset into the logical
// concatenation of header+body, terminated by the implicit end marker.
func encapsulatedValue(hdrPart, bodyPart string, hdrLen, bodyLen int) string {
	if bodyLen == 0 {
		return fmt.Sprintf("%s=0, null-body=%d", hdrPart, hdrLen)
	}
	return fmt.Sprintf("%s=0, %s=%d", hdrPart, bodyPart, hdrLen)
}
