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

package certagent

import (
	"github.com/ugorji/go/codec"
)

var mpHandle = &codec.MsgpackHandle{}

// WireRequest is the MessagePack map a fake-cert client sends: the request
// triple plus the upstream certificate it observed, so the agent can
// mirror its shape.
type WireRequest struct {
	Service      string `codec:"service"`
	Usage        string `codec:"usage"`
	Domain       string `codec:"domain"`
	UpstreamCert []byte `codec:"upstream_cert,omitempty"`
}

// WireResponse mirrors the minted Pair over the wire: a DER chain, a DER
// private key, and the two expiry instants as Unix seconds.
type WireResponse struct {
	Chain    [][]byte `codec:"chain"`
	KeyDER   []byte   `codec:"key_der"`
	VanishAt int64    `codec:"vanish_at"`
	ExpireAt int64    `codec:"expire_at"`
}

func EncodeRequest(r WireRequest) ([]byte, error) {
	var buf []byte
	enc := codec.NewEncoderBytes(&buf, mpHandle)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf, nil
}

func DecodeRequest(p []byte) (WireRequest, error) {
	var r WireRequest
	dec := codec.NewDecoderBytes(p, mpHandle)
	err := dec.Decode(&r)
	return r, err
}

func EncodeResponse(r WireResponse) ([]byte, error) {
	var buf []byte
	enc := codec.NewEncoderBytes(&buf, mpHandle)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf, nil
}

func DecodeResponse(p []byte) (WireResponse, error) {
	var r WireResponse
	dec := codec.NewDecoderBytes(p, mpHandle)
	err := dec.Decode(&r)
	return r, err
}

func toWireResponse(p *Pair) WireResponse {
	return WireResponse{
		Chain:    p.Chain,
		KeyDER:   p.KeyDER,
		VanishAt: p.VanishAt.Unix(),
		ExpireAt: p.ExpireAt.Unix(),
	}
}
