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

package tls

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"
	"time"

	libiou "github.com/nabbar/g3proxy/ioutils"

	"github.com/nabbar/g3proxy/certagent"
)

// DefaultSupportedALPN is the proxy's own ALPN set, offered to the
// upstream and intersected against whatever the client offered - spec.md
// step 4 names exactly these two.
var DefaultSupportedALPN = []string{"http/1.1", "h2"}

// UpstreamDialer opens the real connection toward host:port, the same
// seam escape.Escaper.Setup fills for the plain (non-intercepted) path.
type UpstreamDialer func(ctx context.Context, host string, port uint16) (net.Conn, error)

// CertSource is the narrow surface Intercept needs from certagent.Agent:
// a non-blocking pre-fetch plus a blocking fetch that can be re-armed
// once the real upstream leaf is known.
type CertSource interface {
	PreFetch(service, usage, domain string) (*certagent.Pair, bool)
	Fetch(ctx context.Context, service, usage, domain string, upstreamLeaf *x509.Certificate) (*certagent.Pair, error)
}

// Context bundles everything Intercept needs beyond the live connection:
// the pre-read initial bytes (never consumed by the caller's classifier),
// the dispatcher's fallback host/port, the cert agent, the proxy's ALPN
// set and the client accept timeout. Named Context to match spec.md's
// `ctx2 *Context` parameter; distinct from task.Context, which owns the
// connection's lifecycle stage rather than its TLS material.
type Context struct {
	Initial       []byte
	Host          string
	Port          uint16
	Agent         CertSource
	SupportedALPN []string
	AcceptTimeout time.Duration

	// UpstreamConfig, when non-nil, is the user-site client config
	// (cloned per call) Intercept dials the upstream TLS session with
	// instead of a bare default *tls.Config{}.
	UpstreamConfig *tls.Config
}

func (c *Context) supportedALPN() []string {
	if len(c.SupportedALPN) > 0 {
		return c.SupportedALPN
	}
	return DefaultSupportedALPN
}

func (c *Context) acceptTimeout() time.Duration {
	if c.AcceptTimeout > 0 {
		return c.AcceptTimeout
	}
	return 10 * time.Second
}

// ProtocolStream is the pair of already-handshaken TLS sessions handed
// back to the task dispatcher: the client-facing session presenting the
// forged leaf, and the upstream-facing session carrying the real
// certificate. ALPN is the protocol negotiated on the client side, which
// Intercept mirrors from whatever the upstream session selected.
type ProtocolStream struct {
	Client   *tls.Conn
	Upstream *tls.Conn
	Host     string
	ALPN     string
}

type prefetchResult struct {
	pair *certagent.Pair
	err  error
}

// Intercept runs the eight-step protocol: parse the ClientHello, resolve
// the target host, race a cert pre-fetch against the upstream TLS dial,
// install the forged cert (re-fetching with the real upstream leaf if
// the pre-fetch missed), then drive the client handshake bounded by
// AcceptTimeout, re-prepending the pre-read bytes via a once-buffer
// wrapper so the client-facing handshake sees the full ClientHello
// exactly once. On success the negotiated ALPN is classified and both
// streams are returned for the task dispatcher to relay or adapt.
func Intercept(ctx context.Context, clientConn net.Conn, dial UpstreamDialer, ctx2 *Context) (*ProtocolStream, error) {
	// Step 1: parse ClientHello for SNI + ALPN.
	hello, err := parseClientHello(ctx2.Initial)
	if err != nil {
		return nil, InternalOpensslServerError(err)
	}

	// Step 2: resolve target host.
	host := ctx2.Host
	if hello.ServerName != "" {
		host = hello.ServerName
	}

	// Step 3: spawn the pre-fetch, concurrent with step 4.
	prefetchCh := make(chan prefetchResult, 1)
	go func() {
		if p, ok := ctx2.Agent.PreFetch("https", "TlsServer", host); ok {
			prefetchCh <- prefetchResult{pair: p}
			return
		}
		prefetchCh <- prefetchResult{}
	}()

	// Step 4: open the upstream TLS session with the filtered ALPN.
	filteredALPN := intersectALPN(hello.ALPN, ctx2.supportedALPN())
	upsConn, err := dial(ctx, host, ctx2.Port)
	if err != nil {
		return nil, UpstreamPrepareFailed(err)
	}

	upsCfg := &tls.Config{}
	if ctx2.UpstreamConfig != nil {
		upsCfg = ctx2.UpstreamConfig.Clone()
	}
	upsCfg.ServerName = host
	upsCfg.NextProtos = filteredALPN

	upsTLS := tls.Client(upsConn, upsCfg)
	hsCtx, hsCancel := context.WithTimeout(ctx, ctx2.acceptTimeout())
	hsErr := upsTLS.HandshakeContext(hsCtx)
	hsCancel()
	if hsErr != nil {
		_ = upsConn.Close()
		if hsCtx.Err() != nil {
			return nil, UpstreamHandshakeTimeout()
		}
		return nil, UpstreamHandshakeFailed(hsErr)
	}

	// Step 5: await the pre-fetch; re-fetch with the real leaf on a miss.
	pre := <-prefetchCh
	var pair *certagent.Pair
	if pre.pair != nil {
		pair = pre.pair
	} else {
		var upstreamLeaf *x509.Certificate
		if cs := upsTLS.ConnectionState(); len(cs.PeerCertificates) > 0 {
			upstreamLeaf = cs.PeerCertificates[0]
		}
		pair, err = ctx2.Agent.Fetch(ctx, "https", "TlsServer", host, upstreamLeaf)
		if err != nil {
			_ = upsTLS.Close()
			return nil, NoFakeCertGenerated(err)
		}
	}

	cert, err := pairToCertificate(pair)
	if err != nil {
		_ = upsTLS.Close()
		return nil, NoFakeCertGenerated(err)
	}

	// Step 6: install the forged cert; mirror the upstream's selected ALPN.
	cltCfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   mirroredALPN(upsTLS.ConnectionState().NegotiatedProtocol),
	}

	// Step 7: drive the client handshake, re-prepending the pre-read bytes.
	prefixed := newPrefixConn(clientConn, ctx2.Initial)
	cltTLS := tls.Server(prefixed, cltCfg)
	acceptCtx, acceptCancel := context.WithTimeout(ctx, ctx2.acceptTimeout())
	acceptErr := cltTLS.HandshakeContext(acceptCtx)
	acceptCancel()
	if acceptErr != nil {
		_ = upsTLS.Close()
		return nil, ClientHandshakeFailed(acceptErr)
	}

	// Step 8: classify the selected ALPN for the caller's inner dispatch.
	return &ProtocolStream{
		Client:   cltTLS,
		Upstream: upsTLS,
		Host:     host,
		ALPN:     cltTLS.ConnectionState().NegotiatedProtocol,
	}, nil
}

func pairToCertificate(pair *certagent.Pair) (tls.Certificate, error) {
	key, err := x509.ParseECPrivateKey(pair.KeyDER)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{
		Certificate: pair.Chain,
		PrivateKey:  key,
		Leaf:        pair.Leaf,
	}, nil
}

// mirroredALPN wraps the upstream's single negotiated protocol back into
// a one-element NextProtos list, or nil if the upstream negotiated none.
func mirroredALPN(selected string) []string {
	if selected == "" {
		return nil
	}
	return []string{selected}
}

// prefixConn re-prepends bytes already consumed from conn (the classifier's
// peek) before conn's own stream, via the teacher's once-buffer idiom
// (ioutils.NewBufferReadCloser): the buffered bytes are drained first, then
// every subsequent Read falls through to the live connection.
type prefixConn struct {
	net.Conn
	once io.ReadCloser
}

func newPrefixConn(conn net.Conn, initial []byte) *prefixConn {
	buf := make([]byte, len(initial))
	copy(buf, initial)
	return &prefixConn{
		Conn: conn,
		once: libiou.NewBufferReadCloser(bytes.NewBuffer(buf)),
	}
}

func (p *prefixConn) Read(b []byte) (int, error) {
	if p.once != nil {
		n, _ := p.once.Read(b)
		if n > 0 {
			return n, nil
		}
		_ = p.once.Close()
		p.once = nil
	}
	return p.Conn.Read(b)
}
