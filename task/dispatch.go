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

package task

import (
	"context"
	"io"
	"net"
	"time"

	libesc "github.com/nabbar/g3proxy/escape"
	libinp "github.com/nabbar/g3proxy/inspect"
	libtls "github.com/nabbar/g3proxy/inspect/tls"
	liblog "github.com/nabbar/g3proxy/logger"
)

// maxClassifyBuffer bounds how many initial bytes RunTask will read while
// waiting for inspect.Classify to make up its mind before giving up and
// treating the connection as Unknown.
const maxClassifyBuffer = 8 * 1024

// TransitFunc relays bytes bidirectionally between the client and
// upstream legs until termination. In production this is relay.Transit;
// it is injected here rather than imported directly because package
// relay itself imports task for the shared error taxonomy (ClosedByClient,
// Idle, ...) - importing relay back from task would cycle. The composed
// pipeline RunTask drives is the same either way; only the wiring moved
// to the caller (see cmd/proxy's server setup).
type TransitFunc func(cltR io.Reader, cltW io.Writer, upsR io.Reader, upsW io.Writer, quit <-chan struct{}, forced func() bool) error

// AdaptFunc runs one protocol-aware adaptation pass (ICAP REQMOD/RESPMOD,
// or a QUIC stream-detour hop) in place of a raw Transit. Injected for
// the same import-cycle reason as TransitFunc.
type AdaptFunc func(ctx context.Context, clientConn net.Conn, upstream io.ReadWriteCloser, r *Runner) error

// RunContext bundles everything a single RunTask call needs beyond the
// freshly accepted connection: where to send it (Host/Port, normally
// resolved by the caller from a CONNECT request, SOCKS5 handshake, or
// the tproxy-captured original destination), how to open that upstream
// leg, whether to intercept TLS, and how to move bytes once everything
// is connected.
type RunContext struct {
	Quit  *QuitPolicy
	Log   liblog.Logger
	Stats ServerStats

	Host string
	Port uint16

	Escaper libesc.Escaper

	// TLSIntercept, when non-nil, is used whenever inspect.Classify
	// reports a TLS/SSL variant; a nil value means the connection is
	// always relayed opaquely even for TLS traffic (serve/untrusted's
	// passthrough mode, for clients the interception core declines).
	TLSIntercept *libtls.Context

	Transit TransitFunc
	Adapt   AdaptFunc

	StageTimeout time.Duration
}

// RunTask is the connection-lifecycle engine's central dispatcher: given
// one accepted stream it classifies the protocol, terminates TLS and
// installs a forged certificate when applicable, opens the upstream leg
// through the escaper, and finally relays or adapts traffic until the
// task naturally terminates, times out, or the server asks it to quit.
func RunTask(ctx context.Context, stream net.Conn, peerAddr, localAddr net.Addr, runCtx *RunContext) error {
	rctx := NewContext(peerAddr, localAddr, runCtx.Stats)
	r := &Runner{Ctx: rctx, Quit: runCtx.Quit, Log: runCtx.Log, Conn: stream}

	var (
		finishErr error
		proto     libinp.Protocol
		initial   []byte
	)
	defer r.Finish(finishErr)

	finishErr = r.RunStage(ctx, Preparing, Connecting, runCtx.StageTimeout, func(_ context.Context) error {
		p, buf, err := classifyInitial(stream)
		if err != nil {
			return ClientTCPReadFailed(err)
		}
		proto, initial = p, buf
		return nil
	})
	if finishErr != nil {
		return finishErr
	}

	var (
		clientR  io.Reader = stream
		clientW  io.Writer = stream
		upstream io.ReadWriteCloser
	)

	finishErr = r.RunStage(ctx, Connecting, Connected, runCtx.StageTimeout, func(sctx context.Context) error {
		if proto.IsTLS() && runCtx.TLSIntercept != nil {
			tlsCtx := *runCtx.TLSIntercept
			tlsCtx.Initial = initial
			if tlsCtx.Host == "" {
				tlsCtx.Host = runCtx.Host
			}
			if tlsCtx.Port == 0 {
				tlsCtx.Port = runCtx.Port
			}

			ps, err := libtls.Intercept(sctx, stream, dialViaEscaper(runCtx.Escaper), &tlsCtx)
			if err != nil {
				return err
			}
			clientR, clientW = ps.Client, ps.Client
			upstream = ps.Upstream
			return nil
		}

		rwc, err := runCtx.Escaper.Setup(sctx, libesc.Node{Host: runCtx.Host, Port: runCtx.Port})
		if err != nil {
			return InternalAdapterError(err.Error())
		}
		upstream = rwc
		return nil
	})
	if finishErr != nil {
		return finishErr
	}

	r.Ctx.SetStage(Relaying)

	if runCtx.Adapt != nil {
		finishErr = runCtx.Adapt(ctx, stream, upstream, r)
		return finishErr
	}
	if runCtx.Transit == nil {
		finishErr = InternalServerError("no transit or adapt function configured")
		return finishErr
	}

	cr := &countingReader{r: clientR, add: r.Ctx.AddClientRead}
	cw := &countingWriter{w: clientW, add: r.Ctx.AddClientSent}
	ur := &countingReader{r: upstream, add: r.Ctx.AddUpstreamRead}
	uw := &countingWriter{w: upstream, add: r.Ctx.AddUpstreamSent}

	finishErr = runCtx.Transit(cr, cw, ur, uw, r.Quit.Quit(), r.Quit.IsForced)
	return finishErr
}

// dialViaEscaper adapts an escape.Escaper into the narrow UpstreamDialer
// inspect/tls.Intercept needs, failing fast if the escaper's connection
// isn't itself a net.Conn (true for every escaper shipped today: direct,
// HTTP/HTTPS/SOCKS5 forward, float).
func dialViaEscaper(esc libesc.Escaper) libtls.UpstreamDialer {
	return func(ctx context.Context, host string, port uint16) (net.Conn, error) {
		rwc, err := esc.Setup(ctx, libesc.Node{Host: host, Port: port})
		if err != nil {
			return nil, err
		}
		conn, ok := rwc.(net.Conn)
		if !ok {
			return nil, InternalAdapterError("escaper did not return a net.Conn")
		}
		return conn, nil
	}
}

// classifyInitial feeds inspect.Classify a growing prefix of stream's
// first bytes until it reaches a verdict or maxClassifyBuffer is hit, in
// which case the protocol is reported Unknown and the bytes read so far
// are still returned for the caller to relay opaquely.
func classifyInitial(stream net.Conn) (libinp.Protocol, []byte, error) {
	state := libinp.NewState()
	buf := make([]byte, 0, 512)
	tmp := make([]byte, 512)

	for {
		proto, err := libinp.Classify(state, buf)
		if err == nil {
			return proto, buf, nil
		}
		nmd, ok := err.(libinp.NeedMoreData)
		if !ok {
			return libinp.Unknown, buf, err
		}
		if len(buf) >= maxClassifyBuffer {
			return libinp.Unknown, buf, nil
		}

		want := nmd.N
		if want <= 0 {
			want = 1
		}
		if len(tmp) < want {
			tmp = make([]byte, want)
		}
		n, rerr := stream.Read(tmp[:want])
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if rerr != nil {
			if n > 0 {
				continue
			}
			return libinp.Unknown, buf, rerr
		}
	}
}

type countingReader struct {
	r   io.Reader
	add func(uint64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.add(uint64(n))
	}
	return n, err
}

type countingWriter struct {
	w   io.Writer
	add func(uint64)
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.add(uint64(n))
	}
	return n, err
}
