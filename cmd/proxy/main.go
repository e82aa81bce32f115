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

// Command proxy is the intercepting/auditing proxy daemon: it binds the
// Socket acceptor, wires the protocol-inspection + TLS-interception +
// escaper pipeline into task.RunTask, and relays traffic through
// relay.Transit until asked to quit.
package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"io"
	"math/big"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"

	libagt "github.com/nabbar/g3proxy/certagent"
	libesc "github.com/nabbar/g3proxy/escape"
	libinp "github.com/nabbar/g3proxy/inspect/tls"
	liblog "github.com/nabbar/g3proxy/logger"
	loglvl "github.com/nabbar/g3proxy/logger/level"
	librly "github.com/nabbar/g3proxy/relay"
	libsck "github.com/nabbar/g3proxy/socket"
	sckcfg "github.com/nabbar/g3proxy/socket/config"
	scktcp "github.com/nabbar/g3proxy/socket/server/tcp"
	libtsk "github.com/nabbar/g3proxy/task"
)

func main() {
	os.Exit(run())
}

// run wires the daemon and blocks until shutdown; it returns the process
// exit code (0 normal, 1 fatal startup/runtime error) rather than calling
// os.Exit itself, so the wiring stays testable.
func run() int {
	var listenAddr string

	root := &spfcbr.Command{
		Use:   "proxy",
		Short: "intercepting and auditing TCP/TLS forward proxy",
	}
	root.Flags().StringVar(&listenAddr, "listen", ":3128", "address the proxy listens on")
	root.RunE = func(cmd *spfcbr.Command, args []string) error {
		return serve(cmd.Context(), listenAddr)
	}

	spfvpr.SetEnvPrefix("G3PROXY")
	spfvpr.AutomaticEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	root.SetContext(ctx)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// serve builds the escaper, the TLS-interception agent and the Socket
// acceptor, then blocks relaying connections through task.RunTask until
// ctx is canceled.
func serve(ctx context.Context, listenAddr string) error {
	log := liblog.New(context.Background())
	log.SetLevel(loglvl.InfoLevel)

	agent, err := newCertAgent(ctx)
	if err != nil {
		return fmt.Errorf("certificate agent setup failed: %w", err)
	}
	defer func() { _ = agent.Close() }()

	escaper := &libesc.DirectEscaper{DialTimeout: 10 * time.Second}

	runCtx := &libtsk.RunContext{
		Quit:    libtsk.NewQuitPolicy(),
		Log:     log,
		Escaper: escaper,
		TLSIntercept: &libinp.Context{
			Agent:         agent,
			SupportedALPN: libinp.DefaultSupportedALPN,
			AcceptTimeout: 10 * time.Second,
		},
		Transit: func(cltR io.Reader, cltW io.Writer, upsR io.Reader, upsW io.Writer, quit <-chan struct{}, forced func() bool) error {
			return librly.Transit(cltR, cltW, upsR, upsW, librly.Config{}, quit, forced, nil)
		},
		StageTimeout: 30 * time.Second,
	}

	handler := func(c libsck.Context) {
		conn, ok := c.(net.Conn)
		if !ok {
			_ = c.Close()
			return
		}
		if err := libtsk.RunTask(ctx, conn, conn.RemoteAddr(), conn.LocalAddr(), runCtx); err != nil {
			log.Error("proxy task finished", err)
		}
	}

	srv, err := scktcp.New(nil, handler, sckcfg.Server{Address: listenAddr})
	if err != nil {
		return fmt.Errorf("acceptor setup failed: %w", err)
	}

	go func() {
		<-ctx.Done()
		runCtx.Quit.RequestQuit()
		_ = srv.Shutdown(context.Background())
	}()

	return srv.Listen(ctx)
}

func newCertAgent(ctx context.Context) (*libagt.Agent, error) {
	root, key, err := generateLocalCA()
	if err != nil {
		return nil, err
	}
	minter := libagt.NewLocalMinter(root, key, 24*time.Hour)
	return libagt.NewAgent(ctx, minter, time.Hour, 10*time.Minute), nil
}

// generateLocalCA creates the ephemeral interception root used to sign
// forged leaves for this process's lifetime. Production deployments load
// a persistent root the same way certificates/ca loads any other
// configured certificate; this daemon does not do that wiring itself.
func generateLocalCA() (*x509.Certificate, *ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, err
	}
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: "g3proxy interception CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(10 * 365 * 24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, nil, err
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, err
	}
	return cert, key, nil
}
