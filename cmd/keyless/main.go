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

// Command keyless is a minimal keyless-protocol signing-service stub: it
// answers PING with PONG over the wire/keyless codec and replies
// ErrBadOpCode to anything else. It exists to exercise the wire codec end
// to end, not as a complete signing backend - the cryptographic side of a
// real keyless service is out of scope here.
package main

import (
	"fmt"
	"net"
	"os"

	spfcbr "github.com/spf13/cobra"

	libkls "github.com/nabbar/g3proxy/wire/keyless"
)

func main() {
	os.Exit(run())
}

func run() int {
	var listenAddr string

	root := &spfcbr.Command{
		Use:   "keyless",
		Short: "minimal TLS-keyless signing service stub",
	}
	root.Flags().StringVar(&listenAddr, "listen", ":2407", "address the keyless service listens on")
	root.RunE = func(cmd *spfcbr.Command, args []string) error {
		return serve(listenAddr)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func serve(listenAddr string) error {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	defer func() { _ = ln.Close() }()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go handleConn(conn)
	}
}

func handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	for {
		msg, err := libkls.Decode(conn)
		if err != nil {
			return
		}

		reply := replyTo(msg)
		out, err := libkls.Encode(reply)
		if err != nil {
			return
		}
		if _, err = conn.Write(out); err != nil {
			return
		}
	}
}

func replyTo(msg libkls.Message) libkls.Message {
	for _, it := range msg.Items {
		if it.Op == libkls.OpPing {
			return libkls.PongMessage(msg.ID)
		}
	}
	return libkls.ErrorMessage(msg.ID, libkls.ErrBadOpCode)
}
