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

// Command bench is a small concurrent-connection load generator for the
// proxy daemon: it opens a configurable number of concurrent TCP
// connections through a target address, writes a fixed payload, reads the
// echo back, and reports counters/latency through the stat registry the
// same way the daemon itself would.
package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	spfcbr "github.com/spf13/cobra"

	libstat "github.com/nabbar/g3proxy/stat"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		target      string
		concurrency int
		requests    int
		payloadSize int
	)

	root := &spfcbr.Command{
		Use:   "bench",
		Short: "concurrent-connection load generator for the proxy daemon",
	}
	root.Flags().StringVar(&target, "target", "127.0.0.1:3128", "address to connect through")
	root.Flags().IntVar(&concurrency, "concurrency", 10, "number of concurrent connections")
	root.Flags().IntVar(&requests, "requests", 100, "number of round-trips per connection")
	root.Flags().IntVar(&payloadSize, "payload", 512, "bytes written per round-trip")
	root.RunE = func(cmd *spfcbr.Command, args []string) error {
		return bench(target, concurrency, requests, payloadSize)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func bench(target string, concurrency, requests, payloadSize int) error {
	reg := libstat.NewRegistry()
	tags := libstat.Tags{}

	var wg sync.WaitGroup
	errs := make(chan error, concurrency)

	payload := make([]byte, payloadSize)
	for i := range payload {
		payload[i] = byte(i)
	}

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := benchWorker(target, requests, payload, reg, tags); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	var failed int
	for err := range errs {
		failed++
		fmt.Fprintln(os.Stderr, "worker error:", err)
	}

	fmt.Printf("metrics registered: %v\n", reg.ListMetric())
	if failed > 0 {
		return fmt.Errorf("bench: %d/%d workers failed", failed, concurrency)
	}
	return nil
}

func benchWorker(target string, requests int, payload []byte, reg *libstat.Registry, tags libstat.Tags) error {
	conn, err := net.DialTimeout("tcp", target, 10*time.Second)
	if err != nil {
		reg.IncCounter("bench_dial_errors_total", tags)
		return err
	}
	defer func() { _ = conn.Close() }()

	buf := make([]byte, len(payload))
	for i := 0; i < requests; i++ {
		start := time.Now()

		if _, err = conn.Write(payload); err != nil {
			reg.IncCounter("bench_write_errors_total", tags)
			return err
		}
		if _, err = io.ReadFull(conn, buf); err != nil {
			reg.IncCounter("bench_read_errors_total", tags)
			return err
		}

		reg.IncCounter("bench_requests_total", tags)
		reg.ObserveDuration("bench_request_duration_seconds", tags, time.Since(start))
	}
	return nil
}
