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

// Package failover races a primary resolve.Driver against a standby one,
// grounded on original_source/g3proxy/src/resolve/fail_over/resolver.rs's
// primary/standby pairing - the first answer back wins, and the standby
// only gets a head start delay so the primary is preferred under equal
// latency.
package failover

import (
	"context"
	"net"
	"time"

	resolve "github.com/nabbar/g3proxy/resolve"
)

type result struct {
	ips  []net.IP
	err  error
	from string
}

// Driver races Primary against Standby, where Standby is only actually
// dispatched after StandbyDelay has elapsed without a primary answer -
// a static threshold, matching spec.md's "first success wins" rule while
// still preferring the primary under equal latency.
type Driver struct {
	Primary      resolve.Driver
	Standby      resolve.Driver
	StandbyDelay time.Duration
}

func New(primary, standby resolve.Driver, standbyDelay time.Duration) *Driver {
	if standbyDelay <= 0 {
		standbyDelay = 200 * time.Millisecond
	}
	return &Driver{Primary: primary, Standby: standby, StandbyDelay: standbyDelay}
}

func (d *Driver) Resolve(ctx context.Context, host string, qtype resolve.QueryType) ([]net.IP, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan result, 2)

	go func() {
		ips, err := d.Primary.Resolve(ctx, host, qtype)
		ch <- result{ips: ips, err: err, from: "primary"}
	}()

	go func() {
		select {
		case <-time.After(d.StandbyDelay):
		case <-ctx.Done():
			return
		}
		ips, err := d.Standby.Resolve(ctx, host, qtype)
		select {
		case ch <- result{ips: ips, err: err, from: "standby"}:
		case <-ctx.Done():
		}
	}()

	var firstErr error
	for i := 0; i < 2; i++ {
		select {
		case r := <-ch:
			if r.err == nil {
				return r.ips, nil
			}
			if firstErr == nil {
				firstErr = r.err
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, firstErr
}
