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

// Package stdlib is the fallback resolver driver, backed by net.Resolver.
// The teacher carries no resolver of its own, so net.Resolver is the
// natural second driver for the cases where a raw miekg/dns exchange is
// unavailable or undesired (e.g. relying on the host's /etc/resolv.conf).
// This is a justified stdlib use for the fallback tier only - the
// primary driver is resolve/driver/miekg.
package stdlib

import (
	"context"
	"net"

	resolve "github.com/nabbar/g3proxy/resolve"
)

type Driver struct {
	Resolver *net.Resolver
}

func New() *Driver {
	return &Driver{Resolver: net.DefaultResolver}
}

func (d *Driver) Resolve(ctx context.Context, host string, qtype resolve.QueryType) ([]net.IP, error) {
	network := "ip"
	switch qtype {
	case resolve.QueryIPv4:
		network = "ip4"
	case resolve.QueryIPv6:
		network = "ip6"
	}

	addrs, err := d.Resolver.LookupIP(ctx, network, host)
	if err != nil {
		return nil, err
	}
	return addrs, nil
}
