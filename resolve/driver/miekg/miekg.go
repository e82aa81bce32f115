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

// Package miekg is the primary resolver driver, built on
// github.com/miekg/dns - the DNS library both nabbar-golib and
// bassosimone-nop carry in their go.mod - issuing raw A/AAAA queries
// over a configured set of upstream servers instead of relying on the
// host's stub resolver.
package miekg

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	resolve "github.com/nabbar/g3proxy/resolve"
)

// Driver queries a fixed list of upstream DNS servers directly via the
// miekg/dns client, round-robining across them on each call.
type Driver struct {
	Servers []string // "ip:port" form
	Timeout time.Duration
	next    uint32
}

func New(servers []string, timeout time.Duration) *Driver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Driver{Servers: servers, Timeout: timeout}
}

func (d *Driver) server() (string, error) {
	if len(d.Servers) == 0 {
		return "", fmt.Errorf("miekg driver: no upstream servers configured")
	}
	d.next++
	return d.Servers[(d.next-1)%uint32(len(d.Servers))], nil
}

func (d *Driver) Resolve(ctx context.Context, host string, qtype resolve.QueryType) ([]net.IP, error) {
	var out []net.IP

	if qtype == resolve.QueryAuto || qtype == resolve.QueryIPv4 {
		ips, err := d.query(ctx, host, dns.TypeA)
		if err != nil {
			return nil, err
		}
		out = append(out, ips...)
	}
	if qtype == resolve.QueryAuto || qtype == resolve.QueryIPv6 {
		ips, err := d.query(ctx, host, dns.TypeAAAA)
		if err != nil && len(out) == 0 {
			return nil, err
		}
		out = append(out, ips...)
	}
	return out, nil
}

func (d *Driver) query(ctx context.Context, host string, rrType uint16) ([]net.IP, error) {
	server, err := d.server()
	if err != nil {
		return nil, err
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), rrType)
	m.RecursionDesired = true

	client := &dns.Client{Timeout: d.Timeout}
	resp, _, err := client.ExchangeContext(ctx, m, server)
	if err != nil {
		return nil, fmt.Errorf("miekg driver: query %s failed: %w", host, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("miekg driver: %s answered rcode %d for %s", server, resp.Rcode, host)
	}

	var ips []net.IP
	for _, rr := range resp.Answer {
		switch rec := rr.(type) {
		case *dns.A:
			ips = append(ips, rec.A)
		case *dns.AAAA:
			ips = append(ips, rec.AAAA)
		}
	}
	return ips, nil
}
