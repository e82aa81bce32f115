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

// Package resolve is the resolver facade: a single Query contract fed by
// pluggable drivers (resolve/driver/miekg, resolve/driver/stdlib), a
// failover racer (resolve/failover) and a TTL-bounded cache (resolve/cache.go).
package resolve

import (
	"context"
	"net"
)

// QueryType selects which record family to ask a driver for.
type QueryType int

const (
	QueryAuto QueryType = iota
	QueryIPv4
	QueryIPv6
)

// Pick selects how Query narrows a multi-address answer down, when the
// caller only wants a single address back.
type Pick int

const (
	PickAll Pick = iota
	PickRandom
	PickSerial
	PickKetama
)

// Strategy bundles the query family and the result-selection policy,
// with an optional Ketama key used only when Pick is PickKetama.
type Strategy struct {
	QueryType QueryType
	Pick      Pick
	KetamaKey string
}

// Driver is the pluggable resolution backend contract. Every driver only
// needs to answer Resolve; TTL caching and failover racing are composed
// on top of it by this package, not by the drivers themselves.
type Driver interface {
	Resolve(ctx context.Context, host string, qtype QueryType) ([]net.IP, error)
}

// Resolver is the facade's public contract.
type Resolver interface {
	Query(ctx context.Context, host string, strategy Strategy) ([]net.IP, error)
}

// Facade wraps a Driver with Ketama/Random/Serial result-selection,
// leaving TTL caching to the Cached wrapper in cache.go and failover
// racing to the failover package.
type Facade struct {
	Driver Driver
	ring   *ketamaRing
}

func NewFacade(d Driver) *Facade {
	return &Facade{Driver: d}
}

func (f *Facade) Query(ctx context.Context, host string, strategy Strategy) ([]net.IP, error) {
	ips, err := f.Driver.Resolve(ctx, host, strategy.QueryType)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return ips, nil
	}

	switch strategy.Pick {
	case PickAll:
		return ips, nil
	case PickRandom:
		return []net.IP{ips[pickRandomIndex(len(ips))]}, nil
	case PickSerial:
		return []net.IP{ips[0]}, nil
	case PickKetama:
		return []net.IP{ips[pickKetamaIndex(strategy.KetamaKey, len(ips))]}, nil
	default:
		return ips, nil
	}
}
