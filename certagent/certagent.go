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

// Package certagent mints and caches forged leaf certificates used by the
// TLS interception core to impersonate an upstream service toward the
// intercepted client.
package certagent

import (
	"context"
	"crypto/x509"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	libcch "github.com/nabbar/g3proxy/cache"
)

// Pair is a minted leaf plus the chain and private key a TLS server config
// needs to present it, alongside the soft/hard expiry spec.md §4.5 names.
type Pair struct {
	Leaf      *x509.Certificate
	Chain     [][]byte
	KeyDER    []byte
	VanishAt  time.Time // soft TTL: still served, but a refresh is enqueued
	ExpireAt  time.Time // hard TTL: cache eviction boundary
}

func (p *Pair) stale(now time.Time) bool {
	return now.After(p.VanishAt)
}

type cacheKey struct {
	service string
	usage   string
	domain  string
}

// Minter mints a new Pair signed by the agent's local CA for the given
// request triple, observing the leaf presented by the real upstream so
// fields like key usage and SAN shape can be mirrored.
type Minter interface {
	Mint(ctx context.Context, service, usage, domain string, upstreamLeaf *x509.Certificate) (*Pair, error)
}

// Agent is the fake-certificate agent of spec.md §4.5: a cache fronted by
// a singleflight group so concurrent requests for the same triple collapse
// into a single mint.
type Agent struct {
	cache   libcch.Cache[cacheKey, *Pair]
	group   singleflight.Group
	minter  Minter
	hardTTL time.Duration
	softTTL time.Duration

	refreshMu sync.Mutex
	refreshing map[cacheKey]bool
}

func NewAgent(ctx context.Context, minter Minter, hardTTL, softTTL time.Duration) *Agent {
	return &Agent{
		cache:      libcch.New[cacheKey, *Pair](ctx, hardTTL),
		minter:     minter,
		hardTTL:    hardTTL,
		softTTL:    softTTL,
		refreshing: make(map[cacheKey]bool),
	}
}

// PreFetch is the non-blocking lookup spec.md describes: a hit returns
// immediately (kicking off a background refresh if the soft TTL has
// elapsed); a miss returns (nil, false) without starting a mint.
func (a *Agent) PreFetch(service, usage, domain string) (*Pair, bool) {
	key := cacheKey{service, usage, domain}
	p, _, ok := a.cache.Load(key)
	if !ok {
		return nil, false
	}
	if p.stale(time.Now()) {
		a.backgroundRefresh(key, service, usage, domain)
	}
	return p, true
}

// Fetch is the blocking path: on a miss it mints (or awaits an in-flight
// mint for the same key) and populates the cache before returning.
func (a *Agent) Fetch(ctx context.Context, service, usage, domain string, upstreamLeaf *x509.Certificate) (*Pair, error) {
	key := cacheKey{service, usage, domain}
	if p, _, ok := a.cache.Load(key); ok && !p.stale(time.Now()) {
		return p, nil
	}

	groupKey := service + "\x00" + usage + "\x00" + domain
	v, err, _ := a.group.Do(groupKey, func() (interface{}, error) {
		p, mErr := a.minter.Mint(ctx, service, usage, domain, upstreamLeaf)
		if mErr != nil {
			return nil, mErr
		}
		now := time.Now()
		p.VanishAt = now.Add(a.softTTL)
		p.ExpireAt = now.Add(a.hardTTL)
		a.cache.Store(key, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Pair), nil
}

// backgroundRefresh enqueues at most one in-flight refresh per key,
// matching the same at-most-once semantics Fetch gets from singleflight,
// but fire-and-forget since the stale value is already being served.
func (a *Agent) backgroundRefresh(key cacheKey, service, usage, domain string) {
	a.refreshMu.Lock()
	if a.refreshing[key] {
		a.refreshMu.Unlock()
		return
	}
	a.refreshing[key] = true
	a.refreshMu.Unlock()

	go func() {
		defer func() {
			a.refreshMu.Lock()
			delete(a.refreshing, key)
			a.refreshMu.Unlock()
		}()
		_, _ = a.Fetch(context.Background(), service, usage, domain, nil)
	}()
}

func (a *Agent) Close() error {
	return a.cache.Close()
}
