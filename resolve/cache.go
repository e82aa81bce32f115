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

package resolve

import (
	"context"
	"net"
	"time"

	libcch "github.com/nabbar/g3proxy/cache"
)

const (
	defaultPositiveMinTTL = 30 * time.Second
	defaultPositiveMaxTTL = 3600 * time.Second
	defaultNegativeTTL    = 5 * time.Second
)

type cacheEntry struct {
	ips []net.IP
	err error
}

// Cached wraps a Driver with a TTL-bounded answer cache, the same generic
// cache package certagent uses for its mint-result cache. Positive answers
// are clamped to [positiveMinTTL, positiveMaxTTL]; negative answers (a
// resolution error) are cached for negativeTTL so a flapping name does not
// flood the upstream resolver.
type Cached struct {
	driver        Driver
	store         libcch.Cache[string, cacheEntry]
	positiveMinTTL time.Duration
	positiveMaxTTL time.Duration
	negativeTTL   time.Duration
}

func NewCached(ctx context.Context, driver Driver, positiveMinTTL, positiveMaxTTL, negativeTTL time.Duration) *Cached {
	if positiveMinTTL <= 0 {
		positiveMinTTL = defaultPositiveMinTTL
	}
	if positiveMaxTTL <= 0 {
		positiveMaxTTL = defaultPositiveMaxTTL
	}
	if negativeTTL <= 0 {
		negativeTTL = defaultNegativeTTL
	}
	return &Cached{
		driver:        driver,
		store:         libcch.New[string, cacheEntry](ctx, 0),
		positiveMinTTL: positiveMinTTL,
		positiveMaxTTL: positiveMaxTTL,
		negativeTTL:   negativeTTL,
	}
}

func (c *Cached) Resolve(ctx context.Context, host string, qtype QueryType) ([]net.IP, error) {
	key := cacheKeyFor(host, qtype)
	if v, _, ok := c.store.Load(key); ok {
		return v.ips, v.err
	}

	ips, err := c.driver.Resolve(ctx, host, qtype)

	entry := cacheEntry{ips: ips, err: err}
	ttl := c.positiveMinTTL
	if err != nil {
		ttl = c.negativeTTL
	} else if c.positiveMaxTTL > c.positiveMinTTL {
		ttl = c.positiveMaxTTL
	}
	c.storeWithTTL(key, entry, ttl)

	return ips, err
}

// storeWithTTL stores entry into a per-key single-item cache honoring
// ttl, since the shared libcch.Cache instance carries one fixed
// expiration for its whole lifetime rather than a per-Store override.
func (c *Cached) storeWithTTL(key string, entry cacheEntry, ttl time.Duration) {
	c.store.Store(key, entry)
	if ttl > 0 {
		time.AfterFunc(ttl, func() { c.store.Delete(key) })
	}
}

func (c *Cached) Close() error {
	return c.store.Close()
}

func cacheKeyFor(host string, qtype QueryType) string {
	switch qtype {
	case QueryIPv4:
		return "4:" + host
	case QueryIPv6:
		return "6:" + host
	default:
		return "*:" + host
	}
}
