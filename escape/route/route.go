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

// Package route implements the escaper selection tables: subnet longest-
// prefix match, suffix-domain match, and a default fallback, combined into
// a single ordered lookup (subnet first, then suffix, then default) the
// way g3proxy's route_upstream escaper picks its next hop.
package route

import (
	"net"
	"sort"
	"strings"
	"sync"
)

// SubnetMatch resolves an IP to a value T by longest-prefix CIDR match.
type SubnetMatch[T any] struct {
	mu      sync.RWMutex
	entries []subnetEntry[T]
}

type subnetEntry[T any] struct {
	network *net.IPNet
	value   T
}

func NewSubnetMatch[T any]() *SubnetMatch[T] {
	return &SubnetMatch[T]{}
}

// Add registers value for every address inside network. Rules may overlap;
// CheckIP always resolves to the entry with the longest (most specific) mask.
func (m *SubnetMatch[T]) Add(network *net.IPNet, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, subnetEntry[T]{network: network, value: value})
}

// CheckIP returns the value registered for the longest matching network
// containing ip, or the zero value and false if none matches.
func (m *SubnetMatch[T]) CheckIP(ip net.IP) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		best      T
		bestOnes  = -1
		bestFound bool
	)
	for _, e := range m.entries {
		if !e.network.Contains(ip) {
			continue
		}
		ones, _ := e.network.Mask.Size()
		if ones > bestOnes {
			bestOnes = ones
			best = e.value
			bestFound = true
		}
	}
	return best, bestFound
}

// SuffixMatch resolves a domain name to a value T by longest matching
// character suffix (not necessarily label-aligned, matching the
// original radix_trie-over-reversed-string behavior exactly).
type SuffixMatch[T any] struct {
	mu      sync.RWMutex
	entries []suffixEntry[T]
	sorted  bool
}

type suffixEntry[T any] struct {
	suffix string
	value  T
}

func NewSuffixMatch[T any]() *SuffixMatch[T] {
	return &SuffixMatch[T]{}
}

func (m *SuffixMatch[T]) Add(suffix string, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, suffixEntry[T]{suffix: suffix, value: value})
	m.sorted = false
}

// CheckDomain returns the value registered for the longest suffix of
// domain that was registered, or the zero value and false if none match.
func (m *SuffixMatch[T]) CheckDomain(domain string) (T, bool) {
	m.mu.Lock()
	if !m.sorted {
		sort.Slice(m.entries, func(i, j int) bool {
			return len(m.entries[i].suffix) > len(m.entries[j].suffix)
		})
		m.sorted = true
	}
	entries := m.entries
	m.mu.Unlock()

	for _, e := range entries {
		if strings.HasSuffix(domain, e.suffix) {
			return e.value, true
		}
	}
	var zero T
	return zero, false
}

// Table combines a subnet match, a suffix match, and a default value into
// the three-tier lookup order spec.md's routing rules describe: subnet
// first, then suffix, then default.
type Table[T any] struct {
	Subnet  *SubnetMatch[T]
	Suffix  *SuffixMatch[T]
	Default T
	HasDefault bool
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{Subnet: NewSubnetMatch[T](), Suffix: NewSuffixMatch[T]()}
}

// Resolve picks the next hop for a destination, given its host string
// (IP literal or domain name). It tries the subnet table if host parses
// as an IP, then the suffix table, then falls back to Default.
func (t *Table[T]) Resolve(host string) (T, bool) {
	if ip := net.ParseIP(host); ip != nil {
		if v, ok := t.Subnet.CheckIP(ip); ok {
			return v, true
		}
	}
	if v, ok := t.Suffix.CheckDomain(host); ok {
		return v, true
	}
	if t.HasDefault {
		return t.Default, true
	}
	var zero T
	return zero, false
}
