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

package icap

// Verdict is the outcome of one adaptation round-trip, matching the four
// cases named by spec.md §4.6.
type Verdict int

const (
	// VerdictAllow means the message passed unmodified (204 No Content).
	VerdictAllow Verdict = iota
	// VerdictModify means the service returned a rewritten message body
	// (200 OK with an encapsulated payload).
	VerdictModify
	// VerdictBlock means the service short-circuited the exchange
	// (status >= 300): the encapsulated payload, if any, is the block
	// page to serve back to the client instead of the original message.
	VerdictBlock
)

// Result bundles the verdict with whatever body bytes accompanied it.
type Result struct {
	Verdict Verdict
	Status  Status
	Body    []byte
}

func classifyStatus(resp *Response) Result {
	switch {
	case resp.Status.Code == 204:
		return Result{Verdict: VerdictAllow, Status: resp.Status}
	case resp.Status.Code == 200:
		return Result{Verdict: VerdictModify, Status: resp.Status, Body: resp.Body}
	default:
		return Result{Verdict: VerdictBlock, Status: resp.Status, Body: resp.Body}
	}
}
