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

package task

import (
	"fmt"
	"time"

	liberr "github.com/nabbar/g3proxy/errors"
)

// error codes, one per failure kind named by the connection-lifecycle
// engine. Transient peer errors are never retried at this layer; they are
// logged once and terminate the task.
const (
	codeClientTCPReadFailed = liberr.MinPkgTask + iota
	codeClientTCPWriteFailed
	codeUpstreamReadFailed
	codeUpstreamWriteFailed
	codeClosedByClient
	codeClosedByUpstream
	codeInternalServerError
	codeInternalAdapterError
	codeCanceledAsUserBlocked
	codeCanceledAsServerQuit
	codeIdle
	codeStageTimeout
)

func ClientTCPReadFailed(parent error) liberr.Error {
	return liberr.New(codeClientTCPReadFailed, "client tcp read failed", parent)
}

func ClientTCPWriteFailed(parent error) liberr.Error {
	return liberr.New(codeClientTCPWriteFailed, "client tcp write failed", parent)
}

func UpstreamReadFailed(parent error) liberr.Error {
	return liberr.New(codeUpstreamReadFailed, "upstream read failed", parent)
}

func UpstreamWriteFailed(parent error) liberr.Error {
	return liberr.New(codeUpstreamWriteFailed, "upstream write failed", parent)
}

func ClosedByClient() liberr.Error {
	return liberr.New(codeClosedByClient, "closed by client")
}

func ClosedByUpstream() liberr.Error {
	return liberr.New(codeClosedByUpstream, "closed by upstream")
}

func InternalServerError(reason string) liberr.Error {
	return liberr.New(codeInternalServerError, reason)
}

func InternalAdapterError(reason string) liberr.Error {
	return liberr.New(codeInternalAdapterError, fmt.Sprintf("adapter error: %s", reason))
}

func CanceledAsUserBlocked() liberr.Error {
	return liberr.New(codeCanceledAsUserBlocked, "canceled as user blocked")
}

func CanceledAsServerQuit() liberr.Error {
	return liberr.New(codeCanceledAsServerQuit, "canceled as server quit")
}

// Idle reports the relay tick parameters at the moment a task was killed
// for inactivity: no byte moved in any direction for checkDuration*count.
func Idle(checkDuration time.Duration, count int) liberr.Error {
	return liberr.New(codeIdle, fmt.Sprintf("idle for %s x%d", checkDuration, count))
}

func StageTimeout(stage Stage, d time.Duration) liberr.Error {
	return liberr.New(codeStageTimeout, fmt.Sprintf("stage %s exceeded timeout %s", stage, d))
}
