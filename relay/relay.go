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

package relay

import (
	"io"
	"runtime"
	"time"

	libtsk "github.com/nabbar/g3proxy/task"
)

// DefaultBufferSize is the per-direction copy buffer size (spec.md: 16 KiB).
const DefaultBufferSize = 16 * 1024

// DefaultYieldSize is the number of bytes a direction moves in one round
// before voluntarily yielding to avoid starving its peer goroutine.
const DefaultYieldSize = 256 * 1024

// Config bundles the tunables spec.md names for the relay engine.
type Config struct {
	BufferSize  int
	YieldSize   int
	IdleCheck   time.Duration
	IdleMaxTick int
	FlushWait   time.Duration

	// ClientLimit / UpstreamLimit are the (global, chained with
	// per-connection) reader-side rate limits for each direction. Nil
	// means unlimited.
	ClientLimit   Chain
	UpstreamLimit Chain
}

func (c Config) bufferSize() int {
	if c.BufferSize > 0 {
		return c.BufferSize
	}
	return DefaultBufferSize
}

func (c Config) yieldSize() int {
	if c.YieldSize > 0 {
		return c.YieldSize
	}
	return DefaultYieldSize
}

// AuditHook, when non-nil, observes every chunk moved in each direction -
// the extension point the ICAP and stream-detour adapters hang off of
// instead of a plain io.Copy.
type AuditHook interface {
	OnClientToUpstream(p []byte)
	OnUpstreamToClient(p []byte)
}

// side identifies which of the two legs a copyLoop drives, so errors can
// be classified into the exact taxonomy spec.md §7 names.
type side int

const (
	sideClientToUpstream side = iota
	sideUpstreamToClient
)

// opError tags a raw I/O error with which leg and which operation (read or
// write) produced it, so Transit can classify it without guesswork.
type opError struct {
	s     side
	write bool
	err   error
}

type direction struct {
	s      side
	r      io.Reader
	w      io.Writer
	limit  Chain
	onMove func()
	audit  func([]byte)
}

// copyLoop drains r into w in bufferSize/yieldSize-bounded rounds,
// honoring the rate limiter and yielding cooperatively. Returns nil on
// clean EOF, or an *opError classifying the failed leg and operation.
func copyLoop(quit <-chan struct{}, forced func() bool, d direction, cfg Config) error {
	buf := make([]byte, cfg.bufferSize())
	moved := 0

	for {
		select {
		case <-quit:
			return nil
		default:
		}
		if forced != nil && forced() {
			return nil
		}

		want := len(buf)
		if d.limit != nil {
			dec := d.limit.Check(want)
			if dec.Advance == 0 {
				select {
				case <-time.After(dec.DelayFor):
				case <-quit:
					return nil
				}
				continue
			}
			want = dec.Advance
		}

		n, rerr := d.r.Read(buf[:want])
		if n > 0 {
			if d.limit != nil && n < want {
				d.limit.Release(want - n)
			}
			if d.audit != nil {
				d.audit(buf[:n])
			}
			if _, werr := d.w.Write(buf[:n]); werr != nil {
				return &opError{s: d.s, write: true, err: werr}
			}
			d.onMove()
			moved += n
			if moved >= cfg.yieldSize() {
				moved = 0
				runtime.Gosched()
			}
		} else if d.limit != nil {
			d.limit.Release(want)
		}

		if rerr != nil {
			if rerr == io.EOF {
				return nil
			}
			return &opError{s: d.s, write: false, err: rerr}
		}
	}
}

// Transit bidirectionally copies clt <-> ups until one side closes, an
// error occurs, the idle watchdog fires, or quit is closed. On a clean
// one-sided close the opposite direction is flushed with FlushWait before
// returning the appropriate ClosedBy* classification - a half-close is the
// normal termination path, not a fault.
func Transit(cltR io.Reader, cltW io.Writer, upsR io.Reader, upsW io.Writer, cfg Config, quit <-chan struct{}, forced func() bool, audit AuditHook) error {
	watchdog := newIdleWatchdog(cfg.IdleCheck, idleMax(cfg.IdleMaxTick))

	c2u := direction{
		s: sideClientToUpstream, r: cltR, w: upsW, limit: cfg.ClientLimit,
		onMove: watchdog.markClientActive,
	}
	u2c := direction{
		s: sideUpstreamToClient, r: upsR, w: cltW, limit: cfg.UpstreamLimit,
		onMove: watchdog.markUpstrActive,
	}
	if audit != nil {
		c2u.audit = audit.OnClientToUpstream
		u2c.audit = audit.OnUpstreamToClient
	}

	c2uDone := make(chan error, 1)
	u2cDone := make(chan error, 1)
	go func() { c2uDone <- copyLoop(quit, forced, c2u, cfg) }()
	go func() { u2cDone <- copyLoop(quit, forced, u2c, cfg) }()

	ticker := time.NewTicker(tickDuration(cfg.IdleCheck))
	defer ticker.Stop()

	var (
		c2uErr, u2cErr       error
		c2uExited, u2cExited bool
	)

	for {
		select {
		case c2uErr = <-c2uDone:
			c2uExited = true
		case u2cErr = <-u2cDone:
			u2cExited = true
		case <-ticker.C:
			if watchdog.tick() {
				return libtsk.Idle(watchdog.checkEvery, watchdog.count)
			}
			continue
		case <-quit:
			return libtsk.CanceledAsServerQuit()
		}

		if c2uExited && u2cExited {
			return classify(c2uErr, u2cErr)
		}
		if c2uExited || u2cExited {
			flushOpposite(cfg.FlushWait, c2uExited, u2cDone, c2uDone)
			return classify(c2uErr, u2cErr)
		}
	}
}

// classify turns whichever leg actually produced an error into the exact
// spec.md §7 error kind; a clean EOF on both sides (nil, nil) is reported
// as the client-initiated half-close, matching spec.md's note that this
// is the common case.
func classify(c2uErr, u2cErr error) error {
	if oe, ok := c2uErr.(*opError); ok {
		return opErrorTask(oe, true)
	}
	if oe, ok := u2cErr.(*opError); ok {
		return opErrorTask(oe, false)
	}
	return libtsk.ClosedByClient()
}

func opErrorTask(oe *opError, fromClientLeg bool) error {
	switch {
	case oe.s == sideClientToUpstream && !oe.write:
		return libtsk.ClientTCPReadFailed(oe.err)
	case oe.s == sideClientToUpstream && oe.write:
		return libtsk.UpstreamWriteFailed(oe.err)
	case oe.s == sideUpstreamToClient && !oe.write:
		return libtsk.UpstreamReadFailed(oe.err)
	default:
		return libtsk.ClientTCPWriteFailed(oe.err)
	}
}

func idleMax(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func tickDuration(d time.Duration) time.Duration {
	if d <= 0 || d > IdleMaximumCheckDuration {
		return IdleMaximumCheckDuration
	}
	return d
}

func flushOpposite(wait time.Duration, c2uDone bool, u2cDoneCh, c2uDoneCh chan error) {
	if wait <= 0 {
		wait = time.Second
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	if c2uDone {
		select {
		case <-u2cDoneCh:
		case <-timer.C:
		}
	} else {
		select {
		case <-c2uDoneCh:
		case <-timer.C:
		}
	}
}
