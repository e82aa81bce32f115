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
	"sync/atomic"
	"time"
)

// IdleMaximumCheckDuration bounds task_idle_check_duration, per spec.md's
// IDLE_CHECK_MAXIMUM_DURATION.
const IdleMaximumCheckDuration = 30 * time.Second

// idleWatchdog increments idleCount every tick that saw no byte movement in
// either direction; any movement resets it to zero. Crossing maxCount
// terminates the relay with Idle(duration, count).
type idleWatchdog struct {
	checkEvery time.Duration
	maxCount   int
	count      int
	clientActive atomic.Bool
	upstrActive  atomic.Bool
}

func newIdleWatchdog(checkEvery time.Duration, maxCount int) *idleWatchdog {
	if checkEvery <= 0 || checkEvery > IdleMaximumCheckDuration {
		checkEvery = IdleMaximumCheckDuration
	}
	return &idleWatchdog{checkEvery: checkEvery, maxCount: maxCount}
}

func (w *idleWatchdog) markClientActive() { w.clientActive.Store(true) }
func (w *idleWatchdog) markUpstrActive()  { w.upstrActive.Store(true) }

// tick returns true if the watchdog has crossed its max idle count.
func (w *idleWatchdog) tick() bool {
	moved := w.clientActive.Swap(false) || w.upstrActive.Swap(false)
	if moved {
		w.count = 0
		return false
	}
	w.count++
	return w.count >= w.maxCount
}

func (w *idleWatchdog) elapsed() time.Duration {
	return w.checkEvery * time.Duration(w.count)
}
