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

// Package task implements the connection-lifecycle engine: from an accepted
// stream to a terminated task, with stage tracking, cooperative shutdown and
// idle detection.
package task

import (
	"fmt"
)

// Stage is one point in a task's monotonic lifecycle. Transitions only ever
// move forward; once Finished is reached the task is immutable.
type Stage uint32

const (
	Preparing Stage = iota
	Connecting
	Connected
	Relaying
	Finished
)

func (s Stage) String() string {
	switch s {
	case Preparing:
		return "Preparing"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Relaying:
		return "Relaying"
	case Finished:
		return "Finished"
	default:
		return fmt.Sprintf("Stage(%d)", uint32(s))
	}
}
