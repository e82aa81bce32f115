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

package control

import (
	"encoding/json"
	"fmt"
)

// HandlerFunc implements one control-plane command. args come from the
// Request; the returned value is marshaled into the Response payload.
type HandlerFunc func(args map[string]string) (interface{}, error)

// Dispatcher is the small command table spec.md names: version, offline,
// cancel_shutdown, release_controller, list_<kind>, reload_<kind>,
// get_<kind>, force_quit_offline_server.
type Dispatcher struct {
	handlers map[string]HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]HandlerFunc)}
}

func (d *Dispatcher) Register(command string, fn HandlerFunc) {
	d.handlers[command] = fn
}

func (d *Dispatcher) Dispatch(req Request) Response {
	fn, ok := d.handlers[req.Command]
	if !ok {
		return Response{OK: false, Error: fmt.Sprintf("control: unknown command %q", req.Command)}
	}

	result, err := fn(req.Args)
	if err != nil {
		return Response{OK: false, Error: err.Error()}
	}

	if result == nil {
		return Response{OK: true}
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return Response{OK: false, Error: err.Error()}
	}
	return Response{OK: true, Payload: payload}
}

// RegisterListKind wires a list_<kind> verb returning the names known to
// listFn.
func (d *Dispatcher) RegisterListKind(kind string, listFn func() []string) {
	d.Register("list_"+kind, func(map[string]string) (interface{}, error) {
		return listFn(), nil
	})
}

// RegisterGetKind wires a get_<kind> verb, keyed by the "name" arg.
func (d *Dispatcher) RegisterGetKind(kind string, getFn func(name string) (interface{}, error)) {
	d.Register("get_"+kind, func(args map[string]string) (interface{}, error) {
		name := args["name"]
		if name == "" {
			return nil, fmt.Errorf("control: get_%s requires a name argument", kind)
		}
		return getFn(name)
	})
}

// RegisterReloadKind wires a reload_<kind> verb, keyed by the "name" arg.
func (d *Dispatcher) RegisterReloadKind(kind string, reloadFn func(name string) error) {
	d.Register("reload_"+kind, func(args map[string]string) (interface{}, error) {
		name := args["name"]
		if name == "" {
			return nil, fmt.Errorf("control: reload_%s requires a name argument", kind)
		}
		return nil, reloadFn(name)
	})
}
