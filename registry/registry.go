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

// Package registry tracks named entities (servers, escapers, resolvers)
// and the dependency edges between them (a server depends on an escaper,
// an escaper depends on a resolver), generalizing the teacher's cluster
// package's named-peer membership tracking to a dependency graph that
// must stay acyclic across reloads.
package registry

import (
	"fmt"
	"sync"

	liberr "github.com/nabbar/g3proxy/errors"
)

const (
	codeUnknownNode = liberr.MinPkgRegistry + iota
	codeCycleDetected
	codeDuplicateNode
)

func errUnknownNode(name string) liberr.Error {
	return liberr.New(codeUnknownNode, fmt.Sprintf("registry: no node named %q", name))
}

func errCycleDetected(path []string) liberr.Error {
	return liberr.New(codeCycleDetected, fmt.Sprintf("registry: dependency cycle through %v", path))
}

func errDuplicateNode(name string) liberr.Error {
	return liberr.New(codeDuplicateNode, fmt.Sprintf("registry: node %q already registered", name))
}

// Kind tags what an entity in the registry represents, for diagnostics
// and for the control plane's list_<kind>/reload_<kind>/get_<kind> verbs.
type Kind string

const (
	KindServer   Kind = "server"
	KindEscaper  Kind = "escaper"
	KindResolver Kind = "resolver"
)

// Node is one named entity tracked by the registry, plus the names of
// the other nodes it depends on (e.g. a server's escaper, an escaper's
// resolver).
type node struct {
	name    string
	kind    Kind
	value   interface{}
	depends []string
}

// Registry is a thread-safe named-entity store with DFS-validated
// dependency edges: Register rejects any edge that would close a cycle.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]*node
}

func New() *Registry {
	return &Registry{nodes: make(map[string]*node)}
}

// Register adds name to the registry with the given dependency list. It
// walks the existing graph with a depth-first search and a visited set
// to reject dependency lists that would introduce a cycle.
func (r *Registry) Register(name string, kind Kind, value interface{}, depends []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[name]; exists {
		return errDuplicateNode(name)
	}

	n := &node{name: name, kind: kind, value: value, depends: depends}
	r.nodes[name] = n

	visited := make(map[string]bool)
	if path, cyclic := r.hasCycleFrom(name, visited, nil); cyclic {
		delete(r.nodes, name)
		return errCycleDetected(path)
	}

	return nil
}

// hasCycleFrom performs the DFS walk from name, tracking the current
// path so a detected cycle's chain can be reported in the error.
func (r *Registry) hasCycleFrom(name string, visited map[string]bool, path []string) ([]string, bool) {
	if visited[name] {
		return append(append([]string{}, path...), name), true
	}
	visited[name] = true
	path = append(path, name)

	n, ok := r.nodes[name]
	if !ok {
		return nil, false
	}
	for _, dep := range n.depends {
		if p, cyclic := r.hasCycleFrom(dep, visited, path); cyclic {
			return p, true
		}
	}
	delete(visited, name)
	return nil, false
}

// Get returns the value registered under name.
func (r *Registry) Get(name string) (interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.nodes[name]
	if !ok {
		return nil, errUnknownNode(name)
	}
	return n.value, nil
}

// Remove drops name from the registry, refusing if another node still
// depends on it.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.nodes[name]; !ok {
		return errUnknownNode(name)
	}
	for other, n := range r.nodes {
		if other == name {
			continue
		}
		for _, dep := range n.depends {
			if dep == name {
				return liberr.New(codeUnknownNode, fmt.Sprintf("registry: %q still depends on %q", other, name))
			}
		}
	}
	delete(r.nodes, name)
	return nil
}

// List returns the names of every registered node of the given kind.
func (r *Registry) List(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for name, n := range r.nodes {
		if n.kind == kind {
			out = append(out, name)
		}
	}
	return out
}
