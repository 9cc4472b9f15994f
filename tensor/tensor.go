// Copyright 2010-2024 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tensor provides a generic multi-dimensional container whose
// entries are addressed by tuples of keys drawn from per-dimension
// domains, typically used to hold grids of decision variables or
// coefficients.
//
// A Tensor is built over declared key domains (one ordered domain per
// dimension), populated once with Set or Fill, and read many times with
// Get and Slice. Slice produces a lower-dimensional tensor by collapsing
// the dimensions addressed with an exact selector while preserving the
// dimensions addressed with Any.
//
// Tensors are not synchronized: populate from a single goroutine, then
// share freely for reads.
package tensor

import (
	"errors"
	"fmt"
)

// The errors reported by tensor operations; match with errors.Is.
var (
	// ErrInvalidKey holds the error when a key is outside its dimension's
	// declared domain or the number of keys does not match the
	// dimensionality.
	ErrInvalidKey = errors.New("key is not valid for the tensor")
	// ErrAllDimensionsCollapsed holds the error when a Slice call selects
	// an exact key in every dimension; use Get for a single entry.
	ErrAllDimensionsCollapsed = errors.New("all dimensions collapsed, use Get instead")
)

// Selector addresses one dimension in a Slice call: either one exact key,
// which collapses the dimension, or Any, which preserves it.
type Selector[K comparable] struct {
	key K
	any bool
}

// Key returns a selector that collapses a dimension to the single key
// `k`.
func Key[K comparable](k K) Selector[K] { return Selector[K]{key: k} }

// Any returns the wildcard selector that preserves a dimension with all
// of its keys.
func Any[K comparable]() Selector[K] { return Selector[K]{any: true} }

// node is one level of the nested storage: a branch holds children keyed
// by the next tuple element, a leaf (kids == nil) holds a value.
type node[K comparable, V any] struct {
	leaf V
	kids map[K]*node[K, V]
}

func newBranch[K comparable, V any]() *node[K, V] {
	return &node[K, V]{kids: make(map[K]*node[K, V])}
}

// Tensor is a keyed multi-dimensional container. See the package
// documentation for the construction and access model.
type Tensor[K comparable, V any] struct {
	dims      [][]K
	domains   []map[K]struct{}
	root      *node[K, V]
	size      int
	defaultFn func(keys []K) V
}

// Option configures a tensor at construction time.
type Option[K comparable, V any] func(*Tensor[K, V])

// WithDefault installs a provider invoked by Get when the addressed tuple
// has no stored value. Without it, Get returns the zero value for absent
// tuples.
func WithDefault[K comparable, V any](fn func(keys []K) V) Option[K, V] {
	return func(t *Tensor[K, V]) { t.defaultFn = fn }
}

// New creates an empty tensor over the given key domains, one ordered
// domain per dimension. Domains are copied; a duplicate key within one
// domain, or an empty domain list, is an ErrInvalidKey construction
// error.
func New[K comparable, V any](dims [][]K, opts ...Option[K, V]) (*Tensor[K, V], error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("tensor needs at least one dimension: %w", ErrInvalidKey)
	}
	t := &Tensor[K, V]{
		dims:    make([][]K, len(dims)),
		domains: make([]map[K]struct{}, len(dims)),
		root:    newBranch[K, V](),
	}
	for i, dim := range dims {
		t.dims[i] = append([]K(nil), dim...)
		set := make(map[K]struct{}, len(dim))
		for _, k := range dim {
			if _, dup := set[k]; dup {
				return nil, fmt.Errorf("duplicate key %v in dimension %d: %w", k, i, ErrInvalidKey)
			}
			set[k] = struct{}{}
		}
		t.domains[i] = set
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Fill creates a tensor and stores one value per tuple of the cartesian
// product of the domains, enumerated depth-first in declared dimension
// order. `fn` receives the full key tuple of each entry.
func Fill[K comparable, V any](dims [][]K, fn func(keys []K) V, opts ...Option[K, V]) (*Tensor[K, V], error) {
	t, err := New[K, V](dims, opts...)
	if err != nil {
		return nil, err
	}
	keys := make([]K, len(t.dims))
	var walk func(d int)
	walk = func(d int) {
		if d == len(t.dims) {
			t.insert(keys, fn(append([]K(nil), keys...)))
			return
		}
		for _, k := range t.dims[d] {
			keys[d] = k
			walk(d + 1)
		}
	}
	walk(0)
	return t, nil
}

// Rank returns the number of dimensions.
func (t *Tensor[K, V]) Rank() int { return len(t.dims) }

// Dims returns a copy of the per-dimension key domains.
func (t *Tensor[K, V]) Dims() [][]K {
	out := make([][]K, len(t.dims))
	for i, dim := range t.dims {
		out[i] = append([]K(nil), dim...)
	}
	return out
}

// Len returns the number of stored entries.
func (t *Tensor[K, V]) Len() int { return t.size }

func (t *Tensor[K, V]) checkKeys(keys []K) error {
	if len(keys) != len(t.dims) {
		return fmt.Errorf("got %d keys for a %d-dimensional tensor: %w", len(keys), len(t.dims), ErrInvalidKey)
	}
	for i, k := range keys {
		if _, ok := t.domains[i][k]; !ok {
			return fmt.Errorf("key %v is not in dimension %d: %w", k, i, ErrInvalidKey)
		}
	}
	return nil
}

// insert stores the value at the already-validated tuple. It does not
// retain `keys`.
func (t *Tensor[K, V]) insert(keys []K, v V) {
	n := t.root
	for _, k := range keys[:len(keys)-1] {
		child := n.kids[k]
		if child == nil {
			child = newBranch[K, V]()
			n.kids[k] = child
		}
		n = child
	}
	last := keys[len(keys)-1]
	if n.kids[last] == nil {
		t.size++
	}
	n.kids[last] = &node[K, V]{leaf: v}
}

// Set stores the value at the given full key tuple. The tuple must match
// the dimensionality and every key must belong to its dimension's domain.
func (t *Tensor[K, V]) Set(v V, keys ...K) error {
	if err := t.checkKeys(keys); err != nil {
		return err
	}
	t.insert(keys, v)
	return nil
}

// Get returns the value stored at the given full key tuple. If the tuple
// is valid but absent, the default provider is invoked when one is
// installed; otherwise the zero value is returned.
func (t *Tensor[K, V]) Get(keys ...K) (V, error) {
	var zero V
	if err := t.checkKeys(keys); err != nil {
		return zero, err
	}
	n := t.root
	for _, k := range keys {
		n = n.kids[k]
		if n == nil {
			if t.defaultFn != nil {
				return t.defaultFn(append([]K(nil), keys...)), nil
			}
			return zero, nil
		}
	}
	return n.leaf, nil
}

// Slice returns a reduced tensor. For dimension i, selector i collapses
// it to one key (Key) or preserves it with all of its keys (Any);
// dimensions beyond the given selectors are preserved. The result's
// dimensions are exactly the preserved subsequence, in order. Absent
// branches are pruned, never defaulted, and the result carries no default
// provider.
//
// Collapsing every dimension is a usage error (ErrAllDimensionsCollapsed);
// use Get instead.
func (t *Tensor[K, V]) Slice(sels ...Selector[K]) (*Tensor[K, V], error) {
	if len(sels) > len(t.dims) {
		return nil, fmt.Errorf("got %d selectors for a %d-dimensional tensor: %w", len(sels), len(t.dims), ErrInvalidKey)
	}

	var keptDims [][]K
	var keptDomains []map[K]struct{}
	for i := range t.dims {
		if i < len(sels) && !sels[i].any {
			if _, ok := t.domains[i][sels[i].key]; !ok {
				return nil, fmt.Errorf("key %v is not in dimension %d: %w", sels[i].key, i, ErrInvalidKey)
			}
			continue
		}
		keptDims = append(keptDims, t.dims[i])
		keptDomains = append(keptDomains, t.domains[i])
	}
	if len(keptDims) == 0 {
		return nil, fmt.Errorf("slicing a %d-dimensional tensor: %w", len(t.dims), ErrAllDimensionsCollapsed)
	}

	out := &Tensor[K, V]{
		dims:    keptDims,
		domains: keptDomains,
		root:    newBranch[K, V](),
	}
	path := make([]K, 0, len(keptDims))
	var reduce func(n *node[K, V], d int)
	reduce = func(n *node[K, V], d int) {
		if d == len(t.dims) {
			out.insert(path, n.leaf)
			return
		}
		if d < len(sels) && !sels[d].any {
			if child := n.kids[sels[d].key]; child != nil {
				reduce(child, d+1)
			}
			return
		}
		for _, k := range t.dims[d] {
			child := n.kids[k]
			if child == nil {
				continue
			}
			path = append(path, k)
			reduce(child, d+1)
			path = path[:len(path)-1]
		}
	}
	reduce(t.root, 0)

	return out, nil
}

// ForEach calls fn for every stored entry, enumerating tuples in declared
// dimension and domain order. The key slice passed to fn is owned by the
// callee.
func (t *Tensor[K, V]) ForEach(fn func(keys []K, v V)) {
	keys := make([]K, len(t.dims))
	var walk func(n *node[K, V], d int)
	walk = func(n *node[K, V], d int) {
		if d == len(t.dims) {
			fn(append([]K(nil), keys...), n.leaf)
			return
		}
		for _, k := range t.dims[d] {
			child := n.kids[k]
			if child == nil {
				continue
			}
			keys[d] = k
			walk(child, d+1)
		}
	}
	walk(t.root, 0)
}

// Keys returns the stored tuples in declared dimension and domain order.
func (t *Tensor[K, V]) Keys() [][]K {
	out := make([][]K, 0, t.size)
	t.ForEach(func(keys []K, _ V) { out = append(out, keys) })
	return out
}

// Values returns the stored values in declared dimension and domain
// order.
func (t *Tensor[K, V]) Values() []V {
	out := make([]V, 0, t.size)
	t.ForEach(func(_ []K, v V) { out = append(out, v) })
	return out
}
