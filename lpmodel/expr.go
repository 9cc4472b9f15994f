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

package lpmodel

import (
	"fmt"

	log "github.com/golang/glog"
)

// VarName identifies a decision variable. Names are unique within one
// Builder and compare by value.
type VarName string

// Expression is the capability shared by everything that can appear on
// either side of a constraint or in the objective: a coefficient per
// variable name plus a constant offset.
//
// The map returned by Coefficients must be treated as read-only.
type Expression interface {
	Coefficients() map[VarName]float64
	Constant() float64
}

// Const is a bare scalar expression. It lets constants participate in
// every operator without inventing a synthetic constant variable.
type Const float64

// Coefficients returns nil; a constant references no variables.
func (c Const) Coefficients() map[VarName]float64 { return nil }

// Constant returns the scalar value.
func (c Const) Constant() float64 { return float64(c) }

// Term is a single scaled variable, e.g. 3*x.
type Term struct {
	Var   VarName
	Coeff float64
}

// Coefficients returns the one-entry coefficient map of the term.
func (t Term) Coefficients() map[VarName]float64 {
	return map[VarName]float64{t.Var: t.Coeff}
}

// Constant returns 0; a term carries no offset.
func (t Term) Constant() float64 { return 0 }

// LinearExpr is a container for a linear expression in canonical form:
// like terms are merged and entries whose coefficient cancels to zero are
// removed.
type LinearExpr struct {
	coeffs map[VarName]float64
	offset float64
}

// NewLinearExpr creates a new empty LinearExpr.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{coeffs: make(map[VarName]float64)}
}

// NewConstant creates and returns a LinearExpr containing the constant `c`.
func NewConstant(c float64) *LinearExpr {
	e := NewLinearExpr()
	e.offset = c
	return e
}

// Coefficients returns the coefficient map of the expression. The map is
// owned by the expression and must not be mutated by the caller.
func (l *LinearExpr) Coefficients() map[VarName]float64 { return l.coeffs }

// Constant returns the constant offset of the expression.
func (l *LinearExpr) Constant() float64 { return l.offset }

// Add adds the expression to the LinearExpr and returns itself.
func (l *LinearExpr) Add(e Expression) *LinearExpr {
	return l.AddTerm(e, 1)
}

// Sub subtracts the expression from the LinearExpr and returns itself.
func (l *LinearExpr) Sub(e Expression) *LinearExpr {
	return l.AddTerm(e, -1)
}

// AddConstant adds the constant to the LinearExpr and returns itself.
func (l *LinearExpr) AddConstant(c float64) *LinearExpr {
	l.offset += c
	return l
}

// AddTerm adds the expression scaled by `coeff` to the LinearExpr and
// returns itself. Like terms are merged; an entry whose merged
// coefficient is exactly zero is dropped, so `x - x` leaves no entry
// behind.
func (l *LinearExpr) AddTerm(e Expression, coeff float64) *LinearExpr {
	for name, c := range e.Coefficients() {
		sum := l.coeffs[name] + c*coeff
		if sum == 0 {
			delete(l.coeffs, name)
		} else {
			l.coeffs[name] = sum
		}
	}
	l.offset += e.Constant() * coeff
	return l
}

// AddSum adds the sum of the expressions to the LinearExpr and returns
// itself.
func (l *LinearExpr) AddSum(es ...Expression) *LinearExpr {
	for _, e := range es {
		l.Add(e)
	}
	return l
}

// AddWeightedSum adds the expressions with the corresponding coefficients
// to the LinearExpr and returns itself.
func (l *LinearExpr) AddWeightedSum(es []Expression, coeffs []float64) *LinearExpr {
	if len(coeffs) != len(es) {
		log.Fatalf("es and coeffs must be the same length: %v != %v", len(es), len(coeffs))
	}
	for i, e := range es {
		l.AddTerm(e, coeffs[i])
	}
	return l
}

// Sum returns a + b as a new expression with like terms merged.
func Sum(a, b Expression) *LinearExpr {
	return NewLinearExpr().Add(a).Add(b)
}

// Diff returns a - b as a new expression with like terms merged.
func Diff(a, b Expression) *LinearExpr {
	return NewLinearExpr().Add(a).AddTerm(b, -1)
}

// Neg returns -e: every coefficient and the constant negated.
func Neg(e Expression) *LinearExpr {
	return NewLinearExpr().AddTerm(e, -1)
}

// Scale returns e scaled by `k`. Scaling by zero short-circuits to the
// empty expression so that no zero-coefficient entries leak downstream.
func Scale(e Expression, k float64) *LinearExpr {
	if k == 0 {
		return NewLinearExpr()
	}
	return NewLinearExpr().AddTerm(e, k)
}

// Quot returns e divided by `k`. Dividing by zero is not a valid model
// transformation and returns ErrDivisionByZero rather than an expression
// full of infinities.
func Quot(e Expression, k float64) (*LinearExpr, error) {
	if k == 0 {
		return nil, fmt.Errorf("dividing expression by zero: %w", ErrDivisionByZero)
	}
	out := NewLinearExpr()
	for name, c := range e.Coefficients() {
		if q := c / k; q != 0 {
			out.coeffs[name] = q
		}
	}
	out.offset = e.Constant() / k
	return out, nil
}
