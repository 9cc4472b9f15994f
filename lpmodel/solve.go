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

import "fmt"

// Status is the result status reported by a backend solver.
type Status int

// The possible solve statuses.
const (
	StatusAbnormal Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusUnbounded
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusAbnormal:
		return "ABNORMAL"
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbounded:
		return "UNBOUNDED"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of one backend solve: the status, the solved
// value of every variable, and the achieved objective value.
type Result struct {
	Status    Status
	Values    map[VarName]float64
	Objective float64
}

// IsOptimal reports whether the solve proved optimality.
func (r *Result) IsOptimal() bool { return r.Status == StatusOptimal }

// Value returns the solved value of the variable.
func (r *Result) Value(v Variable) float64 { return r.Values[v.Name()] }

// BoolValue returns the solved value of a Boolean variable, rounding the
// numeric assignment the backend reports.
func (r *Result) BoolValue(v Variable) bool { return r.Values[v.Name()] > 0.5 }

// SolutionValue evaluates the expression under the variable assignment of
// the result.
func SolutionValue(r *Result, e Expression) float64 {
	val := e.Constant()
	for name, c := range e.Coefficients() {
		val += r.Values[name] * c
	}
	return val
}

// Backend solves compiled models. Implementations live outside this
// module; they translate the CompiledModel into native solver constructs,
// run the solver and report the outcome.
type Backend interface {
	Solve(m *CompiledModel) (*Result, error)
}

// Solve hands the compiled model to the backend adapter. Any failure the
// adapter reports is propagated wrapped in ErrBackend; this package never
// retries a solve.
func Solve(m *CompiledModel, be Backend) (*Result, error) {
	res, err := be.Solve(m)
	if err != nil {
		return nil, fmt.Errorf("solving with %v: %w: %w", m.Solver, ErrBackend, err)
	}
	return res, nil
}
