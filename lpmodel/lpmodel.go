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

// Package lpmodel offers a solver-agnostic API to build linear and
// mixed-integer optimization models.
//
// The `Builder` struct holds the variables, constraints and objective of
// one model under construction and provides helper methods for adding to
// them. The `Variable`, `Term` and `LinearExpr` types form a closed
// expression algebra that keeps every expression in canonical form (like
// terms merged, cancelled terms removed). `Build` validates the model and
// emits an immutable `CompiledModel` for a backend solver adapter.
//
// A Builder is not safe for concurrent use: one caller populates it
// during a single construction phase. The CompiledModel it produces is
// read-only and may be shared freely.
package lpmodel

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

// The errors reported by model construction and compilation. They are
// wrapped with the offending name or call context; match with errors.Is.
var (
	// ErrDuplicateName holds the error when a variable name is registered twice.
	ErrDuplicateName = errors.New("variable name already exists")
	// ErrDivisionByZero holds the error when an expression is divided by zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNoVariables holds the error when Build is called on a model without variables.
	ErrNoVariables = errors.New("model has no variables")
	// ErrNoConstraints holds the error when Build is called on a model without constraints.
	ErrNoConstraints = errors.New("model has no constraints")
	// ErrNoObjective holds the error when Build is called before an objective is set.
	ErrNoObjective = errors.New("model has no objective")
	// ErrNoSolver holds the error when Build is called before a solver is chosen.
	ErrNoSolver = errors.New("model has no solver selected")
	// ErrBackend wraps any failure surfaced by a backend solver adapter.
	ErrBackend = errors.New("backend solver failure")
)

// VarKind is the kind of a decision variable.
type VarKind int

// The supported variable kinds.
const (
	Bool VarKind = iota
	Integer
	Numeric
)

// String implements fmt.Stringer.
func (k VarKind) String() string {
	switch k {
	case Bool:
		return "Bool"
	case Integer:
		return "Integer"
	case Numeric:
		return "Numeric"
	}
	return fmt.Sprintf("VarKind(%d)", int(k))
}

// Variable is an immutable reference to a decision variable registered in
// a Builder. Boolean variables are implicitly bounded to [0,1]; integer
// and numeric variables default to (-Inf,+Inf).
type Variable struct {
	name VarName
	kind VarKind
	lb   float64
	ub   float64
}

// Name returns the name of the variable.
func (v Variable) Name() VarName { return v.name }

// Kind returns the kind of the variable.
func (v Variable) Kind() VarKind { return v.kind }

// LowerBound returns the lower bound of the variable.
func (v Variable) LowerBound() float64 { return v.lb }

// UpperBound returns the upper bound of the variable.
func (v Variable) UpperBound() float64 { return v.ub }

// Coefficients returns the one-entry coefficient map {name: 1}.
func (v Variable) Coefficients() map[VarName]float64 {
	return map[VarName]float64{v.name: 1}
}

// Constant returns 0; a bare variable carries no offset.
func (v Variable) Constant() float64 { return 0 }

// Times returns the variable scaled by `c`. Scaling by zero degenerates
// to the empty expression, never to a stored zero term.
func (v Variable) Times(c float64) Expression {
	if c == 0 {
		return NewLinearExpr()
	}
	return Term{Var: v.name, Coeff: c}
}

// Plus returns v + e.
func (v Variable) Plus(e Expression) *LinearExpr { return Sum(v, e) }

// Minus returns v - e.
func (v Variable) Minus(e Expression) *LinearExpr { return Diff(v, e) }

// Relation is the relational operator of a constraint.
type Relation int

// The supported constraint relations.
const (
	LE Relation = iota
	EQ
	GE
)

// String implements fmt.Stringer.
func (r Relation) String() string {
	switch r {
	case LE:
		return "<="
	case EQ:
		return "=="
	case GE:
		return ">="
	}
	return fmt.Sprintf("Relation(%d)", int(r))
}

// SolverType selects the backend solver the compiled model is intended
// for. The zero value means no solver has been chosen yet.
type SolverType int

// The known backend solvers.
const (
	SolverUnspecified SolverType = iota
	SolverGLOP
	SolverCBC
	SolverHiGHS
	SolverSCIP
)

// String implements fmt.Stringer.
func (s SolverType) String() string {
	switch s {
	case SolverUnspecified:
		return "UNSPECIFIED"
	case SolverGLOP:
		return "GLOP"
	case SolverCBC:
		return "CBC"
	case SolverHiGHS:
		return "HiGHS"
	case SolverSCIP:
		return "SCIP"
	}
	return fmt.Sprintf("SolverType(%d)", int(s))
}

// DefaultTolerance is the numeric tolerance handed to the backend when
// SetTolerance is never called.
const DefaultTolerance = 1e-6

type constraintData struct {
	name string
	lhs  Expression
	rhs  Expression
	rel  Relation
}

type objectiveData struct {
	expr     Expression
	maximize bool
}

// Builder accumulates the variables, constraints and objective of one
// optimization model. The zero value is not usable; create one with
// NewBuilder.
type Builder struct {
	vars        []Variable
	varIndex    map[VarName]int
	seq         int
	constraints []constraintData
	objective   *objectiveData
	solver      SolverType
	tolerance   float64
}

// NewBuilder creates and returns a new model Builder.
func NewBuilder() *Builder {
	return &Builder{
		varIndex:  make(map[VarName]int),
		tolerance: DefaultTolerance,
	}
}

// NewBoolVar creates a new Boolean variable. An empty name auto-generates
// one; see NewNumVar.
func (b *Builder) NewBoolVar(name string) (Variable, error) {
	return b.newVar(Bool, name, 0, 1)
}

// NewIntVar creates a new integer variable with the bounds [lb,ub]. Use
// math.Inf for an unbounded side. An empty name auto-generates one; see
// NewNumVar.
func (b *Builder) NewIntVar(name string, lb, ub float64) (Variable, error) {
	return b.newVar(Integer, name, lb, ub)
}

// NewNumVar creates a new continuous variable with the bounds [lb,ub].
// Use math.Inf for an unbounded side.
//
// Make `name` an empty string if you would like a unique variable name to
// be generated (`x1`, `x2`, ... per builder). Otherwise an error is
// returned if the provided `name` already exists as a variable name.
func (b *Builder) NewNumVar(name string, lb, ub float64) (Variable, error) {
	return b.newVar(Numeric, name, lb, ub)
}

func (b *Builder) newVar(kind VarKind, name string, lb, ub float64) (Variable, error) {
	resolved := VarName(name)
	auto := false
	if name == "" {
		resolved = VarName(fmt.Sprintf("x%d", b.seq+1))
		auto = true
	}
	if _, ok := b.varIndex[resolved]; ok {
		return Variable{}, fmt.Errorf("variable %q: %w", resolved, ErrDuplicateName)
	}
	if auto {
		b.seq++
	}

	v := Variable{name: resolved, kind: kind, lb: lb, ub: ub}
	b.varIndex[resolved] = len(b.vars)
	b.vars = append(b.vars, v)

	return v, nil
}

// LookupVar returns the variable with the given name, and whether it
// exists in the model.
func (b *Builder) LookupVar(name VarName) (Variable, bool) {
	i, ok := b.varIndex[name]
	if !ok {
		return Variable{}, false
	}
	return b.vars[i], true
}

// NumVars returns the number of variables in the model.
func (b *Builder) NumVars() int { return len(b.vars) }

// NumConstraints returns the number of constraints in the model.
func (b *Builder) NumConstraints() int { return len(b.constraints) }

// Constraint is a reference to a constraint in the model.
type Constraint struct {
	ind int
	b   *Builder
}

// WithName sets the name of the constraint. The name only surfaces in
// diagnostics and in the compiled model; it has no solving semantics.
func (c Constraint) WithName(s string) Constraint {
	c.b.constraints[c.ind].name = s
	return c
}

// Name returns the name of the constraint.
func (c Constraint) Name() string { return c.b.constraints[c.ind].name }

// Index returns the declaration index of the constraint.
func (c Constraint) Index() int { return c.ind }

// AddConstraint adds the constraint `lhs rel rhs` to the model and
// returns a reference to it. Constraints are kept in declaration order.
func (b *Builder) AddConstraint(lhs, rhs Expression, rel Relation) Constraint {
	b.constraints = append(b.constraints, constraintData{lhs: lhs, rhs: rhs, rel: rel})
	return Constraint{b: b, ind: len(b.constraints) - 1}
}

// AddLessOrEqual adds the constraint `lhs <= rhs`.
func (b *Builder) AddLessOrEqual(lhs, rhs Expression) Constraint {
	return b.AddConstraint(lhs, rhs, LE)
}

// AddEquality adds the constraint `lhs == rhs`.
func (b *Builder) AddEquality(lhs, rhs Expression) Constraint {
	return b.AddConstraint(lhs, rhs, EQ)
}

// AddGreaterOrEqual adds the constraint `lhs >= rhs`.
func (b *Builder) AddGreaterOrEqual(lhs, rhs Expression) Constraint {
	return b.AddConstraint(lhs, rhs, GE)
}

// Minimize sets a linear minimization objective, replacing any previously
// set objective.
func (b *Builder) Minimize(e Expression) { b.setObjective(e, false) }

// Maximize sets a linear maximization objective, replacing any previously
// set objective.
func (b *Builder) Maximize(e Expression) { b.setObjective(e, true) }

func (b *Builder) setObjective(e Expression, maximize bool) {
	if b.objective != nil {
		log.Warningf("model objective replaced; the previous objective is discarded")
	}
	b.objective = &objectiveData{expr: e, maximize: maximize}
}

// SetSolver selects the backend solver the model is compiled for.
func (b *Builder) SetSolver(s SolverType) { b.solver = s }

// SetTolerance sets the numeric tolerance handed to the backend.
func (b *Builder) SetTolerance(tol float64) { b.tolerance = tol }

// CompiledConstraint is one relational constraint normalized to
// `Lower <= sum(Coefficients[v]*v) <= Upper`, with math.Inf marking an
// unconstrained side. Zero-valued coefficient entries are filtered out
// during compilation.
type CompiledConstraint struct {
	Name         string
	Coefficients map[VarName]float64
	Lower        float64
	Upper        float64
}

// CompiledObjective is the objective in coefficient form.
type CompiledObjective struct {
	Coefficients map[VarName]float64
	Offset       float64
	Maximize     bool
}

// CompiledModel is the validated, backend-agnostic output of Build. It
// shares no state with the Builder that produced it and is safe for
// concurrent reads.
type CompiledModel struct {
	Variables   []Variable
	Constraints []CompiledConstraint
	Objective   CompiledObjective
	Solver      SolverType
	Tolerance   float64
}

// Build validates the model and compiles it into a CompiledModel.
//
// Validation requires at least one variable, at least one constraint, an
// objective and a solver choice; the first missing precondition is
// reported as ErrNoVariables, ErrNoConstraints, ErrNoObjective or
// ErrNoSolver respectively.
//
// Each constraint `lhs rel rhs` is normalized by folding `lhs - rhs` into
// a single canonical expression whose constant becomes the finite bound:
// LE keeps a finite upper bound, GE a finite lower bound and EQ pins both
// bounds to the same value.
//
// Build is a pure translation: it can be called repeatedly and returns
// the same result as long as the Builder is not mutated in between.
func (b *Builder) Build() (*CompiledModel, error) {
	if len(b.vars) == 0 {
		return nil, fmt.Errorf("build: %w", ErrNoVariables)
	}
	if len(b.constraints) == 0 {
		return nil, fmt.Errorf("build: %w", ErrNoConstraints)
	}
	if b.objective == nil {
		return nil, fmt.Errorf("build: %w", ErrNoObjective)
	}
	if b.solver == SolverUnspecified {
		return nil, fmt.Errorf("build: %w", ErrNoSolver)
	}

	m := &CompiledModel{
		Variables: append([]Variable(nil), b.vars...),
		Solver:    b.solver,
		Tolerance: b.tolerance,
	}

	for _, ct := range b.constraints {
		delta := Diff(ct.lhs, ct.rhs)
		bound := -delta.Constant()
		lower, upper := math.Inf(-1), math.Inf(1)
		switch ct.rel {
		case LE:
			upper = bound
		case GE:
			lower = bound
		case EQ:
			lower, upper = bound, bound
		}
		coeffs := make(map[VarName]float64, len(delta.Coefficients()))
		for name, c := range delta.Coefficients() {
			if c != 0 {
				coeffs[name] = c
			}
		}
		m.Constraints = append(m.Constraints, CompiledConstraint{
			Name:         ct.name,
			Coefficients: coeffs,
			Lower:        lower,
			Upper:        upper,
		})
	}

	obj := NewLinearExpr().Add(b.objective.expr)
	objCoeffs := make(map[VarName]float64, len(obj.Coefficients()))
	for name, c := range obj.Coefficients() {
		if c != 0 {
			objCoeffs[name] = c
		}
	}
	m.Objective = CompiledObjective{
		Coefficients: objCoeffs,
		Offset:       obj.Constant(),
		Maximize:     b.objective.maximize,
	}

	return m, nil
}
