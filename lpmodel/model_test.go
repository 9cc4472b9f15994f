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
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuilder_AutoNames(t *testing.T) {
	b := NewBuilder()

	v1, err := b.NewNumVar("", 0, 1)
	if err != nil {
		t.Fatalf("NewNumVar() returned with unexpected error %v", err)
	}
	v2, err := b.NewIntVar("", 0, 5)
	if err != nil {
		t.Fatalf("NewIntVar() returned with unexpected error %v", err)
	}

	if got, want := v1.Name(), VarName("x1"); got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if got, want := v2.Name(), VarName("x2"); got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
}

func TestBuilder_AutoNameSequencesAreIndependent(t *testing.T) {
	b1 := NewBuilder()
	b2 := NewBuilder()

	if _, err := b1.NewNumVar("", 0, 1); err != nil {
		t.Fatalf("NewNumVar() returned with unexpected error %v", err)
	}
	v, err := b2.NewNumVar("", 0, 1)
	if err != nil {
		t.Fatalf("NewNumVar() returned with unexpected error %v", err)
	}
	if got, want := v.Name(), VarName("x1"); got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
}

func TestBuilder_DuplicateName(t *testing.T) {
	b := NewBuilder()

	if _, err := b.NewNumVar("flow", 0, 1); err != nil {
		t.Fatalf("NewNumVar(flow) returned with unexpected error %v", err)
	}
	if _, err := b.NewBoolVar("flow"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("NewBoolVar(flow) = %v, want ErrDuplicateName", err)
	}
	// The failed declaration must not have been registered.
	if got := b.NumVars(); got != 1 {
		t.Errorf("NumVars() = %v, want 1", got)
	}
}

func TestBuilder_DuplicateAutoName(t *testing.T) {
	b := NewBuilder()

	if _, err := b.NewNumVar("x1", 0, 1); err != nil {
		t.Fatalf("NewNumVar(x1) returned with unexpected error %v", err)
	}
	if _, err := b.NewNumVar("", 0, 1); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("NewNumVar(\"\") = %v, want ErrDuplicateName", err)
	}
}

func TestBuilder_LookupVar(t *testing.T) {
	b := NewBuilder()
	want, err := b.NewIntVar("n", -3, 3)
	if err != nil {
		t.Fatalf("NewIntVar(n) returned with unexpected error %v", err)
	}

	got, ok := b.LookupVar("n")
	if !ok {
		t.Fatalf("LookupVar(n) = _, false, want true")
	}
	if got != want {
		t.Errorf("LookupVar(n) = %v, want %v", got, want)
	}
	if _, ok := b.LookupVar("missing"); ok {
		t.Errorf("LookupVar(missing) = _, true, want false")
	}
}

func TestVariable_KindsAndBounds(t *testing.T) {
	b := NewBuilder()

	bv, err := b.NewBoolVar("b")
	if err != nil {
		t.Fatalf("NewBoolVar(b) returned with unexpected error %v", err)
	}
	iv, err := b.NewIntVar("i", -5, math.Inf(1))
	if err != nil {
		t.Fatalf("NewIntVar(i) returned with unexpected error %v", err)
	}

	if bv.Kind() != Bool || bv.LowerBound() != 0 || bv.UpperBound() != 1 {
		t.Errorf("BoolVar = (%v, [%v,%v]), want (Bool, [0,1])", bv.Kind(), bv.LowerBound(), bv.UpperBound())
	}
	if iv.Kind() != Integer || iv.LowerBound() != -5 || !math.IsInf(iv.UpperBound(), 1) {
		t.Errorf("IntVar = (%v, [%v,%v]), want (Integer, [-5,+Inf])", iv.Kind(), iv.LowerBound(), iv.UpperBound())
	}
}

func TestBuild_Incomplete(t *testing.T) {
	testCases := []struct {
		name    string
		prepare func(t *testing.T, b *Builder)
		wantErr error
	}{
		{
			name:    "NoVariables",
			prepare: func(t *testing.T, b *Builder) {},
			wantErr: ErrNoVariables,
		},
		{
			name: "NoConstraints",
			prepare: func(t *testing.T, b *Builder) {
				mustNumVar(t, b, "x")
			},
			wantErr: ErrNoConstraints,
		},
		{
			name: "NoObjective",
			prepare: func(t *testing.T, b *Builder) {
				x := mustNumVar(t, b, "x")
				b.AddLessOrEqual(x, Const(3))
			},
			wantErr: ErrNoObjective,
		},
		{
			name: "NoSolver",
			prepare: func(t *testing.T, b *Builder) {
				x := mustNumVar(t, b, "x")
				b.AddLessOrEqual(x, Const(3))
				b.Minimize(x)
			},
			wantErr: ErrNoSolver,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			b := NewBuilder()
			test.prepare(t, b)
			if _, err := b.Build(); !errors.Is(err, test.wantErr) {
				t.Errorf("Build() = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestBuild_Complete(t *testing.T) {
	b := NewBuilder()
	x := mustNumVar(t, b, "x")
	b.AddLessOrEqual(x, Const(3))
	b.Minimize(x)
	b.SetSolver(SolverGLOP)

	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() returned with unexpected error %v", err)
	}
	if got := len(m.Variables); got != 1 {
		t.Errorf("len(Variables) = %v, want 1", got)
	}
	if m.Solver != SolverGLOP {
		t.Errorf("Solver = %v, want %v", m.Solver, SolverGLOP)
	}
	if m.Tolerance != DefaultTolerance {
		t.Errorf("Tolerance = %v, want %v", m.Tolerance, DefaultTolerance)
	}
}

func TestBuild_NormalizesConstraints(t *testing.T) {
	testCases := []struct {
		name       string
		constrain  func(b *Builder, x, y Variable) Constraint
		wantCoeffs map[VarName]float64
		wantLower  float64
		wantUpper  float64
	}{
		{
			name: "LessOrEqual",
			constrain: func(b *Builder, x, y Variable) Constraint {
				return b.AddLessOrEqual(Sum(x, y), Const(3))
			},
			wantCoeffs: map[VarName]float64{"x": 1, "y": 1},
			wantLower:  math.Inf(-1),
			wantUpper:  3,
		},
		{
			name: "GreaterOrEqual",
			constrain: func(b *Builder, x, y Variable) Constraint {
				return b.AddGreaterOrEqual(Sum(x, y), Const(3))
			},
			wantCoeffs: map[VarName]float64{"x": 1, "y": 1},
			wantLower:  3,
			wantUpper:  math.Inf(1),
		},
		{
			name: "Equality",
			constrain: func(b *Builder, x, y Variable) Constraint {
				return b.AddEquality(Sum(x, y), Const(3))
			},
			wantCoeffs: map[VarName]float64{"x": 1, "y": 1},
			wantLower:  3,
			wantUpper:  3,
		},
		{
			name: "VariablesOnBothSides",
			constrain: func(b *Builder, x, y Variable) Constraint {
				// x <= y + 2 normalizes to x - y <= 2.
				return b.AddLessOrEqual(x, Sum(y, Const(2)))
			},
			wantCoeffs: map[VarName]float64{"x": 1, "y": -1},
			wantLower:  math.Inf(-1),
			wantUpper:  2,
		},
		{
			name: "SharedTermCancels",
			constrain: func(b *Builder, x, y Variable) Constraint {
				// x + y >= y - 1 normalizes to x >= -1 with no y entry.
				return b.AddGreaterOrEqual(Sum(x, y), Diff(y, Const(1)))
			},
			wantCoeffs: map[VarName]float64{"x": 1},
			wantLower:  -1,
			wantUpper:  math.Inf(1),
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			b := NewBuilder()
			x := mustNumVar(t, b, "x")
			y := mustNumVar(t, b, "y")
			test.constrain(b, x, y)
			b.Minimize(x)
			b.SetSolver(SolverCBC)

			m, err := b.Build()
			if err != nil {
				t.Fatalf("Build() returned with unexpected error %v", err)
			}
			if got := len(m.Constraints); got != 1 {
				t.Fatalf("len(Constraints) = %v, want 1", got)
			}
			ct := m.Constraints[0]
			if d := cmp.Diff(test.wantCoeffs, ct.Coefficients); d != "" {
				t.Errorf("Coefficients returned with unexpected diff (-want+got):\n%s", d)
			}
			if ct.Lower != test.wantLower {
				t.Errorf("Lower = %v, want %v", ct.Lower, test.wantLower)
			}
			if ct.Upper != test.wantUpper {
				t.Errorf("Upper = %v, want %v", ct.Upper, test.wantUpper)
			}
		})
	}
}

func TestConstraint_WithName(t *testing.T) {
	b := NewBuilder()
	x := mustNumVar(t, b, "x")
	ct := b.AddLessOrEqual(x, Const(3)).WithName("cap")

	if got := ct.Name(); got != "cap" {
		t.Errorf("Name() = %q, want %q", got, "cap")
	}

	b.Minimize(x)
	b.SetSolver(SolverGLOP)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() returned with unexpected error %v", err)
	}
	if got := m.Constraints[0].Name; got != "cap" {
		t.Errorf("Constraints[0].Name = %q, want %q", got, "cap")
	}
}

func TestBuild_ConstraintOrderPreserved(t *testing.T) {
	b := NewBuilder()
	x := mustNumVar(t, b, "x")
	b.AddLessOrEqual(x, Const(1)).WithName("first")
	b.AddLessOrEqual(x, Const(2)).WithName("second")
	b.AddLessOrEqual(x, Const(3)).WithName("third")
	b.Minimize(x)
	b.SetSolver(SolverGLOP)

	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() returned with unexpected error %v", err)
	}
	want := []string{"first", "second", "third"}
	for i, name := range want {
		if got := m.Constraints[i].Name; got != name {
			t.Errorf("Constraints[%d].Name = %q, want %q", i, got, name)
		}
	}
}

func TestObjective_LastWriteWins(t *testing.T) {
	b := NewBuilder()
	x := mustNumVar(t, b, "x")
	y := mustNumVar(t, b, "y")
	b.AddLessOrEqual(Sum(x, y), Const(3))
	b.SetSolver(SolverGLOP)

	b.Minimize(x)
	b.Maximize(Sum(y, Const(4)))

	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() returned with unexpected error %v", err)
	}
	if !m.Objective.Maximize {
		t.Errorf("Objective.Maximize = false, want true")
	}
	if d := cmp.Diff(map[VarName]float64{"y": 1}, m.Objective.Coefficients); d != "" {
		t.Errorf("Objective.Coefficients returned with unexpected diff (-want+got):\n%s", d)
	}
	if m.Objective.Offset != 4 {
		t.Errorf("Objective.Offset = %v, want 4", m.Objective.Offset)
	}
}

func TestBuild_Repeatable(t *testing.T) {
	b := NewBuilder()
	x := mustNumVar(t, b, "x")
	b.AddLessOrEqual(x, Const(3))
	b.Minimize(x)
	b.SetSolver(SolverHiGHS)

	m1, err := b.Build()
	if err != nil {
		t.Fatalf("Build() returned with unexpected error %v", err)
	}
	m2, err := b.Build()
	if err != nil {
		t.Fatalf("Build() returned with unexpected error %v", err)
	}
	if d := cmp.Diff(m1, m2, cmp.AllowUnexported(Variable{})); d != "" {
		t.Errorf("repeated Build() returned with unexpected diff (-first+second):\n%s", d)
	}
}

func TestBuild_CompiledModelIsolatedFromBuilder(t *testing.T) {
	b := NewBuilder()
	x := mustNumVar(t, b, "x")
	b.AddLessOrEqual(x, Const(3))
	b.Minimize(x)
	b.SetSolver(SolverGLOP)

	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() returned with unexpected error %v", err)
	}

	// Mutating the builder afterwards must not show up in the compiled model.
	mustNumVar(t, b, "late")
	b.AddLessOrEqual(x, Const(99))

	if got := len(m.Variables); got != 1 {
		t.Errorf("len(Variables) = %v, want 1", got)
	}
	if got := len(m.Constraints); got != 1 {
		t.Errorf("len(Constraints) = %v, want 1", got)
	}
}
