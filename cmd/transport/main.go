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

// Binary transport builds the classic transportation problem as a
// solver-agnostic model: two plants ship to three markets, shipments are
// bounded by plant capacity and must cover market demand, and the total
// freight cost is minimized. The compiled model is printed; solving it is
// the job of an external backend adapter.
package main

import (
	"flag"
	"fmt"
	"math"
	"sort"
	"strings"

	log "github.com/golang/glog"

	"github.com/optlab-dev/linopt/lpmodel"
	"github.com/optlab-dev/linopt/tensor"
)

func main() {
	flag.Parse()
	defer log.Flush()

	plants := []string{"seattle", "san-diego"}
	markets := []string{"new-york", "chicago", "topeka"}

	capacity := map[string]float64{"seattle": 350, "san-diego": 600}
	demand := map[string]float64{"new-york": 325, "chicago": 300, "topeka": 275}
	freight := map[string]map[string]float64{
		"seattle":   {"new-york": 0.225, "chicago": 0.153, "topeka": 0.162},
		"san-diego": {"new-york": 0.225, "chicago": 0.162, "topeka": 0.126},
	}

	b := lpmodel.NewBuilder()

	ship, err := tensor.Fill([][]string{plants, markets}, func(keys []string) lpmodel.Variable {
		v, err := b.NewNumVar(fmt.Sprintf("ship(%s,%s)", keys[0], keys[1]), 0, math.Inf(1))
		if err != nil {
			log.Exitf("declaring shipment variable: %v", err)
		}
		return v
	})
	if err != nil {
		log.Exitf("building shipment tensor: %v", err)
	}
	cost, err := tensor.Fill([][]string{plants, markets}, func(keys []string) float64 {
		return freight[keys[0]][keys[1]]
	})
	if err != nil {
		log.Exitf("building freight tensor: %v", err)
	}

	// Supply: everything leaving a plant fits its capacity.
	for _, p := range plants {
		row, err := ship.Slice(tensor.Key(p))
		if err != nil {
			log.Exitf("slicing shipments of %s: %v", p, err)
		}
		total := lpmodel.NewLinearExpr()
		row.ForEach(func(_ []string, v lpmodel.Variable) { total.Add(v) })
		b.AddLessOrEqual(total, lpmodel.Const(capacity[p])).WithName("supply(" + p + ")")
	}

	// Demand: everything arriving at a market covers its demand.
	for _, m := range markets {
		col, err := ship.Slice(tensor.Any[string](), tensor.Key(m))
		if err != nil {
			log.Exitf("slicing shipments to %s: %v", m, err)
		}
		total := lpmodel.NewLinearExpr()
		col.ForEach(func(_ []string, v lpmodel.Variable) { total.Add(v) })
		b.AddGreaterOrEqual(total, lpmodel.Const(demand[m])).WithName("demand(" + m + ")")
	}

	obj := lpmodel.NewLinearExpr()
	ship.ForEach(func(keys []string, v lpmodel.Variable) {
		c, err := cost.Get(keys...)
		if err != nil {
			log.Exitf("looking up freight cost of %v: %v", keys, err)
		}
		obj.AddTerm(v, c)
	})
	b.Minimize(obj)
	b.SetSolver(lpmodel.SolverGLOP)

	m, err := b.Build()
	if err != nil {
		log.Exitf("compiling the model: %v", err)
	}

	fmt.Printf("compiled %d variables and %d constraints for %v (tolerance %g)\n",
		len(m.Variables), len(m.Constraints), m.Solver, m.Tolerance)
	for _, ct := range m.Constraints {
		fmt.Printf("  %-20s %8.6g <= %s <= %.6g\n", ct.Name, ct.Lower, formatRow(ct.Coefficients), ct.Upper)
	}
	goal := "minimize"
	if m.Objective.Maximize {
		goal = "maximize"
	}
	fmt.Printf("  %s %s\n", goal, formatRow(m.Objective.Coefficients))
}

func formatRow(coeffs map[lpmodel.VarName]float64) string {
	names := make([]string, 0, len(coeffs))
	for name := range coeffs {
		names = append(names, string(name))
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%g*%s", coeffs[lpmodel.VarName(name)], name))
	}
	return strings.Join(parts, " + ")
}
