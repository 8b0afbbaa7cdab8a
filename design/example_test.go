// SPDX-License-Identifier: MIT

package design_test

import (
	"fmt"

	"github.com/katalvlaran/lvformula/contrast"
	"github.com/katalvlaran/lvformula/design"
	"github.com/katalvlaran/lvformula/formula"
	"github.com/katalvlaran/lvformula/frame"
)

// ExampleBuildString encodes the six-row gender table under treatment and
// sum coding.
func ExampleBuildString() {
	rt, _ := frame.NewNumeric("rt", []float64{300, 310, 320, 350, 360, 370})
	gender, _ := frame.NewCategorical("gender",
		[]string{"male", "male", "male", "female", "female", "female"},
		[]string{"male", "female"})
	tbl, _ := frame.NewTable(rt, gender)

	for _, scheme := range []contrast.Scheme{contrast.Treatment{}, contrast.Sum{}} {
		m, err := design.BuildString("rt ~ gender", tbl, scheme)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(scheme.Name(), m.Columns)
		fmt.Print(m.X)
	}
	// Output:
	// treatment [(Intercept) genderfemale]
	// [1, 0]
	// [1, 0]
	// [1, 0]
	// [1, 1]
	// [1, 1]
	// [1, 1]
	// sum [(Intercept) gender1]
	// [1, -1]
	// [1, -1]
	// [1, -1]
	// [1, 1]
	// [1, 1]
	// [1, 1]
}

// ExamplePlan_Encode encodes a reference grid with the plan compiled from
// the training table, as an external marginal-means routine would.
func ExamplePlan_Encode() {
	y, _ := frame.NewNumeric("y", []float64{1, 2, 3, 4, 5, 6, 7, 8})
	a, _ := frame.NewCategorical("a",
		[]string{"lo", "hi", "lo", "hi", "lo", "hi", "lo", "hi"}, []string{"lo", "hi"})
	b, _ := frame.NewCategorical("b",
		[]string{"x", "x", "z", "z", "x", "x", "z", "z"}, []string{"x", "z"})
	tbl, _ := frame.NewTable(y, a, b)

	plan, err := design.Compile(formula.MustParse("y ~ a*b"), tbl, contrast.Treatment{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	grid, _ := frame.ReferenceGrid(tbl, "a", "b")
	m, _ := plan.Encode(grid)

	fmt.Println(m.Columns)
	fmt.Print(m.X)
	// Output:
	// [(Intercept) ahi bz ahi:bz]
	// [1, 0, 0, 0]
	// [1, 1, 0, 0]
	// [1, 0, 1, 0]
	// [1, 1, 1, 1]
}
