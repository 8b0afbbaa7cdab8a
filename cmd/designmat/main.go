// SPDX-License-Identifier: MIT

// Command designmat builds a design matrix from a CSV file, a YAML column
// schema and a model formula, and prints it as text, CSV or JSON.
//
//	designmat -f "rt ~ gender*group" -d data.csv -s schema.yaml -c sum --format csv
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
