// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command interior solves linear systems and box constrained quadratic
// programs described by YAML problem files.
package main

import (
	"context"
	"fmt"
	"os"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	if err := NewRootCmd(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "interior:", err)
		os.Exit(1)
	}
}
