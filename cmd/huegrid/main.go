// huegrid - a contrast-driven palette generator
//
// huegrid solves a grid of contrast levels and hues into OKLCH colours that
// hit each contrast target against the palette background.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/huegrid/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
