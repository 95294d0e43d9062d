// Package main is the entry point for the mordant CLI.
package main

import "github.com/mordant-dev/mordant/cmd"

func main() {
	cmd.Execute()
}
