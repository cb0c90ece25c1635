package main

import (
	"github.com/joranmulderij/sciscript/pkg/cmd"
)

func main() {
	cmd.Execute()
}
