package main

import (
	"github.com/haradama/q2-optitrim/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
