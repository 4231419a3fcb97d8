package main

import (
	"github.com/dockmop/dockmop/cmd"
)

func main() {
	cmd.Execute()
}
