package main

import (
	"github.com/killallgit/garnish/cmd"
)

func main() {
	cmd.Execute()
}
