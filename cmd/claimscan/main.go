package main

import (
	"github.com/curachain/claimscan/cmd"
)

func main() {
	cmd.Execute()
}
