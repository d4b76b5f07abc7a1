package main

import (
	"github.com/presmtech/storefront/cmd"
)

func main() {
	cmd.Start()
}
