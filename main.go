package main

import "github.com/dragonrex/sdash/cmd"

func main() {
	cmd.Execute()
}
