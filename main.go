package main

import (
	"os"

	"lnwarn/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
