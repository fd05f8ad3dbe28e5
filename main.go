package main

import (
	"os"

	"github.com/harlequix/secded/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
