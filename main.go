package main

import (
	"os"

	"github.com/iksnae/scene2json/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
