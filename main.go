package main

import (
	"github.com/daedaleanai/mkninja/cmd"
)

func main() {
	cmd.Execute()
}
