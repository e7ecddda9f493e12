package main

import (
	"github.com/datapub/datapub/cmd"
)

func main() {
	cmd.Execute()
}
