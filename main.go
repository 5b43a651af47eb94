package main

import (
	"github.com/sharikirostov/balloon-store/app/cmd"
)

func main() {
	cmd.RunCli()
}
