package main

import (
	"github.com/proofofdev/devtrust/pkg/cli"
)

func main() {
	cli.Execute()
}
