package main

import (
	"github.com/accountd/accountd/internal/cli"
)

func main() {
	cli.Execute()
}
