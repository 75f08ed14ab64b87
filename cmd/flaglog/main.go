package main

import "github.com/flaglog/flaglog/internal/cli"

func main() {
	cli.Execute()
}
