package main

import "github.com/mcoot/portfolio/internal/cli"

func main() {
	cli.Execute()
}
