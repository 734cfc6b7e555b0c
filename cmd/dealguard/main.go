package main

import "github.com/dealguard-ai/dealguard/internal/cli"

func main() {
	cli.Execute()
}
