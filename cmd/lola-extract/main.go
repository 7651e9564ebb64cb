package main

import "github.com/mvp-joe/lola-extract/internal/cli"

func main() {
	cli.Execute()
}
