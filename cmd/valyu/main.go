package main

import "valyurag/internal/cli"

func main() {
	cli.Execute()
}
