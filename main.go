package main

import "foodapp/internal/cli"

func main() {
	cli.Execute()
}
