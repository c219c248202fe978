package main

import "github.com/pfrederiksen/luma-events/internal/cli"

func main() {
	cli.Execute()
}
