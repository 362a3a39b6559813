package main

import "github.com/pfrederiksen/class-schedule/internal/cli"

func main() {
	cli.Execute()
}
