package main

import "github.com/panyam/caresim/cmd/caresim/commands"

func main() {
	commands.Execute()
}
