package main

import "github.com/metriclens/metriclens/cmd/metriclens/commands"

func main() {
	commands.Execute()
}
