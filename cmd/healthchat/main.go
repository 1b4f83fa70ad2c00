package main

import "github.com/diogo/healthchat/internal/commands"

func main() {
	commands.Execute()
}
