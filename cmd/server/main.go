package main

import "github.com/hongminglow/myrent-be/internal/commands"

func main() {
	commands.Execute()
}
