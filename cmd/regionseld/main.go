package main

import "github.com/adrianmross/regionsel/internal/cmd"

func main() {
	cmd.ExecuteDaemon()
}
