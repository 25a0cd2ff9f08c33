package main

import "weatherbot/cmd"

func main() {
	cmd.Execute()
}
