package main

import "studybuddy/cmd/studybuddy-cli/cmd"

func main() {
	cmd.Execute()
}
