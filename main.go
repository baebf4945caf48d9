package main

import "github.com/RyanBlaney/uwave/cmd"

func main() {
	cmd.Execute()
}
