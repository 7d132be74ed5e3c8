package main

import "github.com/oshokin/timer-skill/cmd/timer-skill/cmd"

func main() {
	cmd.Execute()
}
