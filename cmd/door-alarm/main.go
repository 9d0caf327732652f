package main

import "github.com/oshokin/door-alarm/cmd/door-alarm/cmd"

func main() {
	cmd.Execute()
}
