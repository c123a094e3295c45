package main

import "github.com/ssargent/gamehdr/cmd/gamehdr/cmd"

func main() {
	cmd.Execute()
}
