package main

import "github.com/brogergvhs/dmzjdl/cmd"

func main() {
	cmd.Execute()
}
