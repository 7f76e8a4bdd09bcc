package main

import "github.com/spinescan/spinescan/cmd/spinescan/cmd"

func main() {
	cmd.Execute()
}
