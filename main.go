package main

import "github.com/notargets/teal/cmd"

func main() {
	cmd.Execute()
}
