package main

import "github.com/ernesto27/craft/cmd"

func main() {
	cmd.Execute()
}
