package main

import "github.com/morler/repolens/cmd"

func main() {
	cmd.Execute()
}
