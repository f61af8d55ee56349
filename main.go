package main

import "github.com/Rorical/diabeguide/cmd"

func main() {
	cmd.Execute()
}
