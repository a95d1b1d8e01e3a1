package main

import "github.com/parget/parget/cmd"

func main() {
	cmd.Execute()
}
