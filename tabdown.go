package main

import "github.com/tesh254/tabdown/cmd"

func main() {
	cmd.Execute()
}
