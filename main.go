package main

import "github.com/peekknuf/colstats/cmd"

func main() {
	cmd.Execute()
}
