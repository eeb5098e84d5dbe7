package main

import "github.com/theirongolddev/mb/cmd"

func main() {
	cmd.Execute()
}
