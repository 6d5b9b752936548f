package main

import "github.com/wowa-cli/wowa/cmd"

func main() {
	cmd.Execute()
}
