package main

import "github.com/mj1618/browser-cli/cmd"

func main() {
	cmd.Execute()
}
