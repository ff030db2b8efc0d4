package main

import "github.com/scottatron-wd/devday/cmd"

func main() {
	cmd.Execute()
}
