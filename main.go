package main

import "github.com/tallgren/codewalk/cmd"

func main() {
	cmd.Execute()
}
