package main

import "github.com/dimfu/clacktap/cmd"

func main() {
	cmd.Execute()
}
