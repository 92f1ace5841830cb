package main

import "reqwestur/cmd"

func main() {
	cmd.Execute()
}
