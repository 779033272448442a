package main

import "github.com/kozaktomas/photo-press/cmd"

func main() {
	cmd.Execute()
}
