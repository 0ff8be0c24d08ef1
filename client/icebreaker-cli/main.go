package main

import "IceBreaker/client/icebreaker-cli/cmd"

func main() {
	cmd.Execute()
}
