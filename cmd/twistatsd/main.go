package main

import "github.com/innverse/twistats/cmd/twistatsd/cmd"

func main() {
	cmd.Execute()
}
