package main

import "github.com/innverse/twistats/cmd/twictl/cmd"

func main() {
	cmd.Execute()
}
