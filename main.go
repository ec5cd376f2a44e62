package main

import "github.com/mhoekstra/gauge/cmd"

func main() {
	cmd.Execute()
}
