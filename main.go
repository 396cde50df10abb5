package main

import "github.com/KaramelBytes/insight-cli/cmd"

func main() {
	cmd.Execute()
}
