package main

import "github.com/Mohsinsiddi/squadcli/cmd"

func main() {
	cmd.Execute()
}
