package main

import "github.com/guardian-ai/apiserver/cmd"

func main() {
	cmd.Execute()
}
