package main

import "github.com/airotrack/fieldops/cmd"

func main() {
	cmd.Execute()
}
