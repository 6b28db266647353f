package main

import (
	"wavelib/cmd"
)

func main() {
	cmd.Execute()
}
