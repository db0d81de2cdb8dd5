package main

import (
	"distr/cmd"
)

func main() {
	cmd.Execute()
}
