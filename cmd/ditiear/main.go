package main

import "github.com/javanhut/ditiear/internal/cli"

func main() {
	cli.Execute()
}
