package main

import "github.com/gdg-garage/campus-events-api/internal/cli"

func main() {
	cli.Execute()
}
