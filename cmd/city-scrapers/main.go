package main

import "github.com/pfrederiksen/city-scrapers/internal/cli"

func main() {
	cli.Execute()
}
