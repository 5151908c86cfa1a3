package main

import "github.com/dgallion1/xapidoc/internal/cli"

func main() {
	cli.Execute()
}
