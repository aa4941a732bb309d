package main

import "github.com/mvp-joe/tagnav/internal/cli"

func main() {
	cli.Execute()
}
