package main

import "github.com/cmmoran/eloquentts/cmd"

func main() {
	cmd.Execute()
}
