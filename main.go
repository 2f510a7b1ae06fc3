package main

import "github.com/wirasatya/business-management/cmd"

func main() {
	cmd.Execute()
}
