package main

import "github.com/rumahkita/property-management/cmd"

func main() {
	cmd.Execute()
}
