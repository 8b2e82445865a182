package main

import "outpost/cmd/op/root"

func main() {
	root.Execute()
}
