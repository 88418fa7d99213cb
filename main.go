package main

import "dataapi/cmd"

func main() {
	cmd.Execute()
}
