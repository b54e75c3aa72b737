package main

import "donlouis-backend/cmd"

func main() {
	cmd.Execute()
}
