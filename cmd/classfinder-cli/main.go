package main

import "classfinder-backend/cmd/classfinder-cli/cmd"

func main() {
	cmd.Execute()
}
