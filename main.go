package main

import "country-pipeline/cmd"

func main() {
	cmd.Execute()
}
