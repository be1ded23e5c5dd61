package main

import "github.com/jsphweid/hummix/cmd"

func main() {
	cmd.Execute()
}
