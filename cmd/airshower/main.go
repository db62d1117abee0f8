package main

import "github.com/telarray/airshower/cmd/airshower/cmd"

func main() {
	cmd.Execute()
}
