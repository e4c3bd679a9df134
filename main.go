package main

import "github.com/Tiliavir/jbstime/cmd"

func main() {
	cmd.Execute()
}
