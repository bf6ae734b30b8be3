package main

import "adventune/folio/cmd"

func main() {
	cmd.Execute()
}
