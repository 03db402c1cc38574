package main

import "timesheet-sync/cmd"

func main() {
	cmd.Execute()
}
