package main

import "github.com/idcard-hub/idcard-menu-services/cmd"

func main() {
	cmd.Execute()
}
