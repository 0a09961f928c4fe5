package main

import "github.com/rakhadyo/company-portal/cmd"

func main() {
	cmd.Execute()
}
