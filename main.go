package main

import "github.com/frahmantamala/company-api/cmd"

func main() {
	cmd.Execute()
}
