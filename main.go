package main

import "github.com/sfdn-project/oracle-gateway/cmd/cli"

func main() {
	cli.Execute()
}
