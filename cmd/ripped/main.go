// Command ripped is the installable entry point: go install ./cmd/ripped
package main

import "github.com/slpkit/ripped/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
