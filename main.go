// go-tempomesh keeps the transports of several clients playing in time over a shared document.
package main

import (
	"fmt"
	"os"

	"github.com/tempomesh/go-tempomesh/cmd"
	"github.com/tempomesh/go-tempomesh/simulator"
)

var (
	version string
	commit  string
	branch  string
)

func main() { // run the app
	cmd.Version = version
	cmd.Commit = commit
	cmd.Branch = branch
	if err := simulator.GetCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
