package main

import "github.com/grailbio/aiarray/cmd/bio-ailist/cmd"

func main() {
	cmd.Run()
}
