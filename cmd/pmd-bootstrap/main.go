package main

import "github.com/oshokin/pmd-bootstrap/cmd/pmd-bootstrap/cmd"

func main() {
	cmd.Execute()
}
