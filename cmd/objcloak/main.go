package main

import (
	"github.com/cloakwork/objcloak/cmd/objcloak/cmd"
)

func main() {
	cmd.Execute()
}
