// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/snapvcs/cmd/snapvcs/cmd"
)

func main() {
	cmd.Execute()
}
