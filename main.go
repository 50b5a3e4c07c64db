package main

import (
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/cmd"
)

func main() {
	cmd.Execute()
}
