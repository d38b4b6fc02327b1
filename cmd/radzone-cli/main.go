package main

import (
	"github.com/Tschucker/radZone/pkg/cli/sh"
)

//go-build: CGO_ENABLED=0

func main() {
	sh.Main()
}
