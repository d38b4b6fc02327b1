package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/golang/glog"

	"github.com/Tschucker/radZone/pkg/bridge"
)

func init() {
	bridge.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	b := bridge.NewConfig().MustNewBridge()
	if err := bridge.NewRunner().HandleSignals().Go(b).Wait(); err != nil {
		glog.Flush()
		log.Fatalln(err)
	}
}
