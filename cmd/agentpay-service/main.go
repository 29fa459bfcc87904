package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/agentpay/agentpay/payservice"
)

func main() {
	// Optional build-target flag override (local | cloud-dev | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud-dev, cloud)")
	flag.Parse()

	if *buildTarget != "" {
		if err := os.Setenv("AGENTPAY_BUILD_TARGET", *buildTarget); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if err := payservice.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
