// Package main is the entry point of keypoint.
package main

import (
	"github.com/keypoint-cli/keypoint/cmd"
	"github.com/keypoint-cli/keypoint/config"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
