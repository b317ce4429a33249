//go:build windows

package main

import (
	"log/slog"
	"os"

	"github.com/Relics97/ControllerEmulator/internal/util"
)

func init() {
	if !util.LaunchedFromExplorer() {
		return
	}
	args := util.WithDefaultCommand(os.Args[1:], "run")
	if len(args) != len(os.Args)-1 {
		slog.Info("Started from Explorer, defaulting to the run command")
		os.Args = append([]string{os.Args[0]}, args...)
	}
}
