package main

import (
	"github.com/tebeka/atexit"

	"github.com/msto63/memtrace/cmd/memtrace/cmd"
	"github.com/msto63/memtrace/pkg/core/logging"
)

func main() {
	atexit.Register(func() {
		logging.CloseGlobalFileWriter()
	})

	atexit.Exit(cmd.ExitCode(cmd.Execute()))
}
