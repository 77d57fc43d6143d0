// main is the entry point for the logscore CLI.
package main

import (
	"github.com/huangsam/logscore/cmd"
	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Cannot stop profiling", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		iocache.CloseStores() // LogFatal exits without running defers
		contract.LogFatal("Cannot run command", err)
	}
}
