// Command coretool is the operator CLI of the core server: offline
// simulation, progress export/import and sync packet inspection.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
