// Command parcel-watch detects changes between parcel dataset snapshots and
// produces a machine-readable summary plus a notification message.
//
// Subcommands:
//   - detect    : run one detection cycle (load, diff, summarize, promote)
//   - summary   : pretty-print the last persisted summary
//   - watchlist : show the parsed watchlist
//   - version   : print build information
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
