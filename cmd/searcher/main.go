// Command searcher loads documents into an in-memory AND-query index and
// serves or answers queries against it.
package main

import (
	"os"

	"github.com/Adithya-Monish-Kumar-K/andsearch/cmd/searcher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
