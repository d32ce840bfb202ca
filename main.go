// main is the entry point for the typegate CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/typegate/cmd"
	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/internal/snapstore"
	"github.com/huangsam/typegate/schema"
)

func main() {
	err := cmd.Execute()
	snapstore.CloseStores()

	switch {
	case err == nil:
	case errors.Is(err, contract.ErrChangesFound):
		// The gate tripped; the change report has already been written.
		os.Exit(int(schema.ExitDiffFound))
	case errors.Is(err, contract.ErrBadArguments):
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(int(schema.ExitBadArgs))
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(int(schema.ExitFailure))
	}
}
