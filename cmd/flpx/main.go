// Command flpx reads and three-way merges FL Studio (.flp) project files.
package main

import (
	"fmt"
	"os"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: flpx COMMAND [OPTION]... ARG...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  read FILE                 Print a summary of an FLP project's contents.")
	fmt.Fprintln(os.Stderr, "  diff ORIGINAL A B         Diff and three-way merge A and B's playlists against ORIGINAL.")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "read":
		err = runRead(args)
	case "diff":
		err = runDiff(args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "flpx: unknown command %q\n\n", cmd)
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
