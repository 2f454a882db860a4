package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/samboyer/flpx"
)

func runRead(args []string) error {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	verbose := fs.Bool("v", false, "List every playlist item, not just summary counts.")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("read: expected exactly one FILE argument")
	}

	p, err := flpx.Open(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("patterns:     %d\n", len(p.Patterns))
	fmt.Printf("channels:     %d\n", len(p.Channels))
	fmt.Printf("mixer tracks: %d\n", len(p.MixerTracks))
	fmt.Printf("arrangements: %d\n", len(p.Arrangements))

	for i, arr := range p.Arrangements {
		name := fmt.Sprintf("Arrangement %d", i+1)
		if arr.Name != nil {
			name = *arr.Name
		}
		fmt.Printf("\n%s: %d tracks, %d items\n", name, len(arr.Tracks), len(arr.Items))
		if !*verbose {
			continue
		}
		for _, item := range arr.Items {
			printItem(p, item)
		}
	}
	return nil
}

func printItem(p *flpx.Project, item *flpx.PlaylistItem) {
	what := p.PatternName(int(item.ClipIndex))
	if item.ItemType == flpx.ItemChannel {
		what = p.ChannelName(int(item.ClipIndex))
	}
	flags := ""
	if item.Muted {
		flags += " muted"
	}
	if item.Selected {
		flags += " selected"
	}
	fmt.Fprintf(os.Stdout, "  track %2d  %s  len %d  %q%s\n",
		item.Track, p.TickToBST(item.Start), item.Length, what, flags)
}
