// Command verify scans a commit-log segment end to end and reports
// whether it is clean: the valid commits found, the byte offset at
// which corruption or truncation was first observed, and whether the
// file needs truncating to recover.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/epokhe/commitlog"
	"github.com/epokhe/commitlog/segio"
)

var (
	filePath = flag.String("file", "", "segment file to verify")
	fix      = flag.Bool("fix", false, "truncate the file to its last valid commit")
)

// readOnlyGuard re-exposes a Segment without promoting any Truncate
// method its concrete type might have, so RecoverSegment's type
// assertion for Truncater fails and the scan never mutates the file.
type readOnlyGuard struct {
	segio.Segment
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "  verify -file <segment-path> [-fix]\n")
	os.Exit(1)
}

func main() {
	flag.Parse()
	if *filePath == "" {
		usage()
	}

	info, err := os.Stat(*filePath)
	if err != nil {
		log.Fatalf("stat: %v", err)
	}

	seg, err := segio.OpenFileSegment(*filePath)
	if err != nil {
		log.Fatalf("open segment: %v", err)
	}
	defer seg.Close() // nolint:errcheck

	// RecoverSegment truncates in place whenever its argument implements
	// Truncater. Without -fix, hide that method behind a plain Segment
	// so a verify-only run never mutates the file on disk.
	var res *segio.RecoveryResult
	if *fix {
		res, err = commitlog.Recover(seg)
	} else {
		res, err = commitlog.Recover(readOnlyGuard{seg})
	}
	if err != nil {
		log.Fatalf("recover: %v", err)
	}

	var txStart, txEnd uint64
	if len(res.Commits) > 0 {
		txStart, _ = res.Commits[0].TxRange()
		_, txEnd = res.Commits[len(res.Commits)-1].TxRange()
	}

	fmt.Printf("file size:     %d bytes\n", info.Size())
	fmt.Printf("valid size:    %d bytes\n", res.ValidSize)
	fmt.Printf("commits:       %d\n", len(res.Commits))
	fmt.Printf("tx range:      [%d, %d)\n", txStart, txEnd)

	if res.ValidSize == info.Size() {
		fmt.Println("status:        clean")
		return
	}

	torn := info.Size() - res.ValidSize
	fmt.Printf("status:        torn tail (%d bytes past the last valid commit)\n", torn)

	if *fix {
		// RecoverSegment already truncated the live segment handle when
		// it detected the torn tail; nothing further to do here.
		fmt.Printf("fixed:         truncated to %d bytes\n", res.ValidSize)
	} else {
		fmt.Println("fixed:         no (pass -fix to truncate)")
	}
}
