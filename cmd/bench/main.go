// Command bench measures read throughput against an existing commit-log
// segment file. The unit of work is a decoded commit rather than a
// fixed-size block: sequential mode walks the segment commit by
// commit, random mode seeks to random valid commit boundaries recorded
// by a first recovery pass.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/epokhe/commitlog"
	"github.com/epokhe/commitlog/segio"
)

var (
	filePath = flag.String("file", "segment.dat", "segment file to read")
	mode     = flag.String("mode", "seq", "seq | rand")
	duration = flag.Duration("dur", 15*time.Second, "run time")
	randSeed = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "  bench -file <segment-path> -mode seq|rand\n")
	os.Exit(1)
}

func main() {
	flag.Parse()
	if *filePath == "" {
		usage()
	}

	seg, err := segio.OpenFileSegment(*filePath)
	if err != nil {
		log.Fatalf("open segment: %v", err)
	}
	defer seg.Close() // nolint:errcheck

	// a recovery pass gives us the valid commit boundaries to sample
	// from. A torn or corrupt tail is not reported as an error: since
	// FileSegment implements Truncater, the pass truncates the file to
	// its last valid commit before benchmarking.
	res, err := commitlog.Recover(seg)
	if err != nil {
		log.Fatalf("recover: %v", err)
	}
	if len(res.Commits) == 0 {
		log.Fatalf("segment has no valid commits")
	}

	switch *mode {
	case "seq":
		runSeq(seg)
	case "rand":
		runRand(seg, res)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(1)
	}
}

func runSeq(seg *segio.FileSegment) {
	deadline := time.Now().Add(*duration)
	var commits, bytesRead int64

	for time.Now().Before(deadline) {
		r, err := commitlog.NewReader(seg)
		if err != nil {
			log.Fatalf("new reader: %v", err)
		}
		for time.Now().Before(deadline) {
			c, err := r.Next()
			if err != nil {
				log.Fatalf("seq read: %v", err)
			}
			if c == nil {
				break // clean EOF, loop back to the start
			}
			commits++
			bytesRead += c.EncodedLen()
		}
	}

	fmt.Printf("Sequential: %.2f MiB/s (%d commits)\n", mib(bytesRead, *duration), commits)
}

func runRand(seg *segio.FileSegment, res *segio.RecoveryResult) {
	r := rand.New(rand.NewSource(*randSeed))
	deadline := time.Now().Add(*duration)
	var commits, bytesRead int64

	// precompute each commit's starting byte offset from its encoded
	// length, so random picks can seek directly to a frame boundary.
	offsets := make([]int64, len(res.Commits))
	var off int64
	for i, c := range res.Commits {
		offsets[i] = off
		off += c.EncodedLen()
	}

	for time.Now().Before(deadline) {
		i := r.Intn(len(offsets))
		if _, err := seg.Seek(offsets[i], 0); err != nil {
			log.Fatalf("seek: %v", err)
		}
		// a fresh buffered reader at this offset, not commitlog.NewReader
		// -- that constructor always rewinds to byte 0, which would
		// defeat the random-access point of this benchmark.
		br := segio.NewBufferedReader(seg)
		c, err := segio.ReadCommit(br)
		if err != nil {
			log.Fatalf("rand read: %v", err)
		}
		if c == nil {
			continue
		}
		commits++
		bytesRead += c.EncodedLen()
	}

	fmt.Printf("Random: %.2f MiB/s (%d commits)\n", mib(bytesRead, *duration), commits)
}

func mib(b int64, d time.Duration) float64 {
	return float64(b) / (1024 * 1024) / d.Seconds()
}
