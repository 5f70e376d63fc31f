package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/snoopsim/mem/cache"
	"github.com/sarchlab/snoopsim/simulation"
	"github.com/sarchlab/snoopsim/trace"
)

var runFlags struct {
	traceFile string
	numCaches int

	blockSize uint64
	numSets   uint64
	assoc     int
	mmSize    uint64

	rdHitLat    int
	rdMissLat   int
	wrHitLat    int
	wrMissLat   int
	snoopLat    int
	snoopHitLat int
	mshrCap     int

	quiet       bool
	eventLog    bool
	dbPath      string
	monitorOn   bool
	monitorPort int
	openBrowser bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay an address trace through the modeled caches",
	RunE:  runSimulation,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVarP(&runFlags.traceFile, "trace", "t", "",
		"trace file to replay (falls back to SNOOPSIM_TRACE)")
	f.IntVar(&runFlags.numCaches, "caches", 2,
		"number of caches sharing the bus")
	f.Uint64Var(&runFlags.blockSize, "block-size", 64,
		"block size in bytes, power of two")
	f.Uint64Var(&runFlags.numSets, "num-sets", 16,
		"number of sets, power of two")
	f.IntVar(&runFlags.assoc, "assoc", 4, "ways per set")
	f.Uint64Var(&runFlags.mmSize, "mm-size", 65536,
		"modeled memory size in bytes, power of two")
	f.IntVar(&runFlags.rdHitLat, "rd-hit", 5, "read hit latency")
	f.IntVar(&runFlags.rdMissLat, "rd-miss", 15, "read miss latency")
	f.IntVar(&runFlags.wrHitLat, "wr-hit", 5, "write hit latency")
	f.IntVar(&runFlags.wrMissLat, "wr-miss", 15, "write miss latency")
	f.IntVar(&runFlags.snoopLat, "snoop", 3, "snoop broadcast latency")
	f.IntVar(&runFlags.snoopHitLat, "snoop-hit", 8,
		"data latency when a peer sources the block")
	f.IntVar(&runFlags.mshrCap, "mshr", 16, "MSHR capacity")
	f.BoolVarP(&runFlags.quiet, "quiet", "q", false,
		"suppress the console event log")
	f.BoolVar(&runFlags.eventLog, "event-log", false,
		"also print every dispatched engine event")
	f.StringVar(&runFlags.dbPath, "db", "",
		"record traces into a SQLite database, this path plus .sqlite3")
	f.BoolVar(&runFlags.monitorOn, "monitor", false,
		"serve the monitoring API while running")
	f.IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"monitoring port, 0 picks a random one")
	f.BoolVar(&runFlags.openBrowser, "open-browser", false,
		"open the monitoring URL in a browser")
}

func runSimulation(_ *cobra.Command, _ []string) error {
	// .env can set SNOOPSIM_TRACE; a missing file is fine.
	_ = godotenv.Load()

	if runFlags.traceFile == "" {
		runFlags.traceFile = os.Getenv("SNOOPSIM_TRACE")
	}
	if runFlags.traceFile == "" {
		return fmt.Errorf("no trace file: use --trace or SNOOPSIM_TRACE")
	}

	cb := cache.MakeBuilder().
		WithBlockSize(runFlags.blockSize).
		WithNumSets(runFlags.numSets).
		WithAssociativity(runFlags.assoc).
		WithMemorySize(runFlags.mmSize).
		WithReadLatencies(runFlags.rdHitLat, runFlags.rdMissLat).
		WithWriteLatencies(runFlags.wrHitLat, runFlags.wrMissLat).
		WithSnoopLatencies(runFlags.snoopLat, runFlags.snoopHitLat).
		WithMSHRCapacity(runFlags.mshrCap)

	sb := simulation.MakeBuilder().
		WithNumCaches(runFlags.numCaches).
		WithCacheBuilder(cb)

	if !runFlags.quiet {
		sb = sb.WithConsoleLog(os.Stdout)
	}
	if runFlags.eventLog {
		sb = sb.WithEventLog(os.Stderr)
	}
	if runFlags.dbPath != "" {
		sb = sb.WithDataRecording(runFlags.dbPath)
	}
	if runFlags.monitorOn {
		sb = sb.WithMonitoring(runFlags.monitorPort, runFlags.openBrowser)
	}

	if err := sb.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	accesses, err := readTrace(runFlags.traceFile)
	if err != nil {
		return err
	}

	s := sb.Build()
	defer s.Terminate()

	if err := s.ScheduleTrace(accesses); err != nil {
		return err
	}

	if err := s.Run(); err != nil {
		return err
	}

	fmt.Println()
	s.WriteSummary(os.Stdout)

	return nil
}

func readTrace(path string) ([]trace.Access, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	accesses, err := trace.Read(file)
	if err != nil {
		return nil, err
	}

	return accesses, nil
}
