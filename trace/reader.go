// Package trace reads synthetic address traces and replays them onto
// caches.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/snoopsim/mem/cache"
	"github.com/sarchlab/snoopsim/sim"
)

// An Access is one trace tuple: at Time, the named cache performs Op on
// Addr.
type Access struct {
	Time  sim.VTime
	Cache string
	Op    cache.Op
	Addr  uint64
}

// Read parses a trace. Each record is `time,cache,op,address`; op is READ
// or WRITE (case-insensitive); the address can be decimal or 0x hex. Blank
// lines and lines starting with # are skipped.
func Read(r io.Reader) ([]Access, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	accesses := []Access{}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)

		access, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}

		accesses = append(accesses, access)
	}

	return accesses, nil
}

func parseRecord(record []string) (Access, error) {
	if len(record) != 4 {
		return Access{}, fmt.Errorf(
			"expect 4 fields [time, cache, op, address], got %d",
			len(record))
	}

	time, err := strconv.ParseUint(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return Access{}, fmt.Errorf("bad time %q", record[0])
	}

	cacheName := strings.TrimSpace(record[1])
	if cacheName == "" {
		return Access{}, fmt.Errorf("empty cache name")
	}

	var op cache.Op
	switch strings.ToUpper(strings.TrimSpace(record[2])) {
	case "READ", "R":
		op = cache.OpRead
	case "WRITE", "W":
		op = cache.OpWrite
	default:
		return Access{}, fmt.Errorf("bad op %q", record[2])
	}

	addr, err := parseAddr(strings.TrimSpace(record[3]))
	if err != nil {
		return Access{}, err
	}

	return Access{
		Time:  sim.VTime(time),
		Cache: cacheName,
		Op:    op,
		Addr:  addr,
	}, nil
}

func parseAddr(s string) (uint64, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}

	addr, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}

	return addr, nil
}

// Schedule replays the accesses onto their target caches. Replay happens
// before the engine runs, so issue times are delays from the start of the
// simulation. Unknown cache names are rejected before anything is
// scheduled.
func Schedule(accesses []Access, caches map[string]*cache.Comp) error {
	for _, a := range accesses {
		if _, found := caches[a.Cache]; !found {
			return fmt.Errorf("trace references unknown cache %q", a.Cache)
		}
	}

	for _, a := range accesses {
		c := caches[a.Cache]
		if a.Op == cache.OpRead {
			c.ScheduleRead(a.Time, a.Addr)
		} else {
			c.ScheduleWrite(a.Time, a.Addr)
		}
	}

	return nil
}
