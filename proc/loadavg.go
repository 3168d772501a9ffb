package proc

import (
	"strconv"
	"strings"
)

// LoadAvg is the parsed /proc/loadavg line.
type LoadAvg struct {
	Load1  float64
	Load5  float64
	Load15 float64

	// RunnableEntities and TotalEntities come from the "runnable/total"
	// column counting scheduler entities.
	RunnableEntities uint64
	TotalEntities    uint64

	LastPID int
}

// ParseLoadAvg parses /proc/loadavg content.
func ParseLoadAvg(source string, data []byte) (*LoadAvg, error) {
	fields := strings.Fields(trimOneLine(data))
	if len(fields) < 5 {
		return nil, missing(source, "last pid")
	}
	la := &LoadAvg{}
	loads := []*float64{&la.Load1, &la.Load5, &la.Load15}
	names := []string{"load1", "load5", "load15"}
	for i, dst := range loads {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, malformed(source, names[i], err)
		}
		*dst = v
	}
	runnable, total, ok := strings.Cut(fields[3], "/")
	if !ok {
		return nil, malformedf(source, "entities", "%q is not a runnable/total pair", fields[3])
	}
	var err error
	if la.RunnableEntities, err = parseUint(source, "runnable entities", runnable, 64); err != nil {
		return nil, err
	}
	if la.TotalEntities, err = parseUint(source, "total entities", total, 64); err != nil {
		return nil, err
	}
	pid, err := parseInt(source, "last pid", fields[4], 64)
	if err != nil {
		return nil, err
	}
	la.LastPID = int(pid)
	return la, nil
}
