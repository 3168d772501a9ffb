package proc

import (
	"strconv"
	"strings"
)

// PressureRecord is one some/full line of a /proc/pressure file. Total is
// the cumulative stall time in microseconds.
type PressureRecord struct {
	Avg10  float64
	Avg60  float64
	Avg300 float64
	Total  uint64
}

// Pressure is a parsed /proc/pressure/{cpu,memory,io} file. The cpu file
// gained its full line in 5.13, so Full is optional.
type Pressure struct {
	Some PressureRecord
	Full *PressureRecord
}

// ParsePressure parses a pressure stall information file. If the feature
// context marks the kernel at or past 5.13, a missing full line is an error
// even for the cpu file.
func ParsePressure(source string, data []byte, f Features) (*Pressure, error) {
	p := &Pressure{}
	var haveSome bool
	for _, line := range lines(data) {
		if line == "" {
			continue
		}
		label, rest, _ := strings.Cut(line, " ")
		record, err := parsePressureRecord(source, label, rest)
		if err != nil {
			return nil, err
		}
		switch label {
		case "some":
			p.Some = record
			haveSome = true
		case "full":
			full := record
			p.Full = &full
		default:
			return nil, malformedf(source, "", "unexpected line label %q", label)
		}
	}
	if !haveSome {
		return nil, missing(source, "some")
	}
	if p.Full == nil && f.expects(verCPUFullLine) {
		return nil, missing(source, "full")
	}
	return p, nil
}

func parsePressureRecord(source, label, rest string) (PressureRecord, error) {
	var r PressureRecord
	kv := make(map[string]string, 4)
	for _, tok := range strings.Fields(rest) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			return r, malformedf(source, label, "token %q is not key=value", tok)
		}
		kv[key] = value
	}
	avgs := []struct {
		key string
		dst *float64
	}{
		{"avg10", &r.Avg10},
		{"avg60", &r.Avg60},
		{"avg300", &r.Avg300},
	}
	for _, a := range avgs {
		value, ok := kv[a.key]
		if !ok {
			return r, missing(source, label+" "+a.key)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return r, malformed(source, label+" "+a.key, err)
		}
		*a.dst = v
	}
	value, ok := kv["total"]
	if !ok {
		return r, missing(source, label+" total")
	}
	total, err := parseUint(source, label+" total", value, 64)
	if err != nil {
		return r, err
	}
	r.Total = total
	return r, nil
}
