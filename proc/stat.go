package proc

// State is the single-character scheduler state from the stat and status
// files. The set grows across kernel versions, so an unrecognized code maps
// to StateUnknown while the raw character is preserved on the record.
type State int

const (
	StateUnknown State = iota
	StateRunning
	StateSleeping
	StateDiskSleep
	StateZombie
	StateStopped
	StateTracingStop
	StatePaging
	StateDead
	StateWakekill
	StateWaking
	StateParked
	StateIdle
)

var stateNames = map[State]string{
	StateUnknown:     "unknown",
	StateRunning:     "running",
	StateSleeping:    "sleeping",
	StateDiskSleep:   "disk sleep",
	StateZombie:      "zombie",
	StateStopped:     "stopped",
	StateTracingStop: "tracing stop",
	StatePaging:      "paging",
	StateDead:        "dead",
	StateWakekill:    "wakekill",
	StateWaking:      "waking",
	StateParked:      "parked",
	StateIdle:        "idle",
}

func (s State) String() string { return stateNames[s] }

// stateFromCode maps the published state characters. X and x both mean dead
// (x appeared in 2.6.33 and was dropped in 3.13).
func stateFromCode(c byte) State {
	switch c {
	case 'R':
		return StateRunning
	case 'S':
		return StateSleeping
	case 'D':
		return StateDiskSleep
	case 'Z':
		return StateZombie
	case 'T':
		return StateStopped
	case 't':
		return StateTracingStop
	case 'W':
		return StatePaging
	case 'X', 'x':
		return StateDead
	case 'K':
		return StateWakekill
	case 'P':
		return StateParked
	case 'I':
		return StateIdle
	default:
		return StateUnknown
	}
}

// Stat is a parsed /proc/[pid]/stat line. Time fields are raw tick counts;
// converting them to durations needs the tick rate and happens in the
// snapshot layer, never here. RSS is in pages for the same reason.
//
// Pointer fields were introduced after Linux 2.6 and may be structurally
// absent on old kernels.
type Stat struct {
	PID       int
	Comm      string
	State     State
	StateCode byte
	PPID      int
	PGrp      int
	Session   int
	TTY       Dev
	TPGID     int
	Flags     uint32

	MinFlt  uint64
	CMinFlt uint64
	MajFlt  uint64
	CMajFlt uint64

	UTime  uint64 // ticks
	STime  uint64 // ticks
	CUTime int64  // ticks, signed per the kernel's cutime type
	CSTime int64

	Priority   int64
	Nice       int64
	NumThreads int64

	StartTime uint64 // ticks since boot
	VSize     uint64 // bytes
	RSS       int64  // pages
	RSSLim    uint64

	StartCode  uint64
	EndCode    uint64
	StartStack uint64
	KstkESP    uint64
	KstkEIP    uint64

	Signal    uint64
	Blocked   uint64
	SigIgnore uint64
	SigCatch  uint64
	WChan     uint64
	NSwap     uint64
	CNSwap    uint64

	ExitSignal          *int32  // since 2.1.22
	Processor           *int32  // since 2.2.8
	RTPriority          *uint32 // since 2.5.19
	Policy              *uint32 // since 2.5.19
	DelayAcctBlkIOTicks *uint64 // since 2.6.18
	GuestTime           *uint64 // since 2.6.24
	CGuestTime          *int64  // since 2.6.24
	StartData           *uint64 // since 3.3
	EndData             *uint64 // since 3.3
	StartBrk            *uint64 // since 3.3
	ArgStart            *uint64 // since 3.5
	ArgEnd              *uint64 // since 3.5
	EnvStart            *uint64 // since 3.5
	EnvEnd              *uint64 // since 3.5
	ExitCode            *int32  // since 3.5
}

// statMinFields is the column count through cnswap, mandatory on every
// kernel this package supports. Columns are numbered per proc(5); after
// removing pid and comm the remainder starts at state.
const statMinFields = 35

// ParseStat parses a /proc/[pid]/stat line. The comm field is extracted by
// matching the outermost parenthesis pair so names containing spaces or
// parentheses decode intact. Extra trailing columns from kernels newer than
// this package are ignored.
func ParseStat(source string, data []byte, f Features) (*Stat, error) {
	line := trimOneLine(data)
	pidTok, comm, rest, err := splitCommLine(source, line)
	if err != nil {
		return nil, err
	}
	if len(rest) < statMinFields {
		return nil, missing(source, "cnswap")
	}
	if f.expects(verStatExtended) && len(rest) < statMinFields+15 {
		return nil, missing(source, "exit_code")
	}

	s := &Stat{Comm: comm}
	pid, err := parseInt(source, "pid", pidTok, 64)
	if err != nil {
		return nil, err
	}
	s.PID = int(pid)

	if len(rest[0]) != 1 {
		return nil, malformedf(source, "state", "%q is not a single state character", rest[0])
	}
	s.StateCode = rest[0][0]
	s.State = stateFromCode(s.StateCode)

	// Field names follow proc(5).
	ints := []struct {
		name string
		dst  *int
	}{
		{"ppid", &s.PPID},
		{"pgrp", &s.PGrp},
		{"session", &s.Session},
	}
	for i, fld := range ints {
		v, err := parseInt(source, fld.name, rest[1+i], 64)
		if err != nil {
			return nil, err
		}
		*fld.dst = int(v)
	}

	ttyRaw, err := parseUint(source, "tty_nr", rest[4], 64)
	if err != nil {
		return nil, err
	}
	s.TTY = devFromPacked(ttyRaw)

	tpgid, err := parseInt(source, "tpgid", rest[5], 64)
	if err != nil {
		return nil, err
	}
	s.TPGID = int(tpgid)

	flags, err := parseUint(source, "flags", rest[6], 32)
	if err != nil {
		return nil, err
	}
	s.Flags = uint32(flags)

	uints := []struct {
		name string
		dst  *uint64
	}{
		{"minflt", &s.MinFlt},
		{"cminflt", &s.CMinFlt},
		{"majflt", &s.MajFlt},
		{"cmajflt", &s.CMajFlt},
		{"utime", &s.UTime},
		{"stime", &s.STime},
	}
	for i, fld := range uints {
		if *fld.dst, err = parseUint(source, fld.name, rest[7+i], 64); err != nil {
			return nil, err
		}
	}

	signedFields := []struct {
		name string
		dst  *int64
	}{
		{"cutime", &s.CUTime},
		{"cstime", &s.CSTime},
		{"priority", &s.Priority},
		{"nice", &s.Nice},
		{"num_threads", &s.NumThreads},
	}
	for i, fld := range signedFields {
		if *fld.dst, err = parseInt(source, fld.name, rest[13+i], 64); err != nil {
			return nil, err
		}
	}

	// rest[18] is itrealvalue, unmaintained since 2.6.17 and always 0.
	if _, err := parseInt(source, "itrealvalue", rest[18], 64); err != nil {
		return nil, err
	}

	if s.StartTime, err = parseUint(source, "starttime", rest[19], 64); err != nil {
		return nil, err
	}
	if s.VSize, err = parseUint(source, "vsize", rest[20], 64); err != nil {
		return nil, err
	}
	if s.RSS, err = parseInt(source, "rss", rest[21], 64); err != nil {
		return nil, err
	}

	tail := []struct {
		name string
		dst  *uint64
	}{
		{"rsslim", &s.RSSLim},
		{"startcode", &s.StartCode},
		{"endcode", &s.EndCode},
		{"startstack", &s.StartStack},
		{"kstkesp", &s.KstkESP},
		{"kstkeip", &s.KstkEIP},
		{"signal", &s.Signal},
		{"blocked", &s.Blocked},
		{"sigignore", &s.SigIgnore},
		{"sigcatch", &s.SigCatch},
		{"wchan", &s.WChan},
		{"nswap", &s.NSwap},
		{"cnswap", &s.CNSwap},
	}
	for i, fld := range tail {
		if *fld.dst, err = parseUint(source, fld.name, rest[22+i], 64); err != nil {
			return nil, err
		}
	}

	// Version-gated tail. Absence is determined structurally; the feature
	// check above already rejected records that should have been longer.
	if err := parseStatTail(source, rest[statMinFields:], s); err != nil {
		return nil, err
	}
	return s, nil
}

func parseStatTail(source string, tail []string, s *Stat) error {
	setI32 := func(name string, dst **int32, tok string) error {
		v, err := parseInt(source, name, tok, 32)
		if err != nil {
			return err
		}
		i := int32(v)
		*dst = &i
		return nil
	}
	setU32 := func(name string, dst **uint32, tok string) error {
		v, err := parseUint(source, name, tok, 32)
		if err != nil {
			return err
		}
		u := uint32(v)
		*dst = &u
		return nil
	}
	setU64 := func(name string, dst **uint64, tok string) error {
		v, err := parseUint(source, name, tok, 64)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
	setI64 := func(name string, dst **int64, tok string) error {
		v, err := parseInt(source, name, tok, 64)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}

	type setter func(tok string) error
	setters := []setter{
		func(t string) error { return setI32("exit_signal", &s.ExitSignal, t) },
		func(t string) error { return setI32("processor", &s.Processor, t) },
		func(t string) error { return setU32("rt_priority", &s.RTPriority, t) },
		func(t string) error { return setU32("policy", &s.Policy, t) },
		func(t string) error { return setU64("delayacct_blkio_ticks", &s.DelayAcctBlkIOTicks, t) },
		func(t string) error { return setU64("guest_time", &s.GuestTime, t) },
		func(t string) error { return setI64("cguest_time", &s.CGuestTime, t) },
		func(t string) error { return setU64("start_data", &s.StartData, t) },
		func(t string) error { return setU64("end_data", &s.EndData, t) },
		func(t string) error { return setU64("start_brk", &s.StartBrk, t) },
		func(t string) error { return setU64("arg_start", &s.ArgStart, t) },
		func(t string) error { return setU64("arg_end", &s.ArgEnd, t) },
		func(t string) error { return setU64("env_start", &s.EnvStart, t) },
		func(t string) error { return setU64("env_end", &s.EnvEnd, t) },
		func(t string) error { return setI32("exit_code", &s.ExitCode, t) },
	}
	for i, set := range setters {
		if i >= len(tail) {
			break
		}
		if err := set(tail[i]); err != nil {
			return err
		}
	}
	return nil
}
