package proc

import "strings"

// MemPerms are the permission flags of one memory mapping. Shared is the
// 's' column; private ('p') mappings have Shared false.
type MemPerms struct {
	Read    bool
	Write   bool
	Execute bool
	Shared  bool
}

func (p MemPerms) String() string {
	b := []byte("---p")
	if p.Read {
		b[0] = 'r'
	}
	if p.Write {
		b[1] = 'w'
	}
	if p.Execute {
		b[2] = 'x'
	}
	if p.Shared {
		b[3] = 's'
	}
	return string(b)
}

// MemPathKind enumerates what backs a mapping.
type MemPathKind int

const (
	// PathAnonymous means the mapping has no pathname column at all.
	PathAnonymous MemPathKind = iota
	// PathFile means the mapping is backed by the file named in Path.
	PathFile
	PathHeap
	PathStack
	PathVdso
	PathVvar
	PathVsyscall
	// PathOther covers bracketed pseudo-paths this package does not name,
	// preserved verbatim in Path.
	PathOther
)

// MemPath is the pathname column of a mapping. Path is empty except for
// PathFile and PathOther.
type MemPath struct {
	Kind MemPathKind
	Path string
}

// MemMapEntry is one line of /proc/[pid]/maps.
type MemMapEntry struct {
	Start  uint64
	End    uint64
	Perms  MemPerms
	Offset uint64
	Dev    Dev
	Inode  uint64
	Path   MemPath
}

// ParseMaps parses /proc/[pid]/maps content. Backing paths may contain
// spaces, so each line is split into at most six fields with the remainder
// kept whole.
func ParseMaps(source string, data []byte) ([]MemMapEntry, error) {
	var entries []MemMapEntry
	for _, line := range lines(data) {
		if line == "" {
			continue
		}
		entry, err := parseMapsLine(source, line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseMapsLine(source, line string) (MemMapEntry, error) {
	var e MemMapEntry
	fields := splitFieldsN(line, 6)
	if len(fields) < 5 {
		return e, missing(source, "inode")
	}

	startTok, endTok, ok := strings.Cut(fields[0], "-")
	if !ok {
		return e, malformedf(source, "address", "%q is not a start-end range", fields[0])
	}
	var err error
	if e.Start, err = parseHexUint(source, "address", startTok, 64); err != nil {
		return e, err
	}
	if e.End, err = parseHexUint(source, "address", endTok, 64); err != nil {
		return e, err
	}

	if e.Perms, err = parseMemPerms(source, fields[1]); err != nil {
		return e, err
	}
	if e.Offset, err = parseHexUint(source, "offset", fields[2], 64); err != nil {
		return e, err
	}
	if e.Dev, err = parseDevPair(source, "dev", fields[3], 16); err != nil {
		return e, err
	}
	if e.Inode, err = parseUint(source, "inode", fields[4], 64); err != nil {
		return e, err
	}

	if len(fields) == 6 {
		e.Path = classifyMapPath(strings.TrimSpace(fields[5]))
	}
	return e, nil
}

func parseMemPerms(source, tok string) (MemPerms, error) {
	var p MemPerms
	if len(tok) != 4 {
		return p, malformedf(source, "perms", "%q is not a 4-character flag set", tok)
	}
	p.Read = tok[0] == 'r'
	p.Write = tok[1] == 'w'
	p.Execute = tok[2] == 'x'
	p.Shared = tok[3] == 's'
	return p, nil
}

func classifyMapPath(path string) MemPath {
	switch path {
	case "":
		return MemPath{Kind: PathAnonymous}
	case "[heap]":
		return MemPath{Kind: PathHeap}
	case "[stack]":
		return MemPath{Kind: PathStack}
	case "[vdso]":
		return MemPath{Kind: PathVdso}
	case "[vvar]":
		return MemPath{Kind: PathVvar}
	case "[vsyscall]":
		return MemPath{Kind: PathVsyscall}
	}
	if strings.HasPrefix(path, "[") {
		return MemPath{Kind: PathOther, Path: path}
	}
	return MemPath{Kind: PathFile, Path: path}
}
