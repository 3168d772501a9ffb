package proc

import (
	"encoding/binary"
	"strings"
)

// splitCommLine splits a stat-style line of the form
//
//	pid (comm) rest of the fields...
//
// The comm field may contain spaces and parentheses; the matching closing
// parenthesis is found by scanning from the end of the line backward, so a
// comm like "my (weird) proc" survives intact.
func splitCommLine(source, line string) (pid, comm string, rest []string, err error) {
	open := strings.IndexByte(line, '(')
	if open < 0 {
		return "", "", nil, missing(source, "comm")
	}
	end := strings.LastIndexByte(line, ')')
	if end < open {
		return "", "", nil, malformedf(source, "comm", "unbalanced parentheses")
	}
	pid = strings.TrimSpace(line[:open])
	if pid == "" {
		return "", "", nil, missing(source, "pid")
	}
	comm = line[open+1 : end]
	rest = strings.Fields(line[end+1:])
	return pid, comm, rest, nil
}

// splitKeyValue splits a "Key:\tvalue" line on the first colon and trims
// surrounding whitespace from both halves. ok is false when the line has no
// colon at all.
func splitKeyValue(line string) (key, value string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

// splitFieldsN splits s on runs of whitespace into at most n fields; the
// final field receives the untouched remainder (minus leading whitespace) so
// trailing data containing spaces, such as a map's backing path, survives.
func splitFieldsN(s string, n int) []string {
	fields := make([]string, 0, n)
	for len(fields) < n-1 {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return fields
		}
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			return append(fields, s)
		}
		fields = append(fields, s[:i])
		s = s[i:]
	}
	s = strings.TrimLeft(s, " \t")
	if s != "" {
		fields = append(fields, s)
	}
	return fields
}

// trimOneLine returns the first line of raw content without its newline.
func trimOneLine(data []byte) string {
	s := string(data)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

// lines splits raw file content into lines, dropping a trailing empty line.
func lines(data []byte) []string {
	ls := strings.Split(string(data), "\n")
	if n := len(ls); n > 0 && ls[n-1] == "" {
		ls = ls[:n-1]
	}
	return ls
}

// readLE64Records slices raw binary content into little-endian uint64
// records. A length that is not a multiple of eight is a parse error: the
// kernel writes these files as packed 64-bit entries with no padding.
func readLE64Records(source string, data []byte) ([]uint64, error) {
	if len(data)%8 != 0 {
		return nil, malformedf(source, "", "%d bytes is not a whole number of 64-bit records", len(data))
	}
	records := make([]uint64, len(data)/8)
	for i := range records {
		records[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	return records, nil
}

// unescapeOctal decodes the \ooo octal escapes the kernel uses in mount
// paths and fstab-style fields (\040 for space, \011 tab, \012 newline,
// \134 backslash). Unrecognized escapes are preserved verbatim.
func unescapeOctal(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			b.WriteByte((s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0'))
			i += 3
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isOctal(c byte) bool { return c >= '0' && c <= '7' }
