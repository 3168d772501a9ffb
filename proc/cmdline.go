package proc

import (
	"bytes"
	"strings"
)

// ParseNulList splits NUL-separated content such as /proc/[pid]/cmdline and
// environ into its elements. A trailing NUL does not produce an empty
// element; zombies and kernel threads yield an empty slice.
func ParseNulList(data []byte) []string {
	data = bytes.TrimSuffix(data, []byte{0})
	if len(data) == 0 {
		return nil
	}
	parts := bytes.Split(data, []byte{0})
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(p)
	}
	return out
}

// ParseEnviron parses /proc/[pid]/environ into a map. Entries without an
// equals sign are skipped; for duplicate keys the last entry wins, matching
// what execve semantics give the process itself.
func ParseEnviron(data []byte) map[string]string {
	env := make(map[string]string)
	for _, entry := range ParseNulList(data) {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}
