package proc

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// parseUint converts a decimal token into an unsigned integer of the given
// bit width. Empty tokens, non-numeric characters and overflow are all
// malformed-field errors.
func parseUint(source, field, tok string, bits int) (uint64, error) {
	if tok == "" {
		return 0, missing(source, field)
	}
	v, err := strconv.ParseUint(tok, 10, bits)
	if err != nil {
		return 0, malformed(source, field, err)
	}
	return v, nil
}

// parseInt is parseUint for signed fields (priority, nice, cutime).
func parseInt(source, field, tok string, bits int) (int64, error) {
	if tok == "" {
		return 0, missing(source, field)
	}
	v, err := strconv.ParseInt(tok, 10, bits)
	if err != nil {
		return 0, malformed(source, field, err)
	}
	return v, nil
}

// parseHexUint converts a hexadecimal token (no 0x prefix) into an unsigned
// integer of the given bit width.
func parseHexUint(source, field, tok string, bits int) (uint64, error) {
	if tok == "" {
		return 0, missing(source, field)
	}
	v, err := strconv.ParseUint(tok, 16, bits)
	if err != nil {
		return 0, malformed(source, field, err)
	}
	return v, nil
}

// parseOctalUint converts an octal token such as the status file's umask.
func parseOctalUint(source, field, tok string) (uint64, error) {
	if tok == "" {
		return 0, missing(source, field)
	}
	v, err := strconv.ParseUint(tok, 8, 32)
	if err != nil {
		return 0, malformed(source, field, err)
	}
	return v, nil
}

// Dev is an ordered (major, minor) device number pair. Packed dev_t values
// are always decoded on parse; callers never see the combined integer.
type Dev struct {
	Major uint32
	Minor uint32
}

func (d Dev) String() string { return fmt.Sprintf("%d:%d", d.Major, d.Minor) }

// IsZero reports whether d is the null device 0:0.
func (d Dev) IsZero() bool { return d == Dev{} }

// devFromPacked decodes the kernel's dev_t bit packing: the minor number
// occupies the low 8 bits plus bits 20 and up, the major the 12 bits between.
func devFromPacked(raw uint64) Dev {
	return Dev{
		Major: uint32(raw >> 8 & 0xfff),
		Minor: uint32(raw&0xff | raw>>12&0xfff00),
	}
}

// parseDevPair parses an already-split "major:minor" pair in the given radix
// (mountinfo uses decimal, maps uses hex).
func parseDevPair(source, field, tok string, base int) (Dev, error) {
	majStr, minStr, ok := strings.Cut(tok, ":")
	if !ok {
		return Dev{}, malformedf(source, field, "%q is not a major:minor pair", tok)
	}
	maj, err := strconv.ParseUint(majStr, base, 32)
	if err != nil {
		return Dev{}, malformed(source, field, err)
	}
	min, err := strconv.ParseUint(minStr, base, 32)
	if err != nil {
		return Dev{}, malformed(source, field, err)
	}
	return Dev{Major: uint32(maj), Minor: uint32(min)}, nil
}

// parseKBValue parses a "<number> kB" value from a key:value block and
// normalizes it to bytes. A bare number is accepted as a unitless count; any
// unit other than kB is a hard parse error, never a silent conversion.
func parseKBValue(source, field, value string) (uint64, error) {
	num, unit, _ := strings.Cut(value, " ")
	n, err := parseUint(source, field, strings.TrimSpace(num), 64)
	if err != nil {
		return 0, err
	}
	switch strings.TrimSpace(unit) {
	case "":
		return n, nil
	case "kB":
		return n * 1024, nil
	default:
		return 0, malformedf(source, field, "unexpected unit %q", unit)
	}
}

// parseHexIP decodes the kernel's hexadecimal socket address encoding: each
// 32-bit group is stored little-endian, so an IPv4 address is 8 hex digits
// with reversed byte order and an IPv6 address is four such groups.
func parseHexIP(source, field, tok string) (net.IP, error) {
	switch len(tok) {
	case 8:
		raw, err := parseHexUint(source, field, tok, 32)
		if err != nil {
			return nil, err
		}
		v := uint32(raw)
		return net.IPv4(byte(v), byte(v>>8), byte(v>>16), byte(v>>24)).To4(), nil
	case 32:
		ip := make(net.IP, net.IPv6len)
		for g := 0; g < 4; g++ {
			raw, err := parseHexUint(source, field, tok[g*8:(g+1)*8], 32)
			if err != nil {
				return nil, err
			}
			v := uint32(raw)
			ip[g*4+0] = byte(v)
			ip[g*4+1] = byte(v >> 8)
			ip[g*4+2] = byte(v >> 16)
			ip[g*4+3] = byte(v >> 24)
		}
		return ip, nil
	default:
		return nil, malformedf(source, field, "address %q is neither 8 nor 32 hex digits", tok)
	}
}

// parseHexAddrPort splits the "ADDR:PORT" form used by the net tables.
func parseHexAddrPort(source, field, tok string) (net.IP, uint16, error) {
	addr, portStr, ok := strings.Cut(tok, ":")
	if !ok {
		return nil, 0, malformedf(source, field, "%q is not an addr:port pair", tok)
	}
	ip, err := parseHexIP(source, field, addr)
	if err != nil {
		return nil, 0, err
	}
	port, err := parseHexUint(source, field, portStr, 16)
	if err != nil {
		return nil, 0, err
	}
	return ip, uint16(port), nil
}
