package proc

// Bit layout of a pagemap entry, from the kernel's fs/proc/task_mmu.c.
const (
	pagemapPresent    = 1 << 63
	pagemapSwapped    = 1 << 62
	pagemapFileShared = 1 << 61
	pagemapExclusive  = 1 << 56
	pagemapSoftDirty  = 1 << 55

	pagemapPFNMask = 1<<55 - 1

	// Swapped entries pack a swap type in the low bits and the offset above.
	swapTypeBits   = 5
	swapTypeMask   = 1<<swapTypeBits - 1
	swapOffsetMask = pagemapPFNMask >> swapTypeBits
)

// PageInfo is one decoded 64-bit /proc/[pid]/pagemap record. The PFN and
// swap fields are mutually exclusive interpretations of the same bits:
// PFN is meaningful only when Present is set, SwapType/SwapOffset only when
// Swapped is set.
type PageInfo struct {
	Present    bool
	Swapped    bool
	FileShared bool
	Exclusive  bool
	SoftDirty  bool

	PFN uint64

	SwapType   uint8
	SwapOffset uint64
}

// DecodePagemapEntry decodes a single raw pagemap record. A record claiming
// to be both present and swapped is malformed: the kernel never emits one.
func DecodePagemapEntry(source string, raw uint64) (PageInfo, error) {
	info := PageInfo{
		Present:    raw&pagemapPresent != 0,
		Swapped:    raw&pagemapSwapped != 0,
		FileShared: raw&pagemapFileShared != 0,
		Exclusive:  raw&pagemapExclusive != 0,
		SoftDirty:  raw&pagemapSoftDirty != 0,
	}
	if info.Present && info.Swapped {
		return PageInfo{}, malformedf(source, "pagemap entry", "record %#x has both present and swapped set", raw)
	}
	switch {
	case info.Present:
		info.PFN = raw & pagemapPFNMask
	case info.Swapped:
		info.SwapType = uint8(raw & swapTypeMask)
		info.SwapOffset = raw >> swapTypeBits & swapOffsetMask
	}
	return info, nil
}

// ParsePagemap decodes raw /proc/[pid]/pagemap content: packed little-endian
// 64-bit records, one per virtual page, no padding.
func ParsePagemap(source string, data []byte) ([]PageInfo, error) {
	records, err := readLE64Records(source, data)
	if err != nil {
		return nil, err
	}
	infos := make([]PageInfo, len(records))
	for i, raw := range records {
		if infos[i], err = DecodePagemapEntry(source, raw); err != nil {
			return nil, err
		}
	}
	return infos, nil
}
