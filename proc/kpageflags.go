package proc

import "strings"

// PageFlags is the bitflag set of /proc/kpageflags, one 64-bit record per
// physical page frame. The named constants cover the flags published in the
// kernel's include/uapi/linux/kernel-page-flags.h; bits beyond them are kept
// intact and reachable through Residual so newer kernels round-trip without
// losing information.
type PageFlags uint64

const (
	PageLocked PageFlags = 1 << iota
	PageError
	PageReferenced
	PageUptodate
	PageDirty
	PageLRU
	PageActive
	PageSlab
	PageWriteback
	PageReclaim
	PageBuddy
	PageMmap
	PageAnon
	PageSwapCache
	PageSwapBacked
	PageCompoundHead
	PageCompoundTail
	PageHuge
	PageUnevictable
	PageHWPoison
	PageNopage
	PageKSM
	PageTHP
	PageOffline
	PageZeroPage
	PageIdle
	PagePgtable
)

var pageFlagNames = []struct {
	flag PageFlags
	name string
}{
	{PageLocked, "locked"},
	{PageError, "error"},
	{PageReferenced, "referenced"},
	{PageUptodate, "uptodate"},
	{PageDirty, "dirty"},
	{PageLRU, "lru"},
	{PageActive, "active"},
	{PageSlab, "slab"},
	{PageWriteback, "writeback"},
	{PageReclaim, "reclaim"},
	{PageBuddy, "buddy"},
	{PageMmap, "mmap"},
	{PageAnon, "anon"},
	{PageSwapCache, "swapcache"},
	{PageSwapBacked, "swapbacked"},
	{PageCompoundHead, "compound_head"},
	{PageCompoundTail, "compound_tail"},
	{PageHuge, "huge"},
	{PageUnevictable, "unevictable"},
	{PageHWPoison, "hwpoison"},
	{PageNopage, "nopage"},
	{PageKSM, "ksm"},
	{PageTHP, "thp"},
	{PageOffline, "offline"},
	{PageZeroPage, "zero_page"},
	{PageIdle, "idle"},
	{PagePgtable, "pgtable"},
}

// knownPageFlags is the union of all named flags.
const knownPageFlags = PagePgtable<<1 - 1

// Has reports whether every flag in mask is set.
func (f PageFlags) Has(mask PageFlags) bool { return f&mask == mask }

// Residual returns the bits not covered by any named flag.
func (f PageFlags) Residual() PageFlags { return f &^ knownPageFlags }

func (f PageFlags) String() string {
	var names []string
	for _, pf := range pageFlagNames {
		if f&pf.flag != 0 {
			names = append(names, pf.name)
		}
	}
	if r := f.Residual(); r != 0 {
		names = append(names, "residual")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseKPageFlags decodes raw /proc/kpageflags content: packed little-endian
// 64-bit flag sets, one per physical page frame.
func ParseKPageFlags(source string, data []byte) ([]PageFlags, error) {
	records, err := readLE64Records(source, data)
	if err != nil {
		return nil, err
	}
	flags := make([]PageFlags, len(records))
	for i, raw := range records {
		flags[i] = PageFlags(raw)
	}
	return flags, nil
}
