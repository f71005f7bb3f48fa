package ttable

// EntrySize is the stride of one entry in the backing array. Only 15 bytes
// carry data; the rest is padding.
const EntrySize = 32

// 32 bytes (EntrySize)
type Entry struct {
	hash     uint64
	startRow uint8
	startCol uint8
	endRow   uint8
	endCol   uint8
	flag     uint8
	score    uint8
	depth    uint8
	// used is set by the first Store to this slot. A zero-valued slot
	// would otherwise look like a stored entry for hash 0.
	used bool
	_    [16]byte
}

// Hash returns the full position hash this entry was stored under.
func (e *Entry) Hash() uint64 {
	return e.hash
}

// Move returns the stored move coordinates. The table does not interpret them.
func (e *Entry) Move() (startRow, startCol, endRow, endCol uint8) {
	return e.startRow, e.startCol, e.endRow, e.endCol
}

func (e *Entry) StartRow() uint8 { return e.startRow }
func (e *Entry) StartCol() uint8 { return e.startCol }
func (e *Entry) EndRow() uint8   { return e.endRow }
func (e *Entry) EndCol() uint8   { return e.endCol }

// Flag is the caller-defined bound tag, returned verbatim.
func (e *Entry) Flag() uint8 {
	return e.flag
}

func (e *Entry) Score() uint8 {
	return e.score
}

func (e *Entry) Depth() uint8 {
	return e.depth
}
