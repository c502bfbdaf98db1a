// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ SYMBOL TABLE — 8-BYTE TOKEN INTERNING
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Dense stable-id interning for wire symbol tokens
//
// Description:
//   Maps an 8-byte, space-padded ITCH symbol token to a process-lifetime
//   stable, monotonically assigned dense id. Comparison is over the
//   trailing-space-trimmed view, matching the wire convention that shorter
//   tickers are right-padded with ASCII spaces.
//
// Design:
//   The trimmed token is canonicalized into a single uint64 (trailing
//   space bytes zeroed) so the whole key fits in one machine word; lookup
//   is a flat open-addressed table over that word, insert-only (symbols
//   are never evicted), so no tombstone bookkeeping is needed.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package symboltable

import (
	"itchfeed/constants"
	"itchfeed/types"
	"itchfeed/utils"
)

// Table interns 8-byte symbol tokens to types.SymbolID. Zero value is not
// usable; construct with New.
type Table struct {
	keys  []uint64
	vals  []types.SymbolID
	mask  uint64
	store [][constants.SymbolBytes + 1]byte // id -> trimmed symbol bytes + NUL
	next  types.SymbolID
}

// New constructs a table sized for the package-wide symbol-cardinality
// bound.
func New() *Table {
	sz := nextPow2(constants.MaxSymbols * 2)
	return &Table{
		keys:  make([]uint64, sz),
		vals:  make([]types.SymbolID, sz),
		mask:  sz - 1,
		store: make([][constants.SymbolBytes + 1]byte, constants.MaxSymbols),
		next:  1, // 0 is reserved for unknown/absent
	}
}

func nextPow2(n int) uint64 {
	s := uint64(1)
	for s < uint64(n) {
		s <<= 1
	}
	return s
}

// canonicalize zeroes trailing ASCII-space bytes of an 8-byte token and
// returns it as a single machine word, so two tokens that differ only in
// trailing-space padding hash and compare identically.
//
//go:nosplit
//go:inline
func canonicalize(sym8 []byte) uint64 {
	var buf [8]byte
	copy(buf[:], sym8)
	n := 8
	for n > 0 && buf[n-1] == ' ' {
		buf[n-1] = 0
		n--
	}
	return utils.Load64(buf[:])
}

// Intern returns sym8's stable id, assigning the next free id on first
// sight. sym8 must be exactly 8 bytes (space-padded on the right); the
// caller's bytes are copied, never retained.
func (t *Table) Intern(sym8 []byte) types.SymbolID {
	key := canonicalize(sym8)
	i := (utils.Mix64(key)) & t.mask

	for {
		k := t.keys[i]
		if k == key && t.vals[i] != 0 {
			return t.vals[i]
		}
		if t.vals[i] == 0 {
			if t.next == 0 {
				panic("symboltable: SymbolID space exhausted (65535 symbols)")
			}
			id := t.next
			t.next++
			t.keys[i] = key
			t.vals[i] = id
			slot := &t.store[id]
			copy(slot[:constants.SymbolBytes], sym8)
			return id
		}
		i = (i + 1) & t.mask
	}
}

// Lookup returns sym8's id without interning it, or (0, false) if unseen.
func (t *Table) Lookup(sym8 []byte) (types.SymbolID, bool) {
	key := canonicalize(sym8)
	i := (utils.Mix64(key)) & t.mask
	for {
		if t.vals[i] == 0 {
			return 0, false
		}
		if t.keys[i] == key {
			return t.vals[i], true
		}
		i = (i + 1) & t.mask
	}
}

// View returns the trimmed symbol bytes stored for id, or nil if id is 0
// or was never interned.
func (t *Table) View(id types.SymbolID) []byte {
	if id == 0 || (t.next != 0 && id >= t.next) {
		return nil
	}
	return utils.TrimSymbol(t.store[id][:constants.SymbolBytes])
}

// Len returns the number of distinct symbols interned so far.
func (t *Table) Len() int {
	return int(t.next - 1)
}
