package intern

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
)

// Lookup errors.
var (
	// ErrOutOfRange is returned when resolving an identity this table never issued.
	ErrOutOfRange = errors.New("intern: identity out of range")

	// ErrStale is returned when resolving an identity issued before the last Clear.
	ErrStale = errors.New("intern: identity issued before clear")
)

// Identity is the stable integer handle of an interned string.
//
// The low 32 bits index the table's string sequence. The high 32 bits hold the
// table generation at the time of issue, so identities that survive a Clear
// never resolve to a string interned afterwards.
type Identity uint64

// Index returns the position of the identity in the table's string sequence.
func (id Identity) Index() uint32 { return uint32(id) }

// Generation returns the table generation the identity was issued in.
func (id Identity) Generation() uint32 { return uint32(id >> 32) }

func makeIdentity(generation uint32, index int) Identity {
	return Identity(uint64(generation)<<32 | uint64(uint32(index)))
}

// LookupError reports a failed Resolve.
type LookupError struct {
	ID  Identity
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: index %d generation %d", e.Err, e.ID.Index(), e.ID.Generation())
}

func (e *LookupError) Unwrap() error { return e.Err }

// Table is a deduplicated string store with O(1) identity comparison.
//
// Table is safe for concurrent use. Lookups take a read lock; inserting a new
// string takes the write lock and re-checks for a racing insert of the same
// content before appending, so equal content always maps to one identity.
//
// There is no removal: identities stay valid until Clear.
type Table struct {
	mu sync.RWMutex

	// ids maps string content to its identity.
	ids map[string]Identity

	// strs is the append-only identity -> string sequence.
	strs []string

	generation uint32
}

// New creates an empty table.
func New() *Table {
	return &Table{
		ids: make(map[string]Identity),
	}
}

// Intern returns the identity of s, adding it to the table if absent.
func (t *Table) Intern(s string) Identity {
	t.mu.RLock()
	id, ok := t.ids[s]
	t.mu.RUnlock()
	if ok {
		return id
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.ids[s]; ok {
		return id
	}

	id = makeIdentity(t.generation, len(t.strs))
	t.strs = append(t.strs, s)
	t.ids[s] = id
	return id
}

// InternBytes interns the content of b. The slice is copied when a new
// entry is created, so the caller may reuse it.
func (t *Table) InternBytes(b []byte) Identity {
	t.mu.RLock()
	id, ok := t.ids[string(b)] // no allocation for map lookups keyed by string(b)
	t.mu.RUnlock()
	if ok {
		return id
	}
	return t.Intern(string(b))
}

// InternCString interns NUL-terminated text: everything before the first
// zero byte, or the whole slice when it has none.
func (t *Table) InternCString(b []byte) Identity {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return t.InternBytes(b)
}

// Lookup returns the identity of s without inserting it.
func (t *Table) Lookup(s string) (Identity, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.ids[s]
	return id, ok
}

// Resolve returns the string that produced id.
func (t *Table) Resolve(id Identity) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if id.Generation() < t.generation {
		return "", &LookupError{ID: id, Err: ErrStale}
	}
	idx := int(id.Index())
	if id.Generation() > t.generation || idx >= len(t.strs) {
		return "", &LookupError{ID: id, Err: ErrOutOfRange}
	}
	return t.strs[idx], nil
}

// MustResolve is like Resolve but panics on error.
// Use it only with identities obtained from this table since the last Clear.
func (t *Table) MustResolve(id Identity) string {
	s, err := t.Resolve(id)
	if err != nil {
		panic(err)
	}
	return s
}

// Clear empties the table. Every identity issued so far becomes invalid.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ids = make(map[string]Identity)
	t.strs = nil
	t.generation++
}

// Size returns the number of distinct interned strings.
func (t *Table) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.strs)
}
