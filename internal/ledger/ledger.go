package ledger

import (
	"fmt"
	"math"
	"sync"
)

// NeverMatures marks a claim with no maturity date. Maturity queries match by
// exact day, so a record carrying this value is never due.
const NeverMatures = math.MaxInt

// Party identifies one side of a financial claim. Agents satisfy it; the
// ledger never inspects anything beyond the id.
type Party interface {
	AgentID() int
}

// Claim is the base financial record: a claim of the holder on the issuer.
type Claim struct {
	Issuer       Party
	Holder       Party
	Value        float64
	InterestRate float64 // percent per annum
}

// Calendar is the clock the ledgers read when accruing interest and dating
// new claims. Implemented by schedule.Calendar.
type Calendar interface {
	Day() int
	DaysInMonth() int
	DaysInYear() int
	StartOfThisMonth() int
	StartOfThisYear() int
}

// Table is an append-style table of records keyed by an auto-incrementing id.
// Ids are issued strictly increasing from 0 and never reused, even after a
// Drop. Iteration follows insertion order, though row order carries no
// meaning: lookups are always by id.
//
// All mutation happens on the simulation loop; the lock only protects
// concurrent readers such as metrics scrapes.
type Table[R any] struct {
	mu    sync.RWMutex
	base  func(*R) *Claim
	next  int
	order []int
	rows  map[int]*R
}

// NewTable builds an empty table. base extracts the embedded Claim from a
// record so the table can serve issuer/holder queries.
func NewTable[R any](base func(*R) *Claim) *Table[R] {
	return &Table[R]{base: base, rows: make(map[int]*R)}
}

// NextID issues the next unique id without creating a record.
func (t *Table[R]) NextID() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nextIDLocked()
}

func (t *Table[R]) nextIDLocked() int {
	id := t.next
	t.next++
	return id
}

// Create inserts a record and returns its new id. Both issuer and holder are
// required.
func (t *Table[R]) Create(rec *R) (int, error) {
	c := t.base(rec)
	if c.Issuer == nil || c.Holder == nil {
		return 0, fmt.Errorf("%w: record requires both issuer and holder", ErrValidation)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextIDLocked()
	t.rows[id] = rec
	t.order = append(t.order, id)
	return id, nil
}

// Get returns the record for id, or ErrNotFound.
func (t *Table[R]) Get(id int) (*R, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return rec, nil
}

// Drop removes the record for id, reporting whether it existed. Missing ids
// are a no-op, not an error, so callers can probe speculatively.
func (t *Table[R]) Drop(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Exists reports whether id maps to a live record.
func (t *Table[R]) Exists(id int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rows[id]
	return ok
}

func (t *Table[R]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// IDs returns a snapshot of all live ids in insertion order.
func (t *Table[R]) IDs() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]int, len(t.order))
	copy(out, t.order)
	return out
}

// ByIssuer returns the ids of all records issued by the party, in insertion
// order.
func (t *Table[R]) ByIssuer(issuer Party) []int {
	return t.filter(func(c *Claim) bool { return samePartyID(c.Issuer, issuer) })
}

// ByHolder returns the ids of all records held by the party, in insertion
// order.
func (t *Table[R]) ByHolder(holder Party) []int {
	return t.filter(func(c *Claim) bool { return samePartyID(c.Holder, holder) })
}

func (t *Table[R]) filter(match func(*Claim) bool) []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []int
	for _, id := range t.order {
		if match(t.base(t.rows[id])) {
			out = append(out, id)
		}
	}
	return out
}

func samePartyID(a, b Party) bool {
	return a != nil && b != nil && a.AgentID() == b.AgentID()
}
