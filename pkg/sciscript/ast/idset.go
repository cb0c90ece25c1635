package ast

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// IDSet is a set of stable_ids, used for a lambda's capture set and for the
// set of ids a scope declares (returned on pop so outer capture sets can
// subtract them). Every stable_id the checker mints is of the form
// "var_<n>", which makes a bitset indexed by n a natural fit -- the same way
// a liveness analysis keys its GEN/KILL/def/use sets by a dense integer
// index rather than a map. Ids which don't follow that numeric scheme (a
// struct method's "self.<field>" rebinding, a stdlib host name, or a lambda
// parameter's source name) are kept on the side in a small overflow set.
type IDSet struct {
	bits     *bitset.BitSet
	overflow map[string]struct{}
}

// NewIDSet constructs an empty id set.
func NewIDSet() *IDSet {
	return &IDSet{bits: bitset.New(0)}
}

// NewIDSetOf constructs an id set containing exactly the given ids.
func NewIDSetOf(ids ...string) *IDSet {
	s := NewIDSet()
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func varIndex(id string) (uint, bool) {
	const prefix = "var_"
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.ParseUint(id[len(prefix):], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// Add inserts id into the set.
func (s *IDSet) Add(id string) {
	if idx, ok := varIndex(id); ok {
		s.bits.Set(idx)
		return
	}
	if s.overflow == nil {
		s.overflow = make(map[string]struct{})
	}
	s.overflow[id] = struct{}{}
}

// Remove deletes id from the set, if present.
func (s *IDSet) Remove(id string) {
	if idx, ok := varIndex(id); ok {
		s.bits.Clear(idx)
		return
	}
	delete(s.overflow, id)
}

// Contains reports whether id is a member of the set.
func (s *IDSet) Contains(id string) bool {
	if idx, ok := varIndex(id); ok {
		return s.bits.Test(idx)
	}
	_, ok := s.overflow[id]
	return ok
}

// Union merges other into s in place and returns s.
func (s *IDSet) Union(other *IDSet) *IDSet {
	if other == nil {
		return s
	}
	s.bits.InPlaceUnion(other.bits)
	for id := range other.overflow {
		if s.overflow == nil {
			s.overflow = make(map[string]struct{})
		}
		s.overflow[id] = struct{}{}
	}
	return s
}

// SubtractInPlace removes every member of other from s and returns s. This is
// the operation a lambda uses to compute "free ids of body minus parameter
// names" and a block uses to filter captures against its locally-declared
// ids.
func (s *IDSet) SubtractInPlace(other *IDSet) *IDSet {
	if other == nil {
		return s
	}
	s.bits.InPlaceDifference(other.bits)
	for id := range other.overflow {
		delete(s.overflow, id)
	}
	return s
}

// ToSlice returns the set's members in deterministic (sorted) order.
func (s *IDSet) ToSlice() []string {
	ids := make([]string, 0, s.bits.Count()+uint(len(s.overflow)))
	for i, e := s.bits.NextSet(0); e; i, e = s.bits.NextSet(i + 1) {
		ids = append(ids, "var_"+strconv.FormatUint(uint64(i), 10))
	}
	for id := range s.overflow {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of members in the set.
func (s *IDSet) Len() int {
	return int(s.bits.Count()) + len(s.overflow)
}
