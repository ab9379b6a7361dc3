// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package graph

import (
	"iter"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/btree"
)

// Store is an in-memory set of Facts. Facts can be added but never removed.
//
// Terms are interned to small integer IDs. Each stored Fact gets a handle,
// which is its position in the facts arena; handles are assigned in insertion
// order. The indexes map a subject, predicate, object, (subject, predicate)
// or (predicate, object) to the handles of the Facts that contain them. Index
// lists are only ever appended to, so they are always sorted by handle, and
// the prefix of any list that a reader has seen never changes.
//
// Store is safe for concurrent use. Readers take the read lock just long
// enough to copy the slice headers they need, then iterate without it.
type Store struct {
	lock    sync.RWMutex
	terms   []Term // indexed by termID, terms[0] is unused
	termIDs map[Term]termID
	facts   []triple // indexed by handle
	spo     map[triple]int
	s       map[termID][]int
	p       map[termID][]int
	o       map[termID][]int
	sp      map[pair][]int
	po      map[pair][]int
	// sorted holds the same Facts as the arena, in Fact.Less order.
	sorted      *btree.BTreeG[Fact]
	fingerprint uint64
}

type termID uint32

type triple struct {
	s, p, o termID
}

type pair struct {
	a, b termID
}

// Mark identifies a point in the history of a Store. Facts added after a Mark
// was taken are visible through MatchSince.
type Mark int

// NewStore returns a new empty Store.
func NewStore() *Store {
	return &Store{
		terms:   []Term{Any},
		termIDs: make(map[Term]termID),
		spo:     make(map[triple]int),
		s:       make(map[termID][]int),
		p:       make(map[termID][]int),
		o:       make(map[termID][]int),
		sp:      make(map[pair][]int),
		po:      make(map[pair][]int),
		sorted:  btree.NewG[Fact](16, Fact.Less),
	}
}

// NewStoreFrom returns a new Store containing the given facts. It panics if
// any of them are malformed; it's intended for tests and fixtures.
func NewStoreFrom(facts ...Fact) *Store {
	s := NewStore()
	for _, f := range facts {
		s.MustAdd(f)
	}
	return s
}

// Add stores the Fact. It returns true if the Fact was not already in the
// Store. It returns a *MalformedFactError if the Fact contains a Variable or
// has a Literal as its subject or predicate.
func (s *Store) Add(f Fact) (bool, error) {
	if err := f.Validate(); err != nil {
		return false, err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.addLocked(f), nil
}

// AddAll stores each of the Facts, and returns how many of them were new. It
// stops at the first malformed Fact.
func (s *Store) AddAll(facts []Fact) (int, error) {
	for _, f := range facts {
		if err := f.Validate(); err != nil {
			return 0, err
		}
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	added := 0
	for _, f := range facts {
		if s.addLocked(f) {
			added++
		}
	}
	return added, nil
}

// MustAdd is like Add but panics on a malformed Fact.
func (s *Store) MustAdd(f Fact) bool {
	added, err := s.Add(f)
	if err != nil {
		panic(err.Error())
	}
	return added
}

func (s *Store) addLocked(f Fact) bool {
	t := triple{
		s: s.intern(f.Subject),
		p: s.intern(f.Predicate),
		o: s.intern(f.Object),
	}
	if _, exists := s.spo[t]; exists {
		return false
	}
	h := len(s.facts)
	s.facts = append(s.facts, t)
	s.spo[t] = h
	s.s[t.s] = append(s.s[t.s], h)
	s.p[t.p] = append(s.p[t.p], h)
	s.o[t.o] = append(s.o[t.o], h)
	s.sp[pair{t.s, t.p}] = append(s.sp[pair{t.s, t.p}], h)
	s.po[pair{t.p, t.o}] = append(s.po[pair{t.p, t.o}], h)
	s.sorted.ReplaceOrInsert(f)
	s.fingerprint += xxhash.Sum64String(f.String())
	return true
}

func (s *Store) intern(t Term) termID {
	if id, exists := s.termIDs[t]; exists {
		return id
	}
	id := termID(len(s.terms))
	s.terms = append(s.terms, t)
	s.termIDs[t] = id
	return id
}

// Len returns the number of Facts in the Store.
func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.facts)
}

// TermCount returns the number of distinct Terms used by the stored Facts.
func (s *Store) TermCount() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.terms) - 1
}

// Mark returns the current high-water mark of the Store. Facts added from now
// on are returned by MatchSince(mark, ...).
func (s *Store) Mark() Mark {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return Mark(len(s.facts))
}

// Contains returns true if the Fact is in the Store.
func (s *Store) Contains(f Fact) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	var t triple
	var ok bool
	if t.s, ok = s.termIDs[f.Subject]; !ok {
		return false
	}
	if t.p, ok = s.termIDs[f.Predicate]; !ok {
		return false
	}
	if t.o, ok = s.termIDs[f.Object]; !ok {
		return false
	}
	_, ok = s.spo[t]
	return ok
}

// Match returns the Facts that match the pattern. Each position is either a
// concrete Term that a Fact must have in that position, or Any (or a Variable)
// to match every Term. The Facts are those in the Store at the time of the
// call; Facts added during iteration are not visited.
func (s *Store) Match(subject, predicate, object Term) iter.Seq[Fact] {
	return s.MatchSince(0, subject, predicate, object)
}

// MatchSince is like Match but only returns Facts that were added at or after
// the given Mark.
func (s *Store) MatchSince(from Mark, subject, predicate, object Term) iter.Seq[Fact] {
	s.lock.RLock()
	var want triple
	found := true
	lookup := func(t Term) termID {
		if !t.IsConcrete() {
			return 0
		}
		id, exists := s.termIDs[t]
		if !exists {
			found = false
		}
		return id
	}
	want.s = lookup(subject)
	want.p = lookup(predicate)
	want.o = lookup(object)
	var handles []int
	scan := false
	if found {
		handles, scan = s.candidatesLocked(want)
	}
	facts := s.facts
	terms := s.terms
	s.lock.RUnlock()

	return func(yield func(Fact) bool) {
		if !found {
			return
		}
		if scan {
			for h := int(from); h < len(facts); h++ {
				if !yield(resolve(terms, facts[h])) {
					return
				}
			}
			return
		}
		start := sort.SearchInts(handles, int(from))
		for _, h := range handles[start:] {
			t := facts[h]
			if (want.s != 0 && t.s != want.s) ||
				(want.p != 0 && t.p != want.p) ||
				(want.o != 0 && t.o != want.o) {
				continue
			}
			if !yield(resolve(terms, t)) {
				return
			}
		}
	}
}

// candidatesLocked returns the handles of a superset of the Facts matching
// 'want', using the most selective index available. A zero termID is a
// wildcard. It returns scan=true if every Fact needs to be considered.
func (s *Store) candidatesLocked(want triple) (handles []int, scan bool) {
	switch {
	case want.s != 0 && want.p != 0 && want.o != 0:
		if h, exists := s.spo[want]; exists {
			return []int{h}, false
		}
		return nil, false
	case want.s != 0 && want.p != 0:
		return s.sp[pair{want.s, want.p}], false
	case want.p != 0 && want.o != 0:
		return s.po[pair{want.p, want.o}], false
	case want.s != 0 && want.o != 0:
		bySubject, byObject := s.s[want.s], s.o[want.o]
		if len(byObject) < len(bySubject) {
			return byObject, false
		}
		return bySubject, false
	case want.s != 0:
		return s.s[want.s], false
	case want.p != 0:
		return s.p[want.p], false
	case want.o != 0:
		return s.o[want.o], false
	}
	return nil, true
}

func resolve(terms []Term, t triple) Fact {
	return Fact{Subject: terms[t.s], Predicate: terms[t.p], Object: terms[t.o]}
}

// Objects returns the distinct objects of Facts with the given subject and
// predicate, in insertion order.
func (s *Store) Objects(subject, predicate Term) []Term {
	var res []Term
	for f := range s.Match(subject, predicate, Any) {
		res = append(res, f.Object)
	}
	return res
}

// Subjects returns the distinct subjects of Facts with the given predicate and
// object, in insertion order.
func (s *Store) Subjects(predicate, object Term) []Term {
	var res []Term
	for f := range s.Match(Any, predicate, object) {
		res = append(res, f.Subject)
	}
	return res
}

// Facts returns all the Facts in the Store, in the order they were added.
func (s *Store) Facts() iter.Seq[Fact] {
	return s.Match(Any, Any, Any)
}

// Sorted returns all the Facts in the Store in Fact.Less order.
func (s *Store) Sorted() iter.Seq[Fact] {
	s.lock.Lock()
	// Clone is lazy and leaves both trees safe to use independently, but it
	// must not run concurrently with a write to s.sorted.
	snapshot := s.sorted.Clone()
	s.lock.Unlock()
	return func(yield func(Fact) bool) {
		snapshot.Ascend(func(f Fact) bool {
			return yield(f)
		})
	}
}

// Fingerprint returns a hash of the set of Facts in the Store. Stores holding
// the same Facts have the same Fingerprint, regardless of the order the Facts
// were added in.
func (s *Store) Fingerprint() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.fingerprint
}

// Equal returns true if both Stores hold exactly the same Facts.
func (s *Store) Equal(other *Store) bool {
	if s.Len() != other.Len() || s.Fingerprint() != other.Fingerprint() {
		return false
	}
	for f := range s.Facts() {
		if !other.Contains(f) {
			return false
		}
	}
	return true
}

// Clone returns a new Store containing the same Facts, added in the same
// order.
func (s *Store) Clone() *Store {
	c := NewStore()
	s.lock.RLock()
	defer s.lock.RUnlock()
	for _, t := range s.facts {
		c.addLocked(resolve(s.terms, t))
	}
	return c
}

// Merge adds all the Facts from 'other' into the Store, and returns how many
// were new.
func (s *Store) Merge(other *Store) int {
	added := 0
	for f := range other.Facts() {
		s.lock.Lock()
		if s.addLocked(f) {
			added++
		}
		s.lock.Unlock()
	}
	return added
}
