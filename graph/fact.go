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
	"fmt"
)

// Fact is a single subject, predicate, object statement. Subject and
// Predicate are Resources, Object is a Resource or a Literal.
type Fact struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewFact returns a Fact built from the supplied terms. It does not validate
// them; see Fact.Validate.
func NewFact(subject, predicate, object Term) Fact {
	return Fact{Subject: subject, Predicate: predicate, Object: object}
}

// MalformedFactError is returned when trying to store a Fact that has a Term
// of the wrong kind in one of its positions.
type MalformedFactError struct {
	Fact   Fact
	Reason string
}

func (e *MalformedFactError) Error() string {
	return fmt.Sprintf("malformed fact %v: %s", e.Fact, e.Reason)
}

// Validate returns a *MalformedFactError if the Fact cannot be stored.
func (f Fact) Validate() error {
	check := func(pos string, t Term, literalOK bool) error {
		switch {
		case t.IsResource():
			return nil
		case t.IsLiteral() && literalOK:
			return nil
		}
		return &MalformedFactError{
			Fact:   f,
			Reason: fmt.Sprintf("%s can't be a %v", pos, t.Kind()),
		}
	}
	if err := check("subject", f.Subject, false); err != nil {
		return err
	}
	if err := check("predicate", f.Predicate, false); err != nil {
		return err
	}
	return check("object", f.Object, true)
}

// Terms returns the Subject, Predicate and Object in that order.
func (f Fact) Terms() [3]Term {
	return [3]Term{f.Subject, f.Predicate, f.Object}
}

// Compare orders Facts by Subject, then Predicate, then Object.
func (f Fact) Compare(o Fact) int {
	if c := f.Subject.Compare(o.Subject); c != 0 {
		return c
	}
	if c := f.Predicate.Compare(o.Predicate); c != 0 {
		return c
	}
	return f.Object.Compare(o.Object)
}

// Less returns true if f sorts before o.
func (f Fact) Less(o Fact) bool {
	return f.Compare(o) < 0
}

func (f Fact) String() string {
	return fmt.Sprintf("{%v %v %v}", f.Subject, f.Predicate, f.Object)
}
