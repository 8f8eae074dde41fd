package model

import "net/url"

// Constraint is the last-submitted set of non-skill search filters
// (location, remote-only, salary floor...). It is stored as a single
// current value and applied to every subsequent crawl regardless of
// which skill triggered it. A new user search overwrites the previous
// constraint wholesale; constraints are never merged.
type Constraint struct {
	// Params is the URL-encoded filter set, e.g. "l=Berlin&remote=1".
	Params string `json:"params"`
}

// Values decodes the constraint into url.Values. A malformed or empty
// constraint decodes to an empty value set, never an error: a missing
// constraint simply means an unconstrained search.
func (c Constraint) Values() url.Values {
	if c.Params == "" {
		return url.Values{}
	}
	v, err := url.ParseQuery(c.Params)
	if err != nil {
		return url.Values{}
	}
	return v
}

// ConstraintFromValues encodes url.Values into a Constraint.
func ConstraintFromValues(v url.Values) Constraint {
	return Constraint{Params: v.Encode()}
}
