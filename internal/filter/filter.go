// Package filter decides which list entries stay visible for a search query.
//
// A label is visible when it contains the query as a contiguous substring.
// Matching is literal and case-sensitive; the empty query matches everything.
package filter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingLabel is returned by Run under PolicyFail when an item has no label.
var ErrMissingLabel = errors.New("item has no label")

// MissingLabelPolicy controls what Run does with an item that carries no label.
type MissingLabelPolicy int

const (
	// PolicyHide hides the unlabeled item and keeps going.
	PolicyHide MissingLabelPolicy = iota
	// PolicyKeep leaves the unlabeled item's visibility untouched.
	PolicyKeep
	// PolicyFail stops the run and returns ErrMissingLabel.
	PolicyFail
)

func (p MissingLabelPolicy) String() string {
	switch p {
	case PolicyHide:
		return "hide"
	case PolicyKeep:
		return "keep"
	case PolicyFail:
		return "fail"
	default:
		return fmt.Sprintf("MissingLabelPolicy(%d)", int(p))
	}
}

// ParsePolicy maps a config value to a policy. The empty string means PolicyHide.
func ParsePolicy(s string) (MissingLabelPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hide":
		return PolicyHide, nil
	case "keep":
		return PolicyKeep, nil
	case "fail":
		return PolicyFail, nil
	default:
		return PolicyHide, fmt.Errorf("unknown missing label policy %q: must be one of hide, keep, fail", s)
	}
}

// Source is the list a Filter reads labels from and writes visibility to.
// The rendering layer implements it.
type Source interface {
	Len() int
	// Label returns the item's label and whether it has one at all.
	Label(i int) (string, bool)
	SetVisible(i int, visible bool)
}

// Filter applies a query to a Source.
type Filter struct {
	policy MissingLabelPolicy
}

// New creates a filter with the given missing label policy
func New(policy MissingLabelPolicy) *Filter {
	return &Filter{policy: policy}
}

// Policy returns the missing label policy in effect.
func (f *Filter) Policy() MissingLabelPolicy {
	return f.policy
}

// Run visits every item of src in order and sets its visibility to whether
// its label contains query. Under PolicyFail the first unlabeled item stops
// the run; items before it have already been updated.
func (f *Filter) Run(query string, src Source) error {
	n := src.Len()
	for i := 0; i < n; i++ {
		label, ok := src.Label(i)
		if !ok {
			switch f.policy {
			case PolicyKeep:
				continue
			case PolicyFail:
				return fmt.Errorf("item %d: %w", i, ErrMissingLabel)
			default:
				src.SetVisible(i, false)
				continue
			}
		}
		src.SetVisible(i, Matches(label, query))
	}
	return nil
}

// Matches reports whether label contains query.
func Matches(label, query string) bool {
	return strings.Contains(label, query)
}

// Visibility returns, for each label, whether it is visible for query.
func Visibility(query string, labels []string) []bool {
	visible := make([]bool, len(labels))
	for i, label := range labels {
		visible[i] = Matches(label, query)
	}
	return visible
}

// Item is a plain labeled entry with a visibility flag.
type Item struct {
	Label   string
	Visible bool
}

// Items adapts a slice of Item to Source. Every Item counts as labeled,
// including one with an empty label.
type Items []Item

func (s Items) Len() int                       { return len(s) }
func (s Items) Label(i int) (string, bool)     { return s[i].Label, true }
func (s Items) SetVisible(i int, visible bool) { s[i].Visible = visible }

// Apply runs the default filter over items in place.
func Apply(query string, items []Item) {
	// PolicyHide never returns an error and Items always has labels.
	_ = New(PolicyHide).Run(query, Items(items))
}
