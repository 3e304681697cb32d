package models

import "strings"

// TagSet is an insertion-ordered set of strings, used for skills and
// interests.
type TagSet struct {
	items []string
}

func NewTagSet(values ...string) *TagSet {
	s := &TagSet{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add trims value and appends it. It returns false when the trimmed value is
// empty or already present.
func (s *TagSet) Add(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || s.Contains(value) {
		return false
	}
	s.items = append(s.items, value)
	return true
}

func (s *TagSet) Remove(value string) bool {
	for i, v := range s.items {
		if v == value {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *TagSet) Contains(value string) bool {
	for _, v := range s.items {
		if v == value {
			return true
		}
	}
	return false
}

func (s *TagSet) Len() int {
	return len(s.items)
}

// Values returns a copy of the entries in insertion order.
func (s *TagSet) Values() []string {
	return copyList(s.items)
}
