package validation

import (
	"errors"
	"strings"
)

var ErrTooManyTags = errors.New("you can add up to 10 tags")

// NormalizeTag trims and lower-cases a tag as typed.
func NormalizeTag(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeTags normalizes every tag, drops blanks and duplicates, and
// keeps first-seen order. It does not enforce the MaxTags cap.
func NormalizeTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		tag := NormalizeTag(r)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// TagSet holds tags entered one at a time. The zero value is empty and
// ready to use.
type TagSet struct {
	tags []string
}

func NewTagSet(initial ...string) *TagSet {
	s := &TagSet{}
	for _, tag := range NormalizeTags(initial) {
		if len(s.tags) == MaxTags {
			break
		}
		s.tags = append(s.tags, tag)
	}
	return s
}

// Add stores raw after normalizing it. Blank and already-present tags are
// ignored with added == false. A new tag on a full set returns ErrTooManyTags.
func (s *TagSet) Add(raw string) (added bool, err error) {
	tag := NormalizeTag(raw)
	if tag == "" || s.Contains(tag) {
		return false, nil
	}
	if len(s.tags) >= MaxTags {
		return false, ErrTooManyTags
	}
	s.tags = append(s.tags, tag)
	return true, nil
}

func (s *TagSet) Remove(raw string) bool {
	tag := NormalizeTag(raw)
	for i, t := range s.tags {
		if t == tag {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return true
		}
	}
	return false
}

func (s *TagSet) Contains(raw string) bool {
	tag := NormalizeTag(raw)
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (s *TagSet) Len() int {
	return len(s.tags)
}

// Tags returns a copy in insertion order.
func (s *TagSet) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}
