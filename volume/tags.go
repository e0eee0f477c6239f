package volume

import (
	"encoding/json"
	"strings"
)

// Tag is a single boundary that a point crossed.
type Tag uint8

const (
	XMin Tag = 1 << iota
	XMax
	YMin
	YMax
	Radius
	Outline
	ZMax
)

// AllTags lists every tag in report order.
var AllTags = []Tag{XMin, XMax, YMin, YMax, Radius, Outline, ZMax}

func (t Tag) String() string {
	switch t {
	case XMin:
		return "X < Min"
	case XMax:
		return "X > Max"
	case YMin:
		return "Y < Min"
	case YMax:
		return "Y > Max"
	case Radius:
		return "Radius > Max"
	case Outline:
		return "Outside Outline"
	case ZMax:
		return "Z > Max"
	}
	return "Unknown"
}

func (t Tag) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Tags is a set of Tag values.
type Tags uint8

func (s Tags) With(t Tag) Tags { return s | Tags(t) }
func (s Tags) Has(t Tag) bool  { return s&Tags(t) != 0 }
func (s Tags) Empty() bool     { return s == 0 }

func TagsOf(t ...Tag) Tags {
	var s Tags
	for _, tag := range t {
		s = s.With(tag)
	}
	return s
}

// List returns the tags in the set, in report order.
func (s Tags) List() []Tag {
	var res []Tag
	for _, t := range AllTags {
		if s.Has(t) {
			res = append(res, t)
		}
	}
	return res
}

func (s Tags) String() string {
	names := make([]string, 0, len(AllTags))
	for _, t := range s.List() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}

func (s Tags) MarshalJSON() ([]byte, error) {
	l := s.List()
	if l == nil {
		l = []Tag{}
	}
	return json.Marshal(l)
}
