package toolpath

import (
	"sort"

	"github.com/mastercactapus/gcbounds/vm"
	"github.com/mastercactapus/gcbounds/volume"
)

// Report is the result of an analysis.
type Report struct {
	Volume     string      `json:"volume"`
	Violations []Violation `json:"violations"`
	Stats      Stats       `json:"stats"`
}

type TagCount struct {
	Tag   volume.Tag `json:"tag"`
	Count int        `json:"count"`
}

type Stats struct {
	Lines      int `json:"lines"`
	Moves      int `json:"moves"`
	Travel     int `json:"travel"`
	Depositing int `json:"depositing"`

	// ByTag counts violations per tag, most frequent first.
	ByTag []TagCount `json:"by_tag"`
}

// Other is the number of moves that are neither travel nor depositing.
func (s Stats) Other() int { return s.Moves - s.Travel - s.Depositing }

type statsCounter struct {
	Stats

	tags  map[volume.Tag]int
	order []volume.Tag
}

func newStatsCounter() statsCounter {
	return statsCounter{tags: make(map[volume.Tag]int)}
}

func (s *statsCounter) move(k vm.MoveKind) {
	s.Moves++
	switch k {
	case vm.Travel:
		s.Travel++
	case vm.Depositing:
		s.Depositing++
	}
}

func (s *statsCounter) violation(t volume.Tags) {
	for _, tag := range t.List() {
		if s.tags[tag] == 0 {
			s.order = append(s.order, tag)
		}
		s.tags[tag]++
	}
}

// byTag sorts by count; ties keep the order the tags were first seen in.
func (s *statsCounter) byTag() []TagCount {
	res := make([]TagCount, len(s.order))
	for i, t := range s.order {
		res[i] = TagCount{Tag: t, Count: s.tags[t]}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Count > res[j].Count })
	return res
}
