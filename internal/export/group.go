package export

import (
	"slices"
	"strings"
)

// Group is an ordered set of records rendering into one file.
type Group struct {
	Key     Key
	Records []Record
}

// Index buckets target records by group key.
type Index struct {
	groups map[Key]*Group
}

func NewIndex() *Index {
	return &Index{groups: make(map[Key]*Group)}
}

// Add appends a record to the group identified by key.
func (ix *Index) Add(key Key, rec Record) {
	g, ok := ix.groups[key]
	if !ok {
		g = &Group{Key: key}
		ix.groups[key] = g
	}
	g.Records = append(g.Records, rec)
}

// Groups returns all groups sorted by folder then bucket, each group's
// records ordered by device name, then port, then target string. The
// ordering makes consecutive exports of the same snapshot diffable.
func (ix *Index) Groups() []*Group {
	out := make([]*Group, 0, len(ix.groups))
	for _, g := range ix.groups {
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b *Group) int {
		if c := strings.Compare(a.Key.Folder, b.Key.Folder); c != 0 {
			return c
		}
		return strings.Compare(a.Key.Bucket, b.Key.Bucket)
	})
	for _, g := range out {
		slices.SortStableFunc(g.Records, func(a, b Record) int {
			if c := strings.Compare(a.DeviceName, b.DeviceName); c != 0 {
				return c
			}
			if a.Port != b.Port {
				return a.Port - b.Port
			}
			return strings.Compare(a.Target, b.Target)
		})
	}
	return out
}
