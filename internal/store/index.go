package store

// lineRange is the [start, end) byte range of one journal line, end
// including the trailing newline.
type lineRange struct {
	start int64
	end   int64
}

// fileIndex keeps, per unit, the byte ranges of its journal lines and a
// running summary. It is updated by onAppend for every line written or
// scanned, and lets UnitLog read a unit's events with file.ReadAt.
type fileIndex struct {
	order  []string // unit ids in creation order
	units  map[string]*UnitSummary
	ranges map[string][]lineRange
	events int
}

func newFileIndex() *fileIndex {
	return &fileIndex{
		units:  make(map[string]*UnitSummary),
		ranges: make(map[string][]lineRange),
	}
}

// onAppend records event e found at [lineOffset, lineOffset+lineLen).
func (idx *fileIndex) onAppend(e Event, lineOffset, lineLen int64) {
	idx.events++
	s, ok := idx.units[e.UnitID]
	if !ok {
		s = &UnitSummary{ID: e.UnitID, CreatedAt: e.Timestamp}
		idx.units[e.UnitID] = s
		idx.order = append(idx.order, e.UnitID)
	}
	s.Events++
	s.UpdatedAt = e.Timestamp
	switch e.Kind {
	case EventCreate:
		s.Name = e.Name
		s.Closed = false
	case EventRename:
		s.Name = e.Name
	case EventClose:
		s.Closed = true
	}
	idx.ranges[e.UnitID] = append(idx.ranges[e.UnitID], lineRange{start: lineOffset, end: lineOffset + lineLen})
}

func (idx *fileIndex) summaries() []UnitSummary {
	out := make([]UnitSummary, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, *idx.units[id])
	}
	return out
}
