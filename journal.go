package jigsaw

// journal is the Resolver's explicit backtracking log: it records every
// mutation to the chosen map as it happens and replays the records in
// reverse to roll a candidate attempt back, so a failed branch never
// leaves partial state behind for the next candidate to trip over.
type journal struct {
	recs []undoRecord
}

type undoRecord struct {
	name ModuleName
	had  bool
	prev Candidate
}

func newJournal() *journal {
	return &journal{}
}

// mark returns a position to later rollbackTo.
func (j *journal) mark() int {
	return len(j.recs)
}

// set records name's current binding state in chosen (captured here,
// before the change) and then applies the change to chosen.
func (j *journal) set(chosen map[ModuleName]Candidate, name ModuleName, c Candidate) {
	prev, had := chosen[name]
	j.recs = append(j.recs, undoRecord{name: name, had: had, prev: prev})
	chosen[name] = c
}

// rollbackTo undoes every set call made since mark, restoring chosen to its
// prior state and truncating the journal.
func (j *journal) rollbackTo(mark int, chosen map[ModuleName]Candidate) {
	for i := len(j.recs) - 1; i >= mark; i-- {
		r := j.recs[i]
		if r.had {
			chosen[r.name] = r.prev
		} else {
			delete(chosen, r.name)
		}
	}
	j.recs = j.recs[:mark]
}
