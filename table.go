package fsm

// transitionEntry references the metadata of both endpoints of a declared
// transition. Entries alias the registry records by pointer, so every entry
// touching a state observes the same metadata.
type transitionEntry struct {
	begin *stateMetadata
	end   *stateMetadata
}

// transitionTable is the two-level lookup: from-state to to-state to entry.
// Absence of an entry means the transition is illegal. Built once, read-only
// afterward.
type transitionTable map[string]map[string]transitionEntry

// buildTransitionTable compiles the declared pairs against the registry.
// Duplicate pairs are idempotent: the first entry stands.
func buildTransitionTable(
	transitions []Transition, registry map[string]*stateMetadata,
) transitionTable {
	table := make(transitionTable)

	for _, tr := range transitions {
		row, ok := table[tr.From]
		if !ok {
			row = make(map[string]transitionEntry)
			table[tr.From] = row
		}

		if _, ok := row[tr.To]; !ok {
			row[tr.To] = transitionEntry{
				begin: registry[tr.From],
				end:   registry[tr.To],
			}
		}
	}

	return table
}
