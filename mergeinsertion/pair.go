package mergeinsertion

// noPartner marks the straggler's pend entry, which has no main-chain partner.
const noPartner = -1

// pairIDs is a pair of arena ids ordered min, max under the comparator.
type pairIDs struct {
	min, max int
}

// pendEntry is a pend-chain element together with the id of the main-chain
// element it was paired with.
type pendEntry struct {
	id      int
	partner int
}

// pairUp compares ids[i] with ids[i+1] for i = 0, 2, 4, ... and returns the
// ordered pairs plus the straggler id (noPartner when len(ids) is even).
func (r *run[T]) pairUp(ids []int, depth int) ([]pairIDs, int, error) {
	pairs := make([]pairIDs, 0, len(ids)/2)
	for i := 0; i+1 < len(ids); i += 2 {
		a, b := ids[i], ids[i+1]
		c, err := r.compare(a, b)
		if err != nil {
			return nil, noPartner, err
		}
		p := pairIDs{min: a, max: b}
		if c > 0 {
			p = pairIDs{min: b, max: a}
		}
		pairs = append(pairs, p)
		if r.obs != nil {
			r.emit(Event[T]{
				Kind:      EventPairFormed,
				Depth:     depth,
				Pair:      Pair[T]{Min: r.values[p.min], Max: r.values[p.max]},
				PairIndex: len(pairs) - 1,
			})
		}
	}
	straggler := noPartner
	if len(ids)%2 == 1 {
		straggler = ids[len(ids)-1]
	}
	return pairs, straggler, nil
}

// separate builds the main chain (pair maxima) and the pend chain (pair
// minima, then the straggler) in pairing order.
func separate(pairs []pairIDs, straggler int) ([]int, []pendEntry) {
	main := make([]int, len(pairs))
	pend := make([]pendEntry, len(pairs), len(pairs)+1)
	for i, p := range pairs {
		main[i] = p.max
		pend[i] = pendEntry{id: p.min, partner: p.max}
	}
	if straggler != noPartner {
		pend = append(pend, pendEntry{id: straggler, partner: noPartner})
	}
	return main, pend
}

// reindexPend orders the pend chain so that entry i belongs to sortedMain[i],
// keeping the straggler last.
func reindexPend(sortedMain []int, pend []pendEntry) []pendEntry {
	byPartner := make(map[int]int, len(pend))
	straggler := pendEntry{id: noPartner, partner: noPartner}
	for _, e := range pend {
		if e.partner == noPartner {
			straggler = e
			continue
		}
		byPartner[e.partner] = e.id
	}
	out := make([]pendEntry, 0, len(pend))
	for _, m := range sortedMain {
		out = append(out, pendEntry{id: byPartner[m], partner: m})
	}
	if straggler.id != noPartner {
		out = append(out, straggler)
	}
	return out
}
