package index

// PostingList holds, for one n-gram, the ids of the terms containing it and how
// often it occurs in each of them. TermIDs and Frequencies are parallel and ordered
// by ascending term id because terms are indexed in order.
type PostingList struct {
	TermIDs     []int32
	Frequencies []int32
}

// Add appends a posting.
func (p *PostingList) Add(termID, frequency int32) {
	p.TermIDs = append(p.TermIDs, termID)
	p.Frequencies = append(p.Frequencies, frequency)
}

// seal copies both arrays into exactly sized backing arrays.
func (p *PostingList) seal() {
	ids := make([]int32, len(p.TermIDs))
	copy(ids, p.TermIDs)
	frequencies := make([]int32, len(p.Frequencies))
	copy(frequencies, p.Frequencies)
	p.TermIDs = ids
	p.Frequencies = frequencies
}
