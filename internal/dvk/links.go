package dvk

import "slices"

// PreviousIDs returns the identities of the preceding sequence members. nil
// means the record is not linked backwards; an empty list marks the first
// member of a sequence.
func (r *Record) PreviousIDs() []Identity { return copyIdentities(r.previousIDs) }

// SetPreviousIDs replaces the backward links. A nil slice removes them.
func (r *Record) SetPreviousIDs(ids []string) { r.previousIDs = normalizeLinks(ids) }

// NextIDs returns the identities of the following sequence members, with the
// same nil and empty conventions as PreviousIDs.
func (r *Record) NextIDs() []Identity { return copyIdentities(r.nextIDs) }

// SetNextIDs replaces the forward links. A nil slice removes them.
func (r *Record) SetNextIDs(ids []string) { r.nextIDs = normalizeLinks(ids) }

// SetFirst marks the record as the first member of its sequence.
func (r *Record) SetFirst() { r.previousIDs = []Identity{} }

// SetLast marks the record as the last member of its sequence.
func (r *Record) SetLast() { r.nextIDs = []Identity{} }

// IsFirst reports whether the record starts a sequence.
func (r *Record) IsFirst() bool { return r.previousIDs != nil && len(r.previousIDs) == 0 }

// IsLast reports whether the record ends a sequence.
func (r *Record) IsLast() bool { return r.nextIDs != nil && len(r.nextIDs) == 0 }

// InSequence reports whether both link directions are set and the record is
// not a sequence of one. Section and sequence values are only readable when
// this holds.
func (r *Record) InSequence() bool {
	if r.previousIDs == nil || r.nextIDs == nil {
		return false
	}
	return len(r.previousIDs) > 0 || len(r.nextIDs) > 0
}

// ClearSequence removes every link and sequence value.
func (r *Record) ClearSequence() {
	r.previousIDs = nil
	r.nextIDs = nil
	r.sectionFirst = false
	r.sectionLast = false
	r.sequenceTitle = ""
	r.sectionTitle = ""
	r.branchTitles = nil
	r.sequenceNumber = 0
	r.sequenceTotal = 0
}

// SectionFirst reports whether the record starts a section.
func (r *Record) SectionFirst() bool { return r.InSequence() && r.sectionFirst }

// SetSectionFirst sets the section start flag.
func (r *Record) SetSectionFirst(first bool) { r.sectionFirst = first }

// SectionLast reports whether the record ends a section.
func (r *Record) SectionLast() bool { return r.InSequence() && r.sectionLast }

// SetSectionLast sets the section end flag.
func (r *Record) SetSectionLast(last bool) { r.sectionLast = last }

// SequenceTitle returns the title shared by the whole sequence.
func (r *Record) SequenceTitle() string {
	if !r.InSequence() {
		return ""
	}
	return r.sequenceTitle
}

// SetSequenceTitle sets the sequence title.
func (r *Record) SetSequenceTitle(title string) { r.sequenceTitle = title }

// SectionTitle returns the title of the section the record belongs to.
func (r *Record) SectionTitle() string {
	if !r.InSequence() {
		return ""
	}
	return r.sectionTitle
}

// SetSectionTitle sets the section title.
func (r *Record) SetSectionTitle(title string) { r.sectionTitle = title }

// BranchTitles returns one title per forward link when the sequence branches.
// It returns nil unless the title count matches the link count.
func (r *Record) BranchTitles() []string {
	if r.nextIDs == nil || len(r.nextIDs) == 0 || len(r.branchTitles) != len(r.nextIDs) {
		return nil
	}
	return slices.Clone(r.branchTitles)
}

// SetBranchTitles sets the branch titles.
func (r *Record) SetBranchTitles(titles []string) {
	if len(titles) == 0 {
		r.branchTitles = nil
		return
	}
	r.branchTitles = slices.Clone(titles)
}

// SequenceNumber returns the 1-based position within the sequence, or 0.
func (r *Record) SequenceNumber() int { return r.sequenceNumber }

// SequenceTotal returns the sequence length, or 0.
func (r *Record) SequenceTotal() int { return r.sequenceTotal }

// SetSequencePosition sets the position and total. Negative values store 0.
func (r *Record) SetSequencePosition(number, total int) {
	r.sequenceNumber = max(number, 0)
	r.sequenceTotal = max(total, 0)
}
