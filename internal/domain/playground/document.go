package playground

// DocumentID identifies the editing surface a snapshot or diagnostic set belongs to.
type DocumentID string

// Revision increases by one for every content edit of a document.
type Revision uint64

// Snapshot is the editor content at one revision.
type Snapshot struct {
	Document DocumentID
	Revision Revision
	Text     string
}

// Supersedes reports whether s is a newer edit of the same document than other.
func (s Snapshot) Supersedes(other Snapshot) bool {
	if s.Document != other.Document {
		return true
	}
	return s.Revision > other.Revision
}
