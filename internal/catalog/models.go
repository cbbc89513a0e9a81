package catalog

import "time"

// Entry is one cataloged record.
type Entry struct {
	Path          string
	ID            string
	Title         string
	Artists       []string
	Published     string
	WebTags       []string
	UserTags      []string
	Rating        int
	Views         int
	MediaFile     string
	MediaDigest   string
	SequenceTitle string
	SyncID        string
}

// SyncResult summarizes one Sync run.
type SyncResult struct {
	ID       string
	Records  int
	Digested int
	Started  time.Time
	Finished time.Time
}

// Stats summarizes the catalog contents.
type Stats struct {
	Records      int
	Artists      int
	DuplicateIDs int
	Sequenced    int
	LastSyncID   string
	LastSyncAt   time.Time
}

// DuplicateGroup lists the record paths sharing one key, such as an
// identity or media digest.
type DuplicateGroup struct {
	Key   string
	Paths []string
}
