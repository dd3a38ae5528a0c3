package domain

import "time"

// ArchiveKind identifies the entity type of an archived item in the
// flattened archive listing.
type ArchiveKind string

const (
	KindProject     ArchiveKind = "PROJECT"
	KindCategory    ArchiveKind = "EPIC"
	KindSubCategory ArchiveKind = "TASK"
	KindTask        ArchiveKind = "ACTION"
)

// String returns the display string.
func (k ArchiveKind) String() string {
	return string(k)
}

// ArchiveItem is one row of the archive listing. ParentArchivedAt exposes
// whether the direct parent is itself archived so the caller can decide
// between restoring a single item and restoring the whole chain; the
// archival service restores exactly what it is asked to.
type ArchiveItem struct {
	ID               uint
	Kind             ArchiveKind
	Name             string
	ProjectID        uint
	ProjectName      string
	ArchivedAt       time.Time
	ArchiveBatch     string
	ParentArchivedAt *time.Time
}
