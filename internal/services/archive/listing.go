package archive

import (
	"sort"
	"time"

	"github.com/pmckit/pmboard/internal/domain"
	"github.com/pmckit/pmboard/internal/store"
)

// ListArchived returns every archived entity as a flat listing, newest
// first. Each item carries the archival state of its direct parent so the
// caller can warn before restoring a child under a still-archived parent.
func (s *Service) ListArchived() ([]domain.ArchiveItem, error) {
	db := s.store.DB()

	allProjects, err := store.ListProjects(db, true)
	if err != nil {
		return nil, err
	}
	projectName := make(map[uint]string, len(allProjects))
	projectArchivedAt := make(map[uint]*time.Time, len(allProjects))
	for i := range allProjects {
		p := &allProjects[i]
		projectName[p.ID] = p.Name
		projectArchivedAt[p.ID] = p.ArchivedAt
	}

	var categories []domain.Category
	if err := db.Find(&categories).Error; err != nil {
		return nil, err
	}
	categoryArchivedAt := make(map[uint]*time.Time, len(categories))
	for i := range categories {
		categoryArchivedAt[categories[i].ID] = categories[i].ArchivedAt
	}

	var subs []domain.SubCategory
	if err := db.Find(&subs).Error; err != nil {
		return nil, err
	}
	subArchivedAt := make(map[uint]*time.Time, len(subs))
	for i := range subs {
		subArchivedAt[subs[i].ID] = subs[i].ArchivedAt
	}

	var items []domain.ArchiveItem

	for i := range allProjects {
		p := &allProjects[i]
		if p.ArchivedAt == nil {
			continue
		}
		items = append(items, domain.ArchiveItem{
			ID:           p.ID,
			Kind:         domain.KindProject,
			Name:         p.Name,
			ProjectID:    p.ID,
			ProjectName:  p.Name,
			ArchivedAt:   *p.ArchivedAt,
			ArchiveBatch: p.ArchiveBatch,
		})
	}

	for i := range categories {
		c := &categories[i]
		if c.ArchivedAt == nil {
			continue
		}
		items = append(items, domain.ArchiveItem{
			ID:               c.ID,
			Kind:             domain.KindCategory,
			Name:             c.Name,
			ProjectID:        c.ProjectID,
			ProjectName:      projectName[c.ProjectID],
			ArchivedAt:       *c.ArchivedAt,
			ArchiveBatch:     c.ArchiveBatch,
			ParentArchivedAt: projectArchivedAt[c.ProjectID],
		})
	}

	for i := range subs {
		sc := &subs[i]
		if sc.ArchivedAt == nil {
			continue
		}
		items = append(items, domain.ArchiveItem{
			ID:               sc.ID,
			Kind:             domain.KindSubCategory,
			Name:             sc.Name,
			ProjectID:        sc.ProjectID,
			ProjectName:      projectName[sc.ProjectID],
			ArchivedAt:       *sc.ArchivedAt,
			ArchiveBatch:     sc.ArchiveBatch,
			ParentArchivedAt: categoryArchivedAt[sc.CategoryID],
		})
	}

	var tasks []domain.Task
	if err := db.Where("archived_at IS NOT NULL").Find(&tasks).Error; err != nil {
		return nil, err
	}
	for i := range tasks {
		t := &tasks[i]
		items = append(items, domain.ArchiveItem{
			ID:               t.ID,
			Kind:             domain.KindTask,
			Name:             t.Title,
			ProjectID:        t.ProjectID,
			ProjectName:      projectName[t.ProjectID],
			ArchivedAt:       *t.ArchivedAt,
			ArchiveBatch:     t.ArchiveBatch,
			ParentArchivedAt: subArchivedAt[t.SubCategoryID],
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ArchivedAt.After(items[j].ArchivedAt)
	})
	return items, nil
}
