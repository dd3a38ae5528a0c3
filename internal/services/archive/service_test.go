package archive

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmckit/pmboard/internal/domain"
	"github.com/pmckit/pmboard/internal/store"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *store.Store) {
	t.Helper()
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(st, logger, opts...), st
}

// buildTree inserts a project with one category, two sub-categories and a
// task in each.
func buildTree(t *testing.T, st *store.Store) (*domain.Project, *domain.Category, []*domain.SubCategory, []*domain.Task) {
	t.Helper()
	db := st.DB()

	project := &domain.Project{Name: "Plant", Status: domain.ProjectActive}
	require.NoError(t, store.CreateProject(db, project))

	category := &domain.Category{ProjectID: project.ID, Name: "Line A", Status: domain.GroupActive}
	require.NoError(t, store.CreateCategory(db, category))

	var subs []*domain.SubCategory
	var tasks []*domain.Task
	for _, name := range []string{"Inbound", "Outbound"} {
		sub := &domain.SubCategory{CategoryID: category.ID, ProjectID: project.ID, Name: name, Status: domain.GroupActive}
		require.NoError(t, store.CreateSubCategory(db, sub))
		subs = append(subs, sub)

		task := &domain.Task{
			SubCategoryID: sub.ID,
			CategoryID:    category.ID,
			ProjectID:     project.ID,
			Title:         name + " task",
			Status:        domain.TaskTodo,
			Priority:      domain.PriorityMedium,
		}
		require.NoError(t, store.CreateTask(db, task))
		tasks = append(tasks, task)
	}
	return project, category, subs, tasks
}

func TestArchiveCategory_CascadesWithSharedBatch(t *testing.T) {
	svc, st := newTestService(t)
	_, category, subs, tasks := buildTree(t, st)

	require.NoError(t, svc.ArchiveCategory(category.ID))

	gotCat, err := store.GetCategory(st.DB(), category.ID)
	require.NoError(t, err)
	require.NotNil(t, gotCat.ArchivedAt)
	require.NotEmpty(t, gotCat.ArchiveBatch)

	for _, sub := range subs {
		got, err := store.GetSubCategory(st.DB(), sub.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ArchivedAt)
		assert.Equal(t, gotCat.ArchiveBatch, got.ArchiveBatch)
		assert.True(t, got.ArchivedAt.Equal(*gotCat.ArchivedAt), "cascade shares one timestamp")
	}
	for _, task := range tasks {
		got, err := store.GetTask(st.DB(), task.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ArchivedAt)
		assert.Equal(t, gotCat.ArchiveBatch, got.ArchiveBatch)
	}
}

func TestArchiveCategory_SkipsAlreadyArchived(t *testing.T) {
	svc, st := newTestService(t)
	_, category, _, tasks := buildTree(t, st)

	require.NoError(t, svc.ArchiveTask(tasks[0].ID))
	earlier, err := store.GetTask(st.DB(), tasks[0].ID)
	require.NoError(t, err)

	require.NoError(t, svc.ArchiveCategory(category.ID))

	got, err := store.GetTask(st.DB(), tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, earlier.ArchiveBatch, got.ArchiveBatch,
		"a task archived beforehand keeps its own batch")
}

func TestRestoreCategory_RestoresSameCascadeOnly(t *testing.T) {
	svc, st := newTestService(t)
	_, category, subs, tasks := buildTree(t, st)

	// Task zero is archived on its own, before the cascade.
	require.NoError(t, svc.ArchiveTask(tasks[0].ID))
	require.NoError(t, svc.ArchiveCategory(category.ID))
	require.NoError(t, svc.RestoreCategory(category.ID))

	gotCat, err := store.GetCategory(st.DB(), category.ID)
	require.NoError(t, err)
	assert.Nil(t, gotCat.ArchivedAt)
	assert.Empty(t, gotCat.ArchiveBatch)
	assert.Equal(t, domain.GroupActive, gotCat.Status)

	for _, sub := range subs {
		got, err := store.GetSubCategory(st.DB(), sub.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ArchivedAt)
	}

	independent, err := store.GetTask(st.DB(), tasks[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, independent.ArchivedAt, "independently archived task stays archived")

	cascaded, err := store.GetTask(st.DB(), tasks[1].ID)
	require.NoError(t, err)
	assert.Nil(t, cascaded.ArchivedAt)
}

func TestRestoreSubCategory_TimestampFallback(t *testing.T) {
	// A wide tolerance plus stripped batch tokens simulates rows imported
	// from backups that predate tokens.
	svc, st := newTestService(t, WithRestoreTolerance(2*time.Second))
	_, _, subs, _ := buildTree(t, st)
	db := st.DB()

	require.NoError(t, svc.ArchiveSubCategory(subs[0].ID))

	require.NoError(t, db.Model(&domain.SubCategory{}).Where("id = ?", subs[0].ID).
		Update("archive_batch", "").Error)
	require.NoError(t, db.Model(&domain.Task{}).Where("sub_category_id = ?", subs[0].ID).
		Update("archive_batch", "").Error)

	require.NoError(t, svc.RestoreSubCategory(subs[0].ID))

	tasks, err := store.TasksBySubCategory(db, subs[0].ID, false)
	require.NoError(t, err)
	assert.Len(t, tasks, 1, "timestamp proximity restores token-less descendants")
}

func TestRestoreSubCategory_OutsideTolerance(t *testing.T) {
	svc, st := newTestService(t)
	_, _, subs, tasks := buildTree(t, st)
	db := st.DB()

	require.NoError(t, svc.ArchiveSubCategory(subs[0].ID))

	// Strip the tokens and push the task's archival an hour away.
	farAway := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&domain.SubCategory{}).Where("id = ?", subs[0].ID).
		Update("archive_batch", "").Error)
	require.NoError(t, db.Model(&domain.Task{}).Where("id = ?", tasks[0].ID).
		Updates(map[string]any{"archive_batch": "", "archived_at": farAway}).Error)

	require.NoError(t, svc.RestoreSubCategory(subs[0].ID))

	got, err := store.GetTask(db, tasks[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ArchivedAt, "a distant timestamp is not the same cascade")
}

func TestRestoreProject_RowOnly(t *testing.T) {
	svc, st := newTestService(t)
	project, _, _, tasks := buildTree(t, st)

	require.NoError(t, svc.ArchiveTask(tasks[0].ID))
	require.NoError(t, svc.ArchiveProject(project.ID))
	require.NoError(t, svc.RestoreProject(project.ID))

	got, err := store.GetProject(st.DB(), project.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ArchivedAt)

	stillArchived, err := store.GetTask(st.DB(), tasks[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, stillArchived.ArchivedAt)
}

func TestListArchived_ParentState(t *testing.T) {
	svc, st := newTestService(t)
	_, category, _, _ := buildTree(t, st)

	require.NoError(t, svc.ArchiveCategory(category.ID))

	items, err := svc.ListArchived()
	require.NoError(t, err)
	// One category, two sub-categories, two tasks.
	require.Len(t, items, 5)

	for _, item := range items {
		assert.Equal(t, "Plant", item.ProjectName)
		switch item.Kind {
		case domain.KindCategory:
			assert.Nil(t, item.ParentArchivedAt, "project is still active")
		case domain.KindSubCategory, domain.KindTask:
			assert.NotNil(t, item.ParentArchivedAt)
		}
	}
}

func TestListArchived_NewestFirst(t *testing.T) {
	svc, st := newTestService(t)
	_, _, _, tasks := buildTree(t, st)
	db := st.DB()

	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	require.NoError(t, db.Model(&domain.Task{}).Where("id = ?", tasks[0].ID).
		Update("archived_at", older).Error)
	require.NoError(t, db.Model(&domain.Task{}).Where("id = ?", tasks[1].ID).
		Update("archived_at", newer).Error)

	items, err := svc.ListArchived()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, tasks[1].ID, items[0].ID)
	assert.Equal(t, tasks[0].ID, items[1].ID)
}

func TestDeleteSubCategory_RemovesHistory(t *testing.T) {
	svc, st := newTestService(t)
	_, _, subs, tasks := buildTree(t, st)
	db := st.DB()

	require.NoError(t, store.AppendHistory(db, []domain.TaskHistory{
		{TaskID: tasks[0].ID, Field: "status", OldValue: `"TODO"`, NewValue: `"DONE"`, ChangedAt: time.Now()},
	}))

	require.NoError(t, svc.DeleteSubCategory(subs[0].ID))

	_, err := store.GetSubCategory(db, subs[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetTask(db, tasks[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	counts, err := store.CountAll(db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.TaskHistory)

	// The sibling sub-category is untouched.
	_, err = store.GetSubCategory(db, subs[1].ID)
	assert.NoError(t, err)
}

func TestDeleteProject_RemovesEverything(t *testing.T) {
	svc, st := newTestService(t)
	project, _, _, tasks := buildTree(t, st)
	db := st.DB()

	require.NoError(t, store.AppendHistory(db, []domain.TaskHistory{
		{TaskID: tasks[0].ID, Field: "title", OldValue: `"a"`, NewValue: `"b"`, ChangedAt: time.Now()},
	}))

	require.NoError(t, svc.DeleteProject(project.ID))

	counts, err := store.CountAll(db)
	require.NoError(t, err)
	assert.Equal(t, store.Counts{}, counts)
}

func TestDeleteProject_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.DeleteProject(12345), domain.ErrNotFound)
}

func TestBulkPermanentlyDelete_ContinuesPastFailures(t *testing.T) {
	svc, st := newTestService(t)
	_, _, _, tasks := buildTree(t, st)

	items := []domain.ArchiveItem{
		{ID: 9999, Kind: domain.KindSubCategory, Name: "ghost"},
		{ID: tasks[0].ID, Kind: domain.KindTask, Name: tasks[0].Title},
	}

	failed := svc.BulkPermanentlyDelete(items)
	require.Len(t, failed, 1)
	assert.Equal(t, uint(9999), failed[0].Item.ID)
	assert.ErrorIs(t, failed[0].Err, domain.ErrNotFound)

	_, err := store.GetTask(st.DB(), tasks[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "items after the failure are still deleted")
}
