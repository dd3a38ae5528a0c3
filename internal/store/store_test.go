package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// seedTree inserts one project with a category, a sub-category and a task
// and returns them.
func seedTree(t *testing.T, st *Store) (*domain.Project, *domain.Category, *domain.SubCategory, *domain.Task) {
	t.Helper()
	db := st.DB()

	project := &domain.Project{Name: "Driver", Status: domain.ProjectActive}
	require.NoError(t, CreateProject(db, project))

	category := &domain.Category{ProjectID: project.ID, Name: "Transport", Status: domain.GroupActive}
	require.NoError(t, CreateCategory(db, category))

	sub := &domain.SubCategory{CategoryID: category.ID, ProjectID: project.ID, Name: "Framing", Status: domain.GroupActive}
	require.NoError(t, CreateSubCategory(db, sub))

	task := &domain.Task{
		SubCategoryID: sub.ID,
		CategoryID:    category.ID,
		ProjectID:     project.ID,
		Title:         "Parse header",
		Status:        domain.TaskTodo,
		Priority:      domain.PriorityMedium,
	}
	require.NoError(t, CreateTask(db, task))

	return project, category, sub, task
}

func TestStore_GetProject_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := GetProject(st.DB(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "project", storeErr.Entity)
	assert.Equal(t, uint(999), storeErr.ID)
}

func TestStore_CreateAndGet(t *testing.T) {
	st := newTestStore(t)
	project, category, sub, task := seedTree(t, st)
	db := st.DB()

	gotProject, err := GetProject(db, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Driver", gotProject.Name)

	gotCategory, err := GetCategory(db, category.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, gotCategory.ProjectID)

	gotSub, err := GetSubCategory(db, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, gotSub.CategoryID)
	assert.Equal(t, project.ID, gotSub.ProjectID)

	gotTask, err := GetTask(db, task.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, gotTask.SubCategoryID)
	assert.Equal(t, category.ID, gotTask.CategoryID)
	assert.Equal(t, project.ID, gotTask.ProjectID)
}

func TestStore_ListProjects_ExcludesArchived(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	now := time.Now()
	require.NoError(t, CreateProject(db, &domain.Project{Name: "Active"}))
	require.NoError(t, CreateProject(db, &domain.Project{Name: "Archived", ArchivedAt: &now}))

	active, err := ListProjects(db, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Active", active[0].Name)

	all, err := ListProjects(db, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_CategoriesByProject_SiblingOrder(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	project := &domain.Project{Name: "P"}
	require.NoError(t, CreateProject(db, project))

	for i, name := range []string{"first", "second", "third"} {
		require.NoError(t, CreateCategory(db, &domain.Category{
			ProjectID: project.ID, Name: name, Order: i,
		}))
	}

	categories, err := CategoriesByProject(db, project.ID, false)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "first", categories[0].Name)
	assert.Equal(t, "third", categories[2].Name)
}

func TestStore_NextCategoryOrder(t *testing.T) {
	st := newTestStore(t)
	db := st.DB()

	project := &domain.Project{Name: "P"}
	require.NoError(t, CreateProject(db, project))

	next, err := NextCategoryOrder(db, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, next, "empty project starts at zero")

	require.NoError(t, CreateCategory(db, &domain.Category{ProjectID: project.ID, Name: "a", Order: 4}))

	next, err = NextCategoryOrder(db, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, next)
}

func TestStore_TasksBySubCategory_ArchiveFilter(t *testing.T) {
	st := newTestStore(t)
	_, category, sub, task := seedTree(t, st)
	db := st.DB()

	now := time.Now()
	archived := &domain.Task{
		SubCategoryID: sub.ID,
		CategoryID:    category.ID,
		ProjectID:     task.ProjectID,
		Title:         "old",
		ArchivedAt:    &now,
	}
	require.NoError(t, CreateTask(db, archived))

	visible, err := TasksBySubCategory(db, sub.ID, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, task.ID, visible[0].ID)

	all, err := TasksBySubCategory(db, sub.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_History_AppendAndList(t *testing.T) {
	st := newTestStore(t)
	_, _, _, task := seedTree(t, st)
	db := st.DB()

	base := time.Now().Add(-time.Hour)
	require.NoError(t, AppendHistory(db, []domain.TaskHistory{
		{TaskID: task.ID, Field: "status", OldValue: `"TODO"`, NewValue: `"DONE"`, ChangedAt: base},
		{TaskID: task.ID, Field: "title", OldValue: `"a"`, NewValue: `"b"`, ChangedAt: base.Add(time.Minute)},
	}))

	records, err := HistoryByTask(db, task.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "title", records[0].Field, "newest change first")
	assert.Equal(t, "status", records[1].Field)
}

func TestStore_AppendHistory_EmptyIsNoop(t *testing.T) {
	st := newTestStore(t)
	assert.NoError(t, AppendHistory(st.DB(), nil))
}

func TestStore_Tx_WrapsErrors(t *testing.T) {
	st := newTestStore(t)

	err := st.Tx("test op", func(tx *gorm.DB) error {
		return assert.AnError
	})
	require.Error(t, err)

	var txErr *domain.TxError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, "test op", txErr.Op)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStore_Tx_PassesThroughNotFound(t *testing.T) {
	st := newTestStore(t)

	err := st.Tx("lookup", func(tx *gorm.DB) error {
		_, err := GetProject(tx, 42)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var txErr *domain.TxError
	assert.False(t, errors.As(err, &txErr), "domain errors should not be wrapped")
}

func TestStore_CountAll(t *testing.T) {
	st := newTestStore(t)
	seedTree(t, st)

	counts, err := CountAll(st.DB())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Projects)
	assert.Equal(t, int64(1), counts.Categories)
	assert.Equal(t, int64(1), counts.SubCategories)
	assert.Equal(t, int64(1), counts.Tasks)
	assert.Equal(t, int64(0), counts.TaskHistory)
}

func TestStore_Seed_Idempotent(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Seed())
	first, err := CountAll(st.DB())
	require.NoError(t, err)
	assert.Greater(t, first.Projects, int64(0))

	require.NoError(t, st.Seed())
	second, err := CountAll(st.DB())
	require.NoError(t, err)
	assert.Equal(t, first, second, "seeding twice should not duplicate data")
}
