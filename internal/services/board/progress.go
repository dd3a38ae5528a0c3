package board

import (
	"github.com/pmckit/pmboard/internal/domain"
	"github.com/pmckit/pmboard/internal/store"
)

// SubCategoryNode is a sub-category with its active tasks and done ratio.
type SubCategoryNode struct {
	domain.SubCategory
	Tasks    []domain.Task
	Progress int
}

// CategoryNode is a category with its active sub-categories and done ratio.
type CategoryNode struct {
	domain.Category
	SubCategories []SubCategoryNode
	Progress      int
}

// ProjectNode is the aggregated tree for one project.
type ProjectNode struct {
	domain.Project
	Categories []CategoryNode
	Progress   int
	TaskCount  int
	DoneCount  int
}

// ProjectOverview assembles the active (non-archived) tree of a project
// with done-task ratios rolled up per level.
func (s *Service) ProjectOverview(projectID uint) (*ProjectNode, error) {
	db := s.store.DB()

	project, err := store.GetProject(db, projectID)
	if err != nil {
		return nil, err
	}
	node := &ProjectNode{Project: *project}

	categories, err := store.CategoriesByProject(db, projectID, false)
	if err != nil {
		return nil, err
	}

	for _, cat := range categories {
		catNode := CategoryNode{Category: cat}
		catTotal, catDone := 0, 0

		subs, err := store.SubCategoriesByCategory(db, cat.ID, false)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			tasks, err := store.TasksBySubCategory(db, sub.ID, false)
			if err != nil {
				return nil, err
			}
			done := 0
			for _, t := range tasks {
				if t.Status == domain.TaskDone {
					done++
				}
			}
			catNode.SubCategories = append(catNode.SubCategories, SubCategoryNode{
				SubCategory: sub,
				Tasks:       tasks,
				Progress:    percent(done, len(tasks)),
			})
			catTotal += len(tasks)
			catDone += done
		}

		catNode.Progress = percent(catDone, catTotal)
		node.Categories = append(node.Categories, catNode)
		node.TaskCount += catTotal
		node.DoneCount += catDone
	}

	node.Progress = percent(node.DoneCount, node.TaskCount)
	return node, nil
}

func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return done * 100 / total
}
