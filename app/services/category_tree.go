package services

import "github.com/sharikirostov/balloon-store/app/models"

// CategoryNode is a category with its nested children, built in memory for
// tree responses. It is never persisted.
type CategoryNode struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	ParentID     *string         `json:"parentId"`
	ProductCount int64           `json:"productCount"`
	Children     []*CategoryNode `json:"children"`
}

// BuildCategoryTree nests flat category rows. Children keep input order; a
// row whose parent is absent from the input becomes a root.
func BuildCategoryTree(rows []models.CategoryWithCount) []*CategoryNode {
	nodes := make(map[string]*CategoryNode, len(rows))
	ordered := make([]*CategoryNode, 0, len(rows))
	for _, row := range rows {
		if _, dup := nodes[row.ID]; dup {
			continue
		}
		node := &CategoryNode{
			ID:           row.ID,
			Name:         row.Name,
			Slug:         row.Slug,
			Description:  row.Description,
			ParentID:     row.ParentID,
			ProductCount: row.ProductCount,
			Children:     []*CategoryNode{},
		}
		nodes[row.ID] = node
		ordered = append(ordered, node)
	}

	roots := []*CategoryNode{}
	for _, node := range ordered {
		if node.ParentID != nil && !inParentCycle(node, nodes) {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// inParentCycle reports whether following parent links from node leads back to it.
func inParentCycle(node *CategoryNode, nodes map[string]*CategoryNode) bool {
	seen := map[string]bool{}
	current := node
	for current.ParentID != nil {
		if *current.ParentID == node.ID {
			return true
		}
		if seen[current.ID] {
			return false
		}
		seen[current.ID] = true
		parent, ok := nodes[*current.ParentID]
		if !ok {
			return false
		}
		current = parent
	}
	return false
}
