package catalog

import (
	"strings"

	"github.com/salonworks/pos-terminal/pkg/backend"
	"github.com/salonworks/pos-terminal/pkg/enums"
)

// Query narrows a browse. An empty search term matches everything.
type Query struct {
	Search string
	Type   enums.TypeFilter
}

// Filter produces the currently sellable items for the branch and query.
// Pure function; cheap enough to run on every keystroke.
func Filter(services []backend.ServiceRecord, combos []backend.ComboRecord, branchCtx BranchContext, query Query) []Item {
	term := strings.ToLower(strings.TrimSpace(query.Search))

	items := make([]Item, 0, len(services)+len(combos))

	if query.Type == enums.TypeFilterAll || query.Type == enums.TypeFilterServices {
		for _, record := range services {
			if !record.Active {
				continue
			}
			if !inBranchScope(record.BranchIDs, branchCtx) {
				continue
			}
			if !matchesTerm(record.Name, record.Description, term) {
				continue
			}
			items = append(items, ItemFromService(record))
		}
	}

	if query.Type == enums.TypeFilterAll || query.Type == enums.TypeFilterCombos {
		for _, record := range combos {
			if record.Status != enums.ComboStatusActive {
				continue
			}
			if record.Stock != nil && *record.Stock <= 0 {
				continue
			}
			if !inBranchScope(record.BranchIDs, branchCtx) {
				continue
			}
			if !matchesTerm(record.Name, record.Description, term) {
				continue
			}
			items = append(items, ItemFromCombo(record))
		}
	}

	return items
}

func inBranchScope(branchIDs []string, branchCtx BranchContext) bool {
	if branchCtx.Admin {
		return true
	}
	for _, id := range branchIDs {
		if id == branchCtx.BranchID {
			return true
		}
	}
	return false
}

func matchesTerm(name, description, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), term) ||
		strings.Contains(strings.ToLower(description), term)
}
