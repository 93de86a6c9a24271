package liststate

import (
	"sort"
	"strings"
)

// Projection turns a State into the filtered and sorted sequence a screen
// renders. Project is pure: same state in, same sequence out, input never
// mutated. Search runs first, then the categorical filter, then the sort.
type Projection[T Record] struct {
	// SearchText lists the field values a record is matched against.
	SearchText func(T) []string
	// Filters maps a filter label to its predicate. Missing label or "All"
	// passes everything.
	Filters map[string]func(T) bool
	// Sorts maps a sort key to a less function. Unknown keys (including
	// "Most Relevant") keep the store order.
	Sorts map[string]func(a, b T) bool
}

func (p Projection[T]) Project(st State[T]) []T {
	out := make([]T, 0, len(st.Items))

	needle := strings.ToLower(strings.TrimSpace(st.Search))
	pred := p.Filters[st.Filter]

	for _, it := range st.Items {
		if needle != "" && p.SearchText != nil {
			hay := strings.ToLower(strings.Join(p.SearchText(it), " "))
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		if pred != nil && !pred(it) {
			continue
		}
		out = append(out, it)
	}

	if less, ok := p.Sorts[st.Sort]; ok {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

// ProjectIDs is Project reduced to record ids, for select-all call sites.
func (p Projection[T]) ProjectIDs(st State[T]) []string {
	items := p.Project(st)
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.RecordID()
	}
	return ids
}

// SelectedRecords returns the items whose ids are in the selection, in item
// order.
func SelectedRecords[T Record](st State[T]) []T {
	out := make([]T, 0, len(st.Selected))
	for _, it := range st.Items {
		if _, ok := st.Selected[it.RecordID()]; ok {
			out = append(out, it)
		}
	}
	return out
}
