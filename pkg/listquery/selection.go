package listquery

// SelectionSet tracks operator-checked record ids. Selection is independent
// of the current page, so checked ids survive pagination.
type SelectionSet struct {
	ids map[string]struct{}
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{ids: make(map[string]struct{})}
}

func (s *SelectionSet) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

func (s *SelectionSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *SelectionSet) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in unspecified order
func (s *SelectionSet) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	return ids
}

func (s *SelectionSet) Clear() {
	s.ids = make(map[string]struct{})
}

// SelectAll adds every given id. When all of them are already selected it
// deselects them instead, matching the toggle-all checkbox behavior.
func (s *SelectionSet) SelectAll(visible []string) {
	all := len(visible) > 0
	for _, id := range visible {
		if _, ok := s.ids[id]; !ok {
			all = false
			break
		}
	}

	if all {
		for _, id := range visible {
			delete(s.ids, id)
		}
		return
	}
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}
