package listquery

// Record is any administrable entity with a stable identifier
type Record interface {
	RecordID() string
}

// Page is the fetched slice of records matching a QueryState plus
// pagination metadata. It is replaced wholesale on every successful fetch.
type Page[T Record] struct {
	Records    []T
	TotalCount int
	TotalPages int
}

// Clone copies the record slice so callers can hold a stable snapshot
func (p Page[T]) Clone() Page[T] {
	c := p
	c.Records = make([]T, len(p.Records))
	copy(c.Records, p.Records)
	return c
}

// IDs returns the identifiers of the visible records in order
func (p Page[T]) IDs() []string {
	ids := make([]string, len(p.Records))
	for i, r := range p.Records {
		ids[i] = r.RecordID()
	}
	return ids
}

// TotalPagesFor computes ceil(total/pageSize), minimum 1
func TotalPagesFor(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}
