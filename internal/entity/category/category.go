package category

// Record is a named expense classification. The set of categories is
// reference data seeded by migration and never mutated at runtime.
type Record struct {
	ID   int64
	Name string
}
