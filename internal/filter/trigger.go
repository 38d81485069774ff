package filter

// Trigger binds a Filter to a Source and re-runs it when the query changes.
type Trigger struct {
	filter *Filter
	src    Source
	query  string
	ran    bool
}

// NewTrigger creates a trigger. Nothing runs until the first Set or Refresh.
func NewTrigger(f *Filter, src Source) *Trigger {
	return &Trigger{filter: f, src: src}
}

// Set applies query if it differs from the last one applied. The first call
// always runs. It reports whether the filter ran.
func (t *Trigger) Set(query string) (bool, error) {
	if t.ran && query == t.query {
		return false, nil
	}
	t.query = query
	t.ran = true
	return true, t.filter.Run(query, t.src)
}

// Refresh re-runs the filter with the current query, e.g. after the items changed.
func (t *Trigger) Refresh() error {
	t.ran = true
	return t.filter.Run(t.query, t.src)
}

// Rebind points the trigger at a new source and re-runs the current query on it.
func (t *Trigger) Rebind(src Source) error {
	t.src = src
	return t.Refresh()
}

// Query returns the last query applied.
func (t *Trigger) Query() string {
	return t.query
}
