package domain

// TagIndex maps a tag name to every tag tuple carrying that name,
// in publication order. Lookups follow "first match wins".
type TagIndex map[string][]Tag

// NewTagIndex builds an index over tags. Empty tags are skipped.
func NewTagIndex(tags []Tag) TagIndex {
	idx := make(TagIndex, len(tags))
	for _, t := range tags {
		idx.add(t)
	}
	return idx
}

func (idx TagIndex) add(t Tag) {
	if len(t) == 0 {
		return
	}
	idx[t[0]] = append(idx[t[0]], t)
}

// First returns the first tag with the given name.
func (idx TagIndex) First(name string) (Tag, bool) {
	tags := idx[name]
	if len(tags) == 0 {
		return nil, false
	}
	return tags[0], true
}

// Value returns the first value of the first tag with the given name.
func (idx TagIndex) Value(name string) string {
	t, ok := idx.First(name)
	if !ok {
		return ""
	}
	return t.Value()
}

// ValueOr returns Value(name), or fallback when it is empty.
func (idx TagIndex) ValueOr(name, fallback string) string {
	if v := idx.Value(name); v != "" {
		return v
	}
	return fallback
}

// Values returns the first value of every tag with the given name.
func (idx TagIndex) Values(name string) []string {
	tags := idx[name]
	if len(tags) == 0 {
		return nil
	}
	values := make([]string, 0, len(tags))
	for _, t := range tags {
		if v := t.Value(); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Has reports whether any tag with the given name exists.
func (idx TagIndex) Has(name string) bool {
	return len(idx[name]) > 0
}

// HasValue reports whether a tag with the given name carries value.
func (idx TagIndex) HasValue(name, value string) bool {
	for _, t := range idx[name] {
		if t.Value() == value {
			return true
		}
	}
	return false
}
