package targets

import "strings"

// Multi combines sources, enumerated in argument order.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

type multiSource struct {
	sources []Source
}

func (m *multiSource) Iterator() Iterator {
	iterators := make([]Iterator, 0, len(m.sources))
	for _, source := range m.sources {
		iterators = append(iterators, source.Iterator())
	}
	return &multiIterator{iterators: iterators}
}

func (m *multiSource) Count() uint64 {
	var count uint64
	for _, source := range m.sources {
		count += source.Count()
	}
	return count
}

func (m *multiSource) String() string {
	specs := make([]string, 0, len(m.sources))
	for _, source := range m.sources {
		specs = append(specs, source.String())
	}
	return strings.Join(specs, ",")
}

type multiIterator struct {
	iterators []Iterator
	current   int
}

func (it *multiIterator) Next() (uint32, bool) {
	for it.current < len(it.iterators) {
		if addr, ok := it.iterators[it.current].Next(); ok {
			return addr, true
		}
		it.current++
	}
	return 0, false
}

func (it *multiIterator) Reset() {
	for _, iterator := range it.iterators {
		iterator.Reset()
	}
	it.current = 0
}
