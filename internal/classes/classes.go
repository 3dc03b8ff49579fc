package classes

import "fmt"

// ID is the dense integer class id written into label files.
type ID int

// Table maps class names to ids. The order of names is the contract shared with
// dataset.yaml and the downstream detector: names[i] has id i.
type Table struct {
	names []string
	ids   map[string]ID
}

func NewTable(names []string) (*Table, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("class table is empty")
	}

	t := &Table{
		names: make([]string, len(names)),
		ids:   make(map[string]ID, len(names)),
	}
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("class %d has an empty name", i)
		}
		if _, dup := t.ids[name]; dup {
			return nil, fmt.Errorf("duplicate class name %q", name)
		}
		t.names[i] = name
		t.ids[name] = ID(i)
	}
	return t, nil
}

func (t *Table) Lookup(name string) (ID, bool) {
	id, ok := t.ids[name]
	return id, ok
}

func (t *Table) Name(id ID) string {
	if id < 0 || int(id) >= len(t.names) {
		return "unknown"
	}
	return t.names[id]
}

func (t *Table) Len() int {
	return len(t.names)
}

// IDs returns all ids in table order.
func (t *Table) IDs() []ID {
	ids := make([]ID, len(t.names))
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// Names returns the {id: name} mapping used by training configs.
func (t *Table) Names() map[int]string {
	m := make(map[int]string, len(t.names))
	for i, name := range t.names {
		m[i] = name
	}
	return m
}
