package memory

import (
	"gopkg.in/yaml.v3"
)

// Snapshot is a serializable copy of an object subtree.
type Snapshot struct {
	ID       int            `yaml:"id"`
	Kind     string         `yaml:"kind"`
	Layer    int            `yaml:"layer,omitempty"`
	Props    map[string]any `yaml:"props,omitempty"`
	Children []Snapshot     `yaml:"children,omitempty"`
}

// Snapshot captures o and its descendants.
func (o *Object) Snapshot() Snapshot {
	s := Snapshot{ID: o.id, Kind: o.kind.String()}
	if o.layer != nil {
		s.Layer = o.layer.id
	}
	if len(o.props) > 0 {
		s.Props = make(map[string]any, len(o.props))
		for k, v := range o.props {
			s.Props[k] = v
		}
	}
	for _, c := range o.children {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}

// YAML encodes the snapshot. Property keys are sorted.
func (s Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// Count returns the number of objects in the snapshot.
func (s Snapshot) Count() int {
	n := 1
	for _, c := range s.Children {
		n += c.Count()
	}
	return n
}
