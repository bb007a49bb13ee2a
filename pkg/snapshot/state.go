package snapshot

import (
	"errors"
	"fmt"

	"github.com/tailscale/hujson"
)

// IDField is the field every record is assumed to be keyed by.
const IDField = "id"

// Collection is a named, ordered sequence of records.
//
// Items keep whatever the database holds. Items that are not objects have no
// fields, so they never match a filter or an id lookup.
type Collection struct {
	Name  string
	Items []any
}

// Len returns the number of items.
func (c *Collection) Len() int {
	return len(c.Items)
}

// First returns the first item, or nil for an empty collection.
func (c *Collection) First() any {
	if len(c.Items) == 0 {
		return nil
	}
	return c.Items[0]
}

// Sample returns the first item when it is an object.
func (c *Collection) Sample() (*Object, bool) {
	obj, ok := c.First().(*Object)
	return obj, ok && obj != nil
}

// FindByID returns the first record whose id strictly equals id.
func (c *Collection) FindByID(id any) (*Object, bool) {
	for _, item := range c.Items {
		rec, ok := item.(*Object)
		if !ok {
			continue
		}
		if v, ok := rec.Get(IDField); ok && StrictEqual(v, id) {
			return rec, true
		}
	}
	return nil, false
}

// State is an immutable view of all collections, in document order.
type State struct {
	order       []string
	collections map[string]*Collection
}

func newState() *State {
	return &State{collections: make(map[string]*Collection)}
}

// add registers a collection. It reports false when the name is taken.
func (s *State) add(name string, items []any) bool {
	if _, exists := s.collections[name]; exists {
		return false
	}
	s.order = append(s.order, name)
	s.collections[name] = &Collection{Name: name, Items: items}
	return true
}

// Collection returns the named collection.
func (s *State) Collection(name string) (*Collection, bool) {
	c, ok := s.collections[name]
	return c, ok
}

// Has reports whether name is a collection.
func (s *State) Has(name string) bool {
	_, ok := s.collections[name]
	return ok
}

// Names returns the collection names in document order.
func (s *State) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Collections returns the collections in document order.
func (s *State) Collections() []*Collection {
	out := make([]*Collection, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.collections[name])
	}
	return out
}

// Len returns the number of collections.
func (s *State) Len() int {
	return len(s.order)
}

// Decode parses a database document. Comments and trailing commas are
// accepted. Top-level entries that are not arrays are ignored.
func Decode(data []byte) (*State, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse database: %w", err)
	}

	v, err := DecodeValue(std)
	if err != nil {
		return nil, fmt.Errorf("parse database: %w", err)
	}

	root, ok := v.(*Object)
	if !ok {
		return nil, errors.New("parse database: top-level value must be an object")
	}

	state := newState()
	for _, name := range root.keys {
		if items, ok := root.values[name].([]any); ok {
			state.add(name, items)
		}
	}
	return state, nil
}

// StrictEqual compares two snapshot values the way JavaScript's === does:
// scalars by value, objects and arrays by identity.
func StrictEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case *Object:
		bv, ok := b.(*Object)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		if len(av) == 0 {
			// Two empty slices cannot be told apart by element address.
			return false
		}
		return &av[0] == &bv[0]
	default:
		return false
	}
}
