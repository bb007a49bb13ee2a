package query

import (
	"math"

	"github.com/getmockd/mockapi/pkg/naming"
	"github.com/getmockd/mockapi/pkg/snapshot"
)

// Page is the result of a list request.
type Page struct {
	// Items is the requested page, in collection order.
	Items []any
	// Total counts the matches before pagination.
	Total int
}

// List filters, searches and paginates a collection.
//
// An unknown collection yields an empty page together with a
// *CollectionNotFoundError.
func List(state *snapshot.State, collection string, q Query) (Page, error) {
	c, ok := state.Collection(collection)
	if !ok {
		return Page{Items: []any{}}, &CollectionNotFoundError{Collection: collection}
	}

	items := make([]any, len(c.Items))
	copy(items, c.Items)

	for _, f := range q.Filters {
		want := Coerce(f.Value)
		items = keep(items, func(item any) bool {
			rec, ok := item.(*snapshot.Object)
			if !ok {
				return false
			}
			v, ok := rec.Get(f.Field)
			return ok && snapshot.StrictEqual(v, want)
		})
	}

	if q.Search != "" {
		m := newMatcher(q.Search)
		items = keep(items, m.Contains)
	}

	total := len(items)
	return Page{Items: paginate(items, q.Page, q.Limit), Total: total}, nil
}

// Detail finds one record by id and attaches the requested relations to a
// copy of it. The stored record is never modified.
//
// Each expand name e attaches the record of collection e, e+"s" or e+"es"
// (first that exists) whose id equals the record's <e>Id field. A missing or
// null <e>Id attaches nothing; an unmatched one attaches null.
//
// Each embed name attaches every record of that collection pointing back at
// this one through a foreign key derived from the requested collection name.
func Detail(state *snapshot.State, collection, rawID string, expand, embed []string) (*snapshot.Object, error) {
	c, ok := state.Collection(collection)
	if !ok {
		return nil, &CollectionNotFoundError{Collection: collection}
	}

	item, ok := c.FindByID(Coerce(rawID))
	if !ok {
		return nil, &NotFoundError{Collection: collection, ID: rawID}
	}

	out := item.Clone()
	for _, name := range expand {
		if v, ok := expandOne(state, item, name); ok {
			out.Set(name, v)
		}
	}

	id, _ := item.Get(snapshot.IDField)
	fks := naming.ForeignKeyCandidates(collection)
	for _, name := range embed {
		if v, ok := embedMany(state, id, fks, name); ok {
			out.Set(name, v)
		}
	}
	return out, nil
}

func expandOne(state *snapshot.State, item *snapshot.Object, name string) (any, bool) {
	target, ok := lookupTarget(state, name)
	if !ok {
		return nil, false
	}
	ref, ok := item.Get(naming.Singular(name) + "Id")
	if !ok || ref == nil {
		return nil, false
	}
	if rec, found := target.FindByID(ref); found {
		return rec, true
	}
	return nil, true
}

func lookupTarget(state *snapshot.State, name string) (*snapshot.Collection, bool) {
	for _, candidate := range []string{name, name + "s", name + "es"} {
		if c, ok := state.Collection(candidate); ok {
			return c, true
		}
	}
	return nil, false
}

func embedMany(state *snapshot.State, id any, fks []string, name string) ([]any, bool) {
	target, ok := state.Collection(name)
	if !ok {
		return nil, false
	}
	matches := make([]any, 0)
	for _, item := range target.Items {
		rec, ok := item.(*snapshot.Object)
		if !ok {
			continue
		}
		for _, fk := range fks {
			if v, ok := rec.Get(fk); ok && snapshot.StrictEqual(v, id) {
				matches = append(matches, rec)
				break
			}
		}
	}
	return matches, true
}

func keep(items []any, pred func(any) bool) []any {
	out := items[:0]
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// paginate applies _page/_limit. Both must be present and numeric, otherwise
// every item is returned.
func paginate(items []any, rawPage, rawLimit string) []any {
	if rawPage == "" || rawLimit == "" {
		return items
	}
	page, ok := parseNumber(rawPage)
	if !ok {
		return items
	}
	limit, ok := parseNumber(rawLimit)
	if !ok {
		return items
	}
	page = math.Max(1, page)
	limit = math.Max(1, limit)

	start := (page - 1) * limit
	end := start + limit
	return items[clampIndex(start, len(items)):clampIndex(end, len(items))]
}

func clampIndex(f float64, n int) int {
	f = math.Trunc(f)
	switch {
	case f <= 0:
		return 0
	case f >= float64(n):
		return n
	default:
		return int(f)
	}
}
