package ast

// The coercion helpers let later passes treat "scalar vs list of one"
// uniformly instead of re-implementing container disambiguation at every
// call site. All of them are pure: they return new values and never
// mutate their argument.

// IntoInnerItems returns the contents of a Terms, Items, or Query, or a
// single-element slice holding any other item unchanged. Useful when a
// caller has either a scalar or a container and wants one shape.
func IntoInnerItems(item Item) []Item {
	switch v := item.(type) {
	case Terms:
		return []Item(v)
	case Items:
		return []Item(v)
	case Query:
		return []Item(v)
	default:
		return []Item{item}
	}
}

// AsInnerItems is the failing variant of IntoInnerItems: it requires a
// Terms, Items, or Query and returns a TypeMismatch naming the actual
// variant otherwise.
func AsInnerItems(item Item) ([]Item, error) {
	switch v := item.(type) {
	case Terms:
		return []Item(v), nil
	case Items:
		return []Item(v), nil
	case Query:
		return []Item(v), nil
	default:
		return nil, NewTypeMismatch("AsInnerItems", "container", item)
	}
}

// IntoInnerListItems requires a List and returns the item sequence held
// by each of its elements.
func IntoInnerListItems(item Item) ([][]Item, error) {
	list, ok := item.(List)
	if !ok {
		return nil, NewTypeMismatch("IntoInnerListItems", "list", item)
	}
	inner := make([][]Item, len(list))
	for i, li := range list {
		inner[i] = []Item(li)
	}
	return inner, nil
}

// IntoInnerListSingleItems requires a List where every element holds
// exactly one item, and returns those items. For `[1, a b]` each element
// is a single item; `[1 + 2]` is not, because the operator splits the
// element into several items.
func IntoInnerListSingleItems(item Item) ([]Item, error) {
	list, ok := item.(List)
	if !ok {
		return nil, NewTypeMismatch("IntoInnerListSingleItems", "list", item)
	}
	items := make([]Item, len(list))
	for i, li := range list {
		if len(li) != 1 {
			return nil, NewArityMismatch("IntoInnerListSingleItems", Items(li))
		}
		items[i] = li[0]
	}
	return items, nil
}

// CoerceToTerms wraps the item in a one-element Terms unless it already
// is a Terms.
func CoerceToTerms(item Item) Terms {
	if terms, ok := item.(Terms); ok {
		return terms
	}
	return Terms{item}
}

// CoerceToList wraps the item as a one-element List unless it already is
// a List.
func CoerceToList(item Item) List {
	if list, ok := item.(List); ok {
		return list
	}
	return List{ListItem{item}}
}

// IntoListOfItems builds a List where each input item becomes its own
// single-element ListItem.
func IntoListOfItems(items []Item) List {
	list := make(List, len(items))
	for i, item := range items {
		list[i] = ListItem{item}
	}
	return list
}

// AsScalar returns the value inside arbitrarily nested single-element
// Terms or Items wrappers. It keeps unwrapping while the current node is
// a singleton Terms or Items and stops at the first node that is not -
// including a Terms or Items with zero or two or more children. The
// scalar opposite of AsInnerItems; a pure projection, never a rebuild.
func AsScalar(item Item) Item {
	switch v := item.(type) {
	case Terms:
		if len(v) == 1 {
			return AsScalar(v[0])
		}
	case Items:
		if len(v) == 1 {
			return AsScalar(v[0])
		}
	}
	return item
}
