package ast

// Unnest transitively collapses singleton Terms wrappers across the whole
// tree, walking every container but removing only Terms (never Items or
// List - a one-element List stays a one-element List).
//
// At each Terms node the pass first projects it through AsScalar, so a
// chain of singleton wrappers collapses to its innermost non-singleton
// value, then resumes the default recursion on the result. A Terms with
// two or more elements is kept, but its children are still visited, so
// nested singletons inside it collapse independently.
//
// The pass is idempotent: running it on its own output is a no-op.
func Unnest(item Item) (Item, error) {
	f := &Folder{
		Item: func(f *Folder, item Item) (Item, error) {
			if _, ok := item.(Terms); ok {
				return FoldItemDefault(f, AsScalar(item))
			}
			return FoldItemDefault(f, item)
		},
	}
	return f.FoldItem(item)
}
