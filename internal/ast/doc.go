// Package ast provides the intermediate representation for piper queries.
//
// The IR is a recursive tree of Item nodes produced by the parser and
// consumed by later compiler passes (resolution, SQL emission). This
// package contains the node model, the coercion helpers that normalize
// scalar-vs-container ambiguity, a generic fold framework for writing
// passes, and the unnest pass that collapses redundant Terms wrappers.
//
// All other internal packages import ast; ast imports nothing internal.
//
// Key design constraints:
//   - Item and Transformation are sealed interfaces (marker methods) so
//     backends can type-switch exhaustively
//   - Nodes are immutable once built; passes construct replacement trees
//   - Serialization is always tagged (variant name + payload), never
//     positional
package ast
