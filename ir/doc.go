// Package ir provides the layout preserving node model of JAML documents.
//
// # Overview
//
// A [Document] is an arena of [Node]s addressed by [NodeID]. Nodes have
// no parent pointers; a container lists its children in Kids and the
// exact source text between them in Seps, so that an unmodified tree
// re-emits its source byte for byte.
//
// # Node Kinds
//
// The set of kinds is closed:
//
//   - Lines: Assignment, Comment, Blank and the Header of a section
//   - Containers: Document, Section, TableArray, Array, InlineTable
//   - Literals: Integer, Float, Bool, Null, String
//   - Computed values: FString, ScopedVar, Folded, ListComp, DictComp,
//     TableComp
//
// Every node built from source records its span in Start, End and
// Origin. Resolution stores the computed value in Resolved and sets
// Done. Synthetic nodes are built from Go values with [FromValue] and
// have canonical Origin text.
//
// # Mutation
//
// [Document.Splice] is the only structural mutation. It replaces a
// range of children of a container and keeps Seps consistent.
// [Document.Clone] deep copies a subtree into fresh slots.
package ir
