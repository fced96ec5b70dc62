package ir

import "errors"

// ErrIntermediateCode is wrapped when a node is asked to emit code before
// its children have produced theirs (spec.md §7 "IntermediateCodeError"):
// a traversal-order bug, not a property of the source program.
var ErrIntermediateCode = errors.New("intermediate code traversal error")
