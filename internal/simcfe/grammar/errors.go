package grammar

import "errors"

// ErrInvalidGrammar is wrapped by all grammar-validity failures described in
// spec.md §7: missing END, undeclared RHS symbols, or a malformed epsilon
// set. Use errors.Is(err, grammar.ErrInvalidGrammar) to detect the category.
var ErrInvalidGrammar = errors.New("invalid grammar")
