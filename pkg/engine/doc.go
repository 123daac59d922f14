// Package engine implements the questionnaire core: condition evaluation, graph indexing,
// completeness checks, gated depth-first traversal, validation and answer pruning.
//
// Every function is pure and synchronous. Callers pass plain data (a *domain.Flow, an
// *Index built from it, an answer set and a skip set) and get plain data back. The only
// value worth caching between calls is the Index, which must be rebuilt when the flow
// definition changes.
//
// Malformed graphs never cause errors here: dangling edge targets and a missing root
// simply end the branch that references them.
package engine
