/*
Package session implements questionnaire session management.

A Manager serializes every read-modify-write of a session behind a per-session mutex
(reference counted, so idle sessions hold no lock) and, optionally, a distributed lock
for multi-replica deployments. Updates merge answers, replace the skip list when given,
and prune answers that are no longer reachable before saving.
*/
package session
