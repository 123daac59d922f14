/*
Package domain contains the core data model of the questionnaire engine.

A questionnaire is a Flow: an arena of question Nodes keyed by id, directed Edges that
reference nodes by id, and per-question Option lists. Answers collected from the user are a
flat map of field keys to Values. This package is kept pure and free of I/O, following
Hexagonal Architecture principles; traversal and validation live in package engine.

# Key Entities

  - Flow: the immutable graph definition (RootID, Nodes, Edges, Options).
  - Node: one question, with its control type and validation rules.
  - Edge: a directed transition gated by an optional Condition.
  - Value: the discriminated answer union (Null, Single, Multi, Raw).
  - Session: a persisted answer set plus the questions the user chose to skip.
*/
package domain
