// Package token defines the bookkeeping records produced while flattening a
// context root.
// Invariants:
//   - TokenInfo.Range is relative to the start of the checking root.
//   - Tokens of one pass are non-overlapping and, concatenated, cover the root.
//   - ShiftEntry.FlatPosition is non-decreasing along the ledger.
//   - RuleGroupSet and CategorySet are values; "inherit from parent" is never
//     encoded as an empty set, callers pass an explicit ok=false instead.
package token
