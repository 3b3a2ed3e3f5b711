// Package regions turns raw region records into ordered, grouped and
// availability-annotated options.
//
// Classify maps a region to its display group, IsUnavailable evaluates account
// availability for a capability, and DeriveOptions filters and sorts a region
// list. Deriver memoizes DeriveOptions for callers that re-derive on every
// interaction. None of these functions fail on incomplete data: unknown
// countries land in GroupOther and missing availability reads as available.
package regions
