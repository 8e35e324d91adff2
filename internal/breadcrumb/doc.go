// Package breadcrumb turns console paths such as /clients/1/datasources/7 into
// labelled navigation trails.
//
// FromPath is synchronous and never fails: each segment is labelled from the
// caller's custom labels, the static route table, or a title-cased copy of the
// segment. Resolver does the same walk but looks up entity IDs that follow a
// registered collection segment, so /clients/1 reads "Home › Clients › Tech
// Innovations Inc".
//
// Collections are bound explicitly with Register. RegisterSamples wires the
// demo dataset and RegisterDirectory wires the live API.
package breadcrumb
