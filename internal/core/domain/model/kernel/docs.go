// Package kernel contains shared building blocks for the domain model.
// It provides value objects that are used across aggregates, such as the
// UUID identifier type. Kernel types are immutable and carry their own
// validation so that aggregates can rely on them without re-checking.
package kernel
