// Package hal defines the collaborator contracts consumed by the copy engine:
// resource metadata lookups, per-engine copy submission, source decompression,
// and the per-generation format-support tables, along with the registry that
// maps engine names to their implementations.
package hal
