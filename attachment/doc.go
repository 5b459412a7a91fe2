// Package attachment contains concrete implementations of core.AttachmentStore.
//
// The canonical AttachmentStore interface lives in the core package to avoid
// dependency cycles and keep domain contracts central. Implementation packages
// like this one (in-memory, object stores, databases) provide storage backends
// that can be swapped without touching calling code.
package attachment
