// Package model defines the provider facing text generation interface and a
// bridge into the runtime's model handler registry. Concrete providers live
// in subpackages (anthropic, openai); MockModel supports tests and examples.
package model
