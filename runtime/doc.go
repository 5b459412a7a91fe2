// Package runtime hosts the agent orchestration layer: it resolves and
// initializes plugins, maintains the model / action / provider / evaluator
// registries and drives message processing from inbound memory to persisted
// response. The concrete Runtime type implements core.Runtime.
package runtime
