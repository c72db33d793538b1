// Package resolver provides per-page block id resolution for document
// analysis responses.
//
// Blocks reference each other only through typed relationships carrying
// opaque ids ("Child", "Value", "MergedCell", "Answer", ...). A [Registry]
// indexes the blocks of one page, holds the entity built for each block, and
// follows relationships back to those entities.
//
// # Basic Usage
//
//	reg := resolver.NewRegistry(pageBlocks)
//	for _, e := range entities {
//	    reg.Register(e)
//	}
//	words, err := reg.Related(lineBlock, types.RelationshipTypeChild,
//	    resolver.Only(types.BlockTypeWord))
//
// # Policies
//
// Two kinds of anomaly are handled by a [Policy]: ids that do not resolve on
// the page, and resolved blocks whose type the caller did not ask for. Each
// can be ignored, reported as a [Warning] (the default) or turned into an
// error:
//
//	reg := resolver.NewRegistry(pageBlocks,
//	    resolver.WithMissingReferencePolicy(resolver.PolicyError))
//
// A [Filter] can override either policy for a single call and can list
// "expected" block types that are dropped silently.
//
// Warnings are deduplicated, so a dangling reference is reported once no
// matter how many times it is followed.
package resolver
