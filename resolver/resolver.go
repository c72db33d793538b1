package resolver

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/sirupsen/logrus"
)

// Entity is anything resolved from exactly one block id
type Entity interface {
	ID() string
	BlockType() types.BlockType
}

// Registry maps the block ids of one page to their blocks and resolved
// entities, and follows typed relationships between them.
//
// A Registry is filled in two phases: every entity is registered first
// using only its own block, then entities link their relationships through
// Related. Lookups never see a half-built sibling.
type Registry struct {
	blocks   map[string]*types.Block
	order    []string
	entities map[string]Entity

	onMissing    Policy
	onUnexpected Policy
	maxDepth     int
	page         int
	logger       logrus.FieldLogger

	seen     map[string]bool
	warnings []Warning
}

// Option configures the registry
type Option func(*Registry)

// WithMissingReferencePolicy sets the default policy for dangling ids (default: PolicyWarn)
func WithMissingReferencePolicy(p Policy) Option {
	return func(r *Registry) {
		if p != PolicyInherit {
			r.onMissing = p
		}
	}
}

// WithUnexpectedKindPolicy sets the default policy for references to blocks
// of an unexpected type (default: PolicyWarn)
func WithUnexpectedKindPolicy(p Policy) Option {
	return func(r *Registry) {
		if p != PolicyInherit {
			r.onUnexpected = p
		}
	}
}

// WithLogger sets the logger warnings are written to (default: logrus standard logger)
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMaxDepth sets the maximum traversal depth used by Walk (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *Registry) {
		r.maxDepth = depth
	}
}

// WithPage tags warnings and log entries with a 1-based page number
func WithPage(n int) Option {
	return func(r *Registry) {
		r.page = n
	}
}

// NewRegistry indexes blocks by id. The registry keeps pointers into the
// given slice so that edits made through entities reach the caller's blocks.
func NewRegistry(blocks []types.Block, opts ...Option) *Registry {
	r := &Registry{
		blocks:       make(map[string]*types.Block, len(blocks)),
		order:        make([]string, 0, len(blocks)),
		entities:     make(map[string]Entity, len(blocks)),
		onMissing:    PolicyWarn,
		onUnexpected: PolicyWarn,
		maxDepth:     100,
		logger:       logrus.StandardLogger(),
		seen:         make(map[string]bool),
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.page > 0 {
		r.logger = r.logger.WithField("page", r.page)
	}

	for i := range blocks {
		id := aws.ToString(blocks[i].Id)
		if _, dup := r.blocks[id]; dup {
			r.Warn(Warning{
				Code:      CodeDuplicateID,
				BlockID:   id,
				BlockType: blocks[i].BlockType,
				Message:   fmt.Sprintf("duplicate block id %s: keeping first occurrence", id),
			})
			continue
		}
		r.blocks[id] = &blocks[i]
		r.order = append(r.order, id)
	}

	return r
}

// Len returns the number of distinct blocks
func (r *Registry) Len() int {
	return len(r.order)
}

// Block returns the raw block for an id
func (r *Registry) Block(id string) (*types.Block, bool) {
	b, ok := r.blocks[id]
	return b, ok
}

// Blocks returns the indexed blocks in input order
func (r *Registry) Blocks() []*types.Block {
	out := make([]*types.Block, len(r.order))
	for i, id := range r.order {
		out[i] = r.blocks[id]
	}
	return out
}

// Register records an entity against its own id, replacing any earlier one
func (r *Registry) Register(e Entity) {
	r.entities[e.ID()] = e
}

// Resolve returns the entity registered for id. The error wraps
// ErrMissingReference when there is none.
func (r *Registry) Resolve(id string) (Entity, error) {
	e, ok := r.entities[id]
	if !ok {
		return nil, &ReferenceError{RefID: id, Err: ErrMissingReference}
	}
	return e, nil
}

// Entities returns the registered entities in block order
func (r *Registry) Entities() []Entity {
	out := make([]Entity, 0, len(r.entities))
	for _, id := range r.order {
		if e, ok := r.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// RelatedIDs returns the target ids of every relationship of the given type,
// in order
func RelatedIDs(block *types.Block, relType types.RelationshipType) []string {
	if block == nil {
		return nil
	}
	var ids []string
	for _, rel := range block.Relationships {
		if rel.Type == relType {
			ids = append(ids, rel.Ids...)
		}
	}
	return ids
}

// RelationshipTypes returns the distinct relationship types on a block, in
// first-seen order
func RelationshipTypes(block *types.Block) []types.RelationshipType {
	if block == nil {
		return nil
	}
	var out []types.RelationshipType
	seen := make(map[types.RelationshipType]bool)
	for _, rel := range block.Relationships {
		if !seen[rel.Type] {
			seen[rel.Type] = true
			out = append(out, rel.Type)
		}
	}
	return out
}

// Filter narrows the entities returned by Related
type Filter struct {
	// Kinds lists the accepted block types. Empty accepts every type.
	Kinds []types.BlockType

	// Expected lists other block types that may legitimately appear and are
	// dropped without a warning.
	Expected []types.BlockType

	// OnMissing overrides the registry policy for dangling ids
	OnMissing Policy

	// OnUnexpected overrides the registry policy for types outside Kinds
	OnUnexpected Policy
}

// Only builds a Filter accepting the given block types
func Only(kinds ...types.BlockType) Filter {
	return Filter{Kinds: kinds}
}

func (f Filter) accepts(bt types.BlockType) bool {
	if len(f.Kinds) == 0 {
		return true
	}
	return containsType(f.Kinds, bt)
}

func containsType(list []types.BlockType, bt types.BlockType) bool {
	for _, k := range list {
		if k == bt {
			return true
		}
	}
	return false
}

// Related resolves the targets of a block's relationships of one type, in
// order. Dangling ids and unexpected types are dropped according to the
// filter's policies, falling back to the registry defaults. Under
// PolicyError the first offending reference aborts with a *ReferenceError
// and the entities resolved so far.
func (r *Registry) Related(block *types.Block, relType types.RelationshipType, f Filter) ([]Entity, error) {
	blockID := aws.ToString(block.Id)
	ids := RelatedIDs(block, relType)
	out := make([]Entity, 0, len(ids))

	for _, ref := range ids {
		e, ok := r.entities[ref]
		if !ok {
			err := r.apply(r.policy(f.OnMissing, r.onMissing), Warning{
				Code:         CodeMissingReference,
				BlockID:      blockID,
				RefID:        ref,
				Relationship: relType,
				Message: fmt.Sprintf("%s block %s has %s reference to missing block %s",
					block.BlockType, blockID, relType, ref),
			}, ErrMissingReference)
			if err != nil {
				return out, err
			}
			continue
		}

		if !f.accepts(e.BlockType()) {
			if containsType(f.Expected, e.BlockType()) {
				continue
			}
			err := r.apply(r.policy(f.OnUnexpected, r.onUnexpected), Warning{
				Code:         CodeUnexpectedBlockType,
				BlockID:      blockID,
				RefID:        ref,
				Relationship: relType,
				BlockType:    e.BlockType(),
				Message: fmt.Sprintf("%s block %s has %s reference to unexpected %s block %s",
					block.BlockType, blockID, relType, e.BlockType(), ref),
			}, ErrUnexpectedBlockType)
			if err != nil {
				return out, err
			}
			continue
		}

		out = append(out, e)
	}

	return out, nil
}

func (r *Registry) policy(override, fallback Policy) Policy {
	if override != PolicyInherit {
		return override
	}
	return fallback
}

func (r *Registry) apply(p Policy, w Warning, sentinel error) error {
	switch p {
	case PolicyIgnore:
		return nil
	case PolicyError:
		return &ReferenceError{
			BlockID:      w.BlockID,
			RefID:        w.RefID,
			Relationship: w.Relationship,
			BlockType:    w.BlockType,
			Err:          sentinel,
		}
	default:
		r.Warn(w)
		return nil
	}
}

// Warn records a warning unless an identical one was already recorded, and
// logs it.
func (r *Registry) Warn(w Warning) {
	if w.Page == 0 {
		w.Page = r.page
	}
	k := w.key()
	if r.seen[k] {
		return
	}
	r.seen[k] = true
	r.warnings = append(r.warnings, w)

	fields := logrus.Fields{"code": string(w.Code)}
	if w.BlockID != "" {
		fields["block_id"] = w.BlockID
	}
	if w.RefID != "" {
		fields["ref_id"] = w.RefID
	}
	if w.Relationship != "" {
		fields["relationship"] = string(w.Relationship)
	}
	if w.BlockType != "" {
		fields["block_type"] = string(w.BlockType)
	}
	r.logger.WithFields(fields).Warn(w.Message)
}

// Warnings returns a copy of the recorded warnings in first-seen order
func (r *Registry) Warnings() []Warning {
	return append([]Warning(nil), r.warnings...)
}

// Walk visits root and its descendants depth first, pre-order. children
// lists the direct descendants of an entity. Walk fails on a cycle or when
// the nesting exceeds the registry's maximum depth.
func (r *Registry) Walk(root Entity, children func(Entity) []Entity, visit func(e Entity, depth int) error) error {
	visiting := make(map[string]bool)
	return r.walk(root, 0, children, visit, visiting)
}

func (r *Registry) walk(e Entity, depth int, children func(Entity) []Entity, visit func(Entity, int) error, visiting map[string]bool) error {
	if depth >= r.maxDepth {
		return fmt.Errorf("maximum traversal depth (%d) exceeded at block %s", r.maxDepth, e.ID())
	}
	if visiting[e.ID()] {
		return fmt.Errorf("circular reference detected for block %s", e.ID())
	}
	visiting[e.ID()] = true
	defer delete(visiting, e.ID())

	if err := visit(e, depth); err != nil {
		return err
	}
	for _, c := range children(e) {
		if err := r.walk(c, depth+1, children, visit, visiting); err != nil {
			return err
		}
	}
	return nil
}
