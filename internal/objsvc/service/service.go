package service

import (
	"context"
	"time"

	"github.com/msto63/plankton/foundation"
	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/namespace"
	"github.com/msto63/plankton/foundation/utils/objx"
	"github.com/msto63/plankton/pkg/core/cache"
	"github.com/msto63/plankton/pkg/core/logging"
	"github.com/msto63/plankton/pkg/core/store"
	"github.com/msto63/plankton/pkg/predicate"
)

// Config holds service configuration
type Config struct {
	// Store persists named snapshots. Without a store the snapshot
	// operations fail with SERVICE_UNAVAILABLE.
	Store          store.Store
	PredicateCache cache.Config
	Logger         *logging.Logger
}

// DefaultConfig returns default service configuration
func DefaultConfig() Config {
	return Config{
		PredicateCache: cache.Config{
			MaxItems: 256,
			TTL:      30 * time.Minute,
		},
	}
}

// AnyResult is the outcome of an Any query
type AnyResult struct {
	Found bool
	Key   string
	Value any
	Item  *objx.Object
}

// Service runs the combinators behind the CLI and the gRPC server
type Service struct {
	ns         *namespace.Namespace
	ops        ops
	store      store.Store
	predicates *cache.PredicateCache
	logger     *logging.Logger
}

// ops holds the combinators resolved from Plankton.obj
type ops struct {
	copy     func(*objx.Object) *objx.Object
	mix      func(*objx.Object, ...*objx.Object) *objx.Object
	merge    func(...*objx.Object) *objx.Object
	combine  func(string, any) *objx.Object
	keys     func(*objx.Object) []string
	values   func(*objx.Object) []any
	count    func(*objx.Object) int
	anyKey   func(*objx.Object) (string, bool)
	anyValue func(*objx.Object) (any, bool)
	anyItem  func(*objx.Object) (*objx.Object, bool)
}

// NewService creates the service and resolves its combinators
func NewService(cfg Config) (*Service, error) {
	const op = "service.NewService"

	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("objects")
	}

	ns, err := foundation.Plankton()
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to build namespace").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation(op)
	}

	resolved, err := resolveOps(ns)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to resolve combinators").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation(op)
	}

	return &Service{
		ns:         ns,
		ops:        resolved,
		store:      cfg.Store,
		predicates: cache.NewPredicateCache(cfg.PredicateCache),
		logger:     logger,
	}, nil
}

func resolveOps(ns *namespace.Namespace) (ops, error) {
	node, err := ns.Resolve("Plankton.obj")
	if err != nil {
		return ops{}, err
	}
	table, ok := node.(*objx.Object)
	if !ok {
		return ops{}, mdwerror.New("Plankton.obj is not an object").
			WithCode(mdwerror.CodeInvalidOperation)
	}

	var o ops
	var errs []error
	bind(table, "Copy", &o.copy, &errs)
	bind(table, "Mix", &o.mix, &errs)
	bind(table, "Merge", &o.merge, &errs)
	bind(table, "Combine", &o.combine, &errs)
	bind(table, "Keys", &o.keys, &errs)
	bind(table, "Values", &o.values, &errs)
	bind(table, "Count", &o.count, &errs)
	bind(table, "AnyKey", &o.anyKey, &errs)
	bind(table, "AnyValue", &o.anyValue, &errs)
	bind(table, "AnyItem", &o.anyItem, &errs)
	if len(errs) > 0 {
		return ops{}, errs[0]
	}
	return o, nil
}

func bind[F any](table *objx.Object, name string, dst *F, errs *[]error) {
	v, _ := table.GetOwn(name)
	fn, ok := v.(F)
	if !ok {
		*errs = append(*errs, mdwerror.Newf("Plankton.obj.%s has type %T", name, v).
			WithCode(mdwerror.CodeInvalidOperation).
			WithDetail("name", name))
		return
	}
	*dst = fn
}

// Namespace returns the namespace the combinators were resolved from
func (s *Service) Namespace() *namespace.Namespace {
	return s.ns
}

// Copy returns a shallow copy of the own entries of subject
func (s *Service) Copy(subject *objx.Object) *objx.Object {
	return s.ops.copy(subject)
}

// Mix copies the own entries of sources into subject, later sources winning
func (s *Service) Mix(subject *objx.Object, sources ...*objx.Object) *objx.Object {
	return s.ops.mix(subject, sources...)
}

// Merge combines sources into a new object, later sources winning
func (s *Service) Merge(sources ...*objx.Object) *objx.Object {
	return s.ops.merge(sources...)
}

// Combine returns a single-entry object
func (s *Service) Combine(key string, value any) *objx.Object {
	return s.ops.combine(key, value)
}

// Keys returns the own keys of subject in order
func (s *Service) Keys(subject *objx.Object) []string {
	return s.ops.keys(subject)
}

// Values returns the own values of subject in key order
func (s *Service) Values(subject *objx.Object) []any {
	return s.ops.values(subject)
}

// Count returns the number of own entries
func (s *Service) Count(subject *objx.Object) int {
	return s.ops.count(subject)
}

// Any returns one entry of subject projected by by
func (s *Service) Any(subject *objx.Object, by predicate.By) AnyResult {
	switch by {
	case predicate.ByKey:
		key, ok := s.ops.anyKey(subject)
		return AnyResult{Found: ok, Key: key}
	case predicate.ByItem, predicate.ByPair:
		item, ok := s.ops.anyItem(subject)
		if !ok {
			return AnyResult{}
		}
		key, _ := s.ops.anyKey(item)
		value, _ := item.GetOwn(key)
		return AnyResult{Found: true, Key: key, Value: value, Item: item}
	default:
		value, ok := s.ops.anyValue(subject)
		return AnyResult{Found: ok, Value: value}
	}
}

// Filter selects the entries of subject for which source holds
func (s *Service) Filter(ctx context.Context, subject *objx.Object, source string, by predicate.By) (*objx.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := s.predicates.Compile(source)
	if err != nil {
		return nil, err
	}

	result, err := p.Filter(subject, by)
	if err != nil {
		return result, mdwerror.Wrap(err, "filter aborted").WithOperation("service.Filter")
	}

	s.logger.Debug("filter applied",
		"expr", source,
		"by", by.String(),
		"in", s.Count(subject),
		"out", s.Count(result),
	)
	return result, nil
}

// Each visits the entries of subject until source yields false
func (s *Service) Each(ctx context.Context, subject *objx.Object, source string, by predicate.By, visit func(key string, value any)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.predicates.Compile(source)
	if err != nil {
		return err
	}
	return p.Each(subject, by, visit)
}

// Save stores subject under name
func (s *Service) Save(ctx context.Context, name string, subject *objx.Object) (*store.Snapshot, error) {
	st, err := s.requireStore("service.Save")
	if err != nil {
		return nil, err
	}
	return st.Save(ctx, name, subject)
}

// Load returns the snapshot stored under name
func (s *Service) Load(ctx context.Context, name string) (*objx.Object, error) {
	st, err := s.requireStore("service.Load")
	if err != nil {
		return nil, err
	}
	return st.Load(ctx, name)
}

// List returns all stored snapshots
func (s *Service) List(ctx context.Context) ([]*store.Snapshot, error) {
	st, err := s.requireStore("service.List")
	if err != nil {
		return nil, err
	}
	return st.List(ctx)
}

// Delete removes the snapshot stored under name
func (s *Service) Delete(ctx context.Context, name string) error {
	st, err := s.requireStore("service.Delete")
	if err != nil {
		return err
	}
	return st.Delete(ctx, name)
}

// Store returns the snapshot store, nil when none is configured
func (s *Service) Store() store.Store {
	return s.store
}

// PredicateStats returns statistics of the compiled expression cache
func (s *Service) PredicateStats() map[string]interface{} {
	return s.predicates.Stats()
}

// Close releases the expression cache and the store
func (s *Service) Close() error {
	s.predicates.Close()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *Service) requireStore(op string) (store.Store, error) {
	if s.store == nil {
		return nil, mdwerror.New("no snapshot store configured").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithOperation(op)
	}
	return s.store, nil
}
