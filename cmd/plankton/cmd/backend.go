package cmd

import (
	"context"
	"time"

	"github.com/msto63/plankton/foundation/utils/objx"
	"github.com/msto63/plankton/internal/objsvc/client"
	"github.com/msto63/plankton/internal/objsvc/service"
	"github.com/msto63/plankton/pkg/core/store"
	"github.com/msto63/plankton/pkg/predicate"
)

// backend is implemented by the local service adapter and the remote client
type backend interface {
	Merge(ctx context.Context, sources ...*objx.Object) (*objx.Object, error)
	Keys(ctx context.Context, subject *objx.Object) ([]string, error)
	Values(ctx context.Context, subject *objx.Object) ([]any, error)
	Count(ctx context.Context, subject *objx.Object) (int, error)
	Any(ctx context.Context, subject *objx.Object, by predicate.By) (*objx.Object, error)
	Filter(ctx context.Context, subject *objx.Object, source string, by predicate.By) (*objx.Object, error)
	Save(ctx context.Context, name string, subject *objx.Object) (*objx.Object, error)
	Load(ctx context.Context, name string) (*objx.Object, error)
	List(ctx context.Context) ([]*objx.Object, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

var (
	_ backend = (*local)(nil)
	_ backend = (*client.Client)(nil)
)

// local runs the combinators in process
type local struct {
	svc *service.Service
}

func (l *local) Merge(_ context.Context, sources ...*objx.Object) (*objx.Object, error) {
	return l.svc.Merge(sources...), nil
}

func (l *local) Keys(_ context.Context, subject *objx.Object) ([]string, error) {
	return l.svc.Keys(subject), nil
}

func (l *local) Values(_ context.Context, subject *objx.Object) ([]any, error) {
	return l.svc.Values(subject), nil
}

func (l *local) Count(_ context.Context, subject *objx.Object) (int, error) {
	return l.svc.Count(subject), nil
}

func (l *local) Any(_ context.Context, subject *objx.Object, by predicate.By) (*objx.Object, error) {
	result := l.svc.Any(subject, by)
	out := objx.NewObject().Set("found", result.Found)
	if !result.Found {
		return out, nil
	}
	switch by {
	case predicate.ByKey:
		out.Set("key", result.Key)
	case predicate.ByItem, predicate.ByPair:
		out.Set("key", result.Key).Set("value", result.Value).Set("item", result.Item)
	default:
		out.Set("value", result.Value)
	}
	return out, nil
}

func (l *local) Filter(ctx context.Context, subject *objx.Object, source string, by predicate.By) (*objx.Object, error) {
	return l.svc.Filter(ctx, subject, source, by)
}

func (l *local) Save(ctx context.Context, name string, subject *objx.Object) (*objx.Object, error) {
	snap, err := l.svc.Save(ctx, name, subject)
	if err != nil {
		return nil, err
	}
	return snapshotObject(snap), nil
}

func (l *local) Load(ctx context.Context, name string) (*objx.Object, error) {
	return l.svc.Load(ctx, name)
}

func (l *local) List(ctx context.Context) ([]*objx.Object, error) {
	snapshots, err := l.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*objx.Object, len(snapshots))
	for i, snap := range snapshots {
		out[i] = snapshotObject(snap)
	}
	return out, nil
}

func (l *local) Delete(ctx context.Context, name string) error {
	return l.svc.Delete(ctx, name)
}

func (l *local) Close() error {
	return l.svc.Close()
}

func snapshotObject(snap *store.Snapshot) *objx.Object {
	return objx.NewObject().
		Set("id", snap.ID).
		Set("name", snap.Name).
		Set("entries", snap.Entries).
		Set("created_at", snap.CreatedAt.UTC().Format(time.RFC3339)).
		Set("updated_at", snap.UpdatedAt.UTC().Format(time.RFC3339))
}
