package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
	"github.com/msto63/plankton/pkg/core/logging"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(SQLiteConfig{
		Path:   filepath.Join(t.TempDir(), "nested", "plankton.db"),
		Logger: logging.New("store-test").WithLevel(logging.LevelError),
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inner := objx.NewObject().Set("y", true).Set("x", nil)
	subject := objx.NewObject().
		Set("zeta", 1).
		Set("alpha", inner).
		Set("list", []any{1, 2.5, "s"}).
		Set("name", "plankton")

	snap, err := s.Save(ctx, "first", subject)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if snap.ID == "" || snap.Entries != 4 {
		t.Errorf("Save() = %+v, want id and 4 entries", snap)
	}

	loaded, err := s.Load(ctx, "first")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff([]string{"zeta", "alpha", "list", "name"}, objx.Keys(loaded)); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
	if !loaded.Equal(subject) {
		t.Errorf("Load() = %v, want %v", loaded, subject)
	}

	v, _ := loaded.GetOwn("alpha")
	child, ok := v.(*objx.Object)
	if !ok {
		t.Fatalf("alpha is %T, want *objx.Object", v)
	}
	if x, ok := child.GetOwn("x"); !ok || x != nil {
		t.Errorf("alpha.x = %v, %v; want nil, true", x, ok)
	}
}

func TestSaveOwnKeysOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	proto := objx.NewObject().Set("inherited", 1)
	subject := objx.Derive(proto).Set("own", 2)

	snap, err := s.Save(ctx, "derived", subject)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if snap.Entries != 1 {
		t.Errorf("Entries = %d, want 1", snap.Entries)
	}

	loaded, err := s.Load(ctx, "derived")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Has("inherited") {
		t.Error("inherited key was persisted")
	}
}

func TestSaveReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "cfg", objx.NewObject().Set("a", 1).Set("b", 2))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second, err := s.Save(ctx, "cfg", objx.NewObject().Set("c", 3))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("snapshot id changed on replace: %s -> %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on replace")
	}

	loaded, err := s.Load(ctx, "cfg")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]string{"c"}, objx.Keys(loaded)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, "empty", objx.NewObject()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := s.Load(ctx, "empty")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if objx.Count(loaded) != 0 {
		t.Errorf("Count() = %d, want 0", objx.Count(loaded))
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() on empty store = %d entries", len(list))
	}

	s.Save(ctx, "beta", objx.NewObject().Set("a", 1))
	s.Save(ctx, "alpha", objx.NewObject().Set("a", 1).Set("b", 2))

	list, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	type row struct {
		Name    string
		Entries int
	}
	var got []row
	for _, snap := range list {
		got = append(got, row{snap.Name, snap.Entries})
	}
	want := []row{{"alpha", 2}, {"beta", 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Save(ctx, "gone", objx.NewObject().Set("a", 1))

	if err := s.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Load(ctx, "gone"); !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("Load() after Delete error = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "gone"); !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("second Delete() error = %v, want NOT_FOUND", err)
	}
}

func TestInvalidNames(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, " ", objx.NewObject()); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("Save() error = %v, want INVALID_INPUT", err)
	}
	if _, err := s.Load(ctx, ""); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("Load() error = %v, want INVALID_INPUT", err)
	}
	if err := s.Delete(ctx, ""); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("Delete() error = %v, want INVALID_INPUT", err)
	}
}

func TestSaveUnencodableValue(t *testing.T) {
	s := newTestStore(t)

	subject := objx.NewObject().Set("ok", 1).Set("fn", func() {})
	_, err := s.Save(context.Background(), "bad", subject)
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Fatalf("Save() error = %v, want INVALID_INPUT", err)
	}
	if _, err := s.Load(context.Background(), "bad"); !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("failed Save() left a snapshot behind: %v", err)
	}
}
