// File: namespace_test.go
// Title: Namespace Tests
// Description: Tests for definition, resolution, duplicate detection and
//              root context injection.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package namespace

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
)

func TestDefineAndResolve(t *testing.T) {
	ns := New(nil)

	err := ns.Define("App.util", func(root, self *objx.Object) error {
		self.Set("answer", 42)
		return nil
	})
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}

	got, err := ns.Resolve("App.util.answer")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Resolve() = %v, want 42", got)
	}

	node, err := ns.Resolve("App.util")
	if err != nil {
		t.Fatalf("Resolve(App.util) error = %v", err)
	}
	if !objx.IsObject(node) {
		t.Errorf("Resolve(App.util) = %T, want *objx.Object", node)
	}
}

func TestDefineSeesRootContext(t *testing.T) {
	container := objx.NewObject().Set("App", objx.NewObject().Set("greeting", "hi"))
	ns := New(container)

	var seen any
	err := ns.Creator()("App", func(root, self *objx.Object) error {
		app, _ := root.GetOwn("App")
		seen, _ = app.(*objx.Object).GetOwn("greeting")
		self.Set("loud", "HI")
		return nil
	})
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	if seen != "hi" {
		t.Errorf("definition saw %v, want hi", seen)
	}

	// Existing exports on the node are kept next to new ones
	app, _ := ns.Resolve("App")
	if keys := objx.Keys(app.(*objx.Object)); len(keys) != 2 || keys[0] != "greeting" || keys[1] != "loud" {
		t.Errorf("App keys = %v, want [greeting loud]", keys)
	}
}

func TestDefineRejectsDuplicates(t *testing.T) {
	ns := New(nil)
	define := func(root, self *objx.Object) error {
		self.Set("obj", 1)
		return nil
	}

	if err := ns.Define("Plankton", define); err != nil {
		t.Fatalf("first Define() error = %v", err)
	}
	err := ns.Define("Plankton", define)
	if !mdwerror.HasCode(err, mdwerror.CodeDuplicateEntry) {
		t.Fatalf("second Define() error = %v, want DUPLICATE_ENTRY", err)
	}
}

func TestDefineFailurePublishesNothing(t *testing.T) {
	ns := New(nil)
	boom := errors.New("boom")

	err := ns.Define("App", func(root, self *objx.Object) error {
		self.Set("half", true)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Define() error = %v, want wrapped boom", err)
	}
	if !mdwerror.HasCode(err, mdwerror.CodeServiceInitialization) {
		t.Errorf("code = %v, want SERVICE_INITIALIZATION", mdwerror.GetCode(err))
	}
	if _, err := ns.Resolve("App.half"); !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("Resolve(App.half) error = %v, want NOT_FOUND", err)
	}
}

func TestDefineReceivesRootSnapshot(t *testing.T) {
	ns := New(objx.NewObject().Set("seed", 1))

	err := ns.Define("App", func(root, self *objx.Object) error {
		if v, _ := root.GetOwn("seed"); v != 1 {
			t.Errorf("root seed = %v, want 1", v)
		}
		root.Set("scratch", true)
		self.Set("ready", true)
		return nil
	})
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	if _, ok := ns.Root().GetOwn("scratch"); ok {
		t.Error("write to root inside a definition leaked into the namespace")
	}
	if _, err := ns.Resolve("App.ready"); err != nil {
		t.Errorf("Resolve(App.ready) error = %v", err)
	}
}

func TestConcurrentDefinitions(t *testing.T) {
	ns := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("Pkg%d.Mod", i)
			err := ns.Define(path, func(root, self *objx.Object) error {
				objx.ForEachKey(root, func(string) objx.Step { return objx.Continue })
				self.Set("id", i)
				return nil
			})
			if err != nil {
				t.Errorf("Define(%s) error = %v", path, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		v, err := ns.Resolve(fmt.Sprintf("Pkg%d.Mod.id", i))
		if err != nil || v != i {
			t.Errorf("Pkg%d.Mod.id = %v, %v", i, v, err)
		}
	}
}

func TestInvalidPaths(t *testing.T) {
	ns := New(objx.NewObject().Set("leaf", 1))
	noop := func(root, self *objx.Object) error { return nil }

	tests := []struct {
		name string
		path string
		code mdwerror.Code
	}{
		{"empty", "", mdwerror.CodeInvalidInput},
		{"empty segment", "a..b", mdwerror.CodeInvalidInput},
		{"through a value", "leaf.x", mdwerror.CodeInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ns.Define(tt.path, noop); !mdwerror.HasCode(err, tt.code) {
				t.Errorf("Define(%q) error = %v, want %s", tt.path, err, tt.code)
			}
		})
	}

	if err := ns.Define("App", nil); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("Define with nil fn error = %v", err)
	}
	if _, err := ns.Resolve("leaf.x"); !mdwerror.HasCode(err, mdwerror.CodeInvalidOperation) {
		t.Errorf("Resolve(leaf.x) error = %v", err)
	}
}
