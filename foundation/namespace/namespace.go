// File: namespace.go
// Title: Hierarchical Namespace Registration
// Description: Implements a registry of dotted namespace paths backed by
//              ordered property maps. Definitions receive the root context and
//              publish their exports on the node for their path.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Definitions read a snapshot of the tree

package namespace

import (
	"strings"
	"sync"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/core/log"
	"github.com/msto63/plankton/foundation/utils/objx"
)

// DefineFunc publishes exports by setting keys on self. root is a snapshot
// of the namespace tree taken when the definition starts; writes to it are
// not published.
type DefineFunc func(root, self *objx.Object) error

// CreatorFunc is the signature of Define, handed to modules that register
// themselves without holding the Namespace.
type CreatorFunc func(name string, fn DefineFunc) error

// Namespace resolves and creates dotted paths below a root container
type Namespace struct {
	root   *objx.Object
	logger *log.Logger
	mu     sync.RWMutex
}

// New creates a namespace over container. A nil container starts empty.
// The container is used in place, so values seeded into it are visible to
// every later definition.
func New(container *objx.Object) *Namespace {
	if container == nil {
		container = objx.NewObject()
	}
	return &Namespace{
		root:   container,
		logger: log.GetDefault().WithName("namespace"),
	}
}

// WithLogger replaces the namespace logger and returns the namespace
func (n *Namespace) WithLogger(logger *log.Logger) *Namespace {
	if logger != nil {
		n.logger = logger.WithName("namespace")
	}
	return n
}

// Root returns the root container
func (n *Namespace) Root() *objx.Object {
	return n.root
}

// Creator returns Define as a plain function value
func (n *Namespace) Creator() CreatorFunc {
	return n.Define
}

// Define creates the nodes along name, runs fn against a staging object and
// copies its exports onto the node. Nothing is published when fn fails or
// when an export would replace a key the node already owns.
func (n *Namespace) Define(name string, fn DefineFunc) error {
	const op = "namespace.Define"

	segments, err := splitPath(name)
	if err != nil {
		return err.WithOperation(op)
	}
	if fn == nil {
		return mdwerror.New("definition function is nil").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(op).
			WithDetail("name", name)
	}

	n.mu.Lock()
	node, err := n.ensure(segments)
	var root *objx.Object
	if err == nil {
		root = snapshot(n.root)
	}
	n.mu.Unlock()
	if err != nil {
		return err.WithOperation(op)
	}

	// fn runs unlocked so it may call Resolve or Define
	staged := objx.NewObject()
	if fnErr := fn(root, staged); fnErr != nil {
		wrapped := mdwerror.Wrap(fnErr, "definition of "+name+" failed").
			WithOperation(op).
			WithDetail("name", name)
		if wrapped.Code() == mdwerror.CodeUnknown {
			wrapped = wrapped.WithCode(mdwerror.CodeServiceInitialization)
		}
		return wrapped
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	var dup string
	objx.ForEachKey(staged, func(key string) objx.Step {
		if node.HasOwn(key) {
			dup = key
			return objx.Stop
		}
		return objx.Continue
	})
	if dup != "" {
		return mdwerror.Newf("%s.%s is already defined", name, dup).
			WithCode(mdwerror.CodeDuplicateEntry).
			WithOperation(op).
			WithDetail("name", name).
			WithDetail("key", dup)
	}

	objx.Mix(node, staged)

	n.logger.Debug("namespace defined", log.Fields{
		"name":    name,
		"exports": objx.Keys(staged),
	})
	return nil
}

// snapshot copies the object nodes below node. Other values are shared.
func snapshot(node *objx.Object) *objx.Object {
	out := objx.NewWithCapacity[any](objx.Count(node))
	objx.ForEachPair(node, func(key string, value any) objx.Step {
		if child, ok := value.(*objx.Object); ok && child != nil {
			value = snapshot(child)
		}
		out.Set(key, value)
		return objx.Continue
	})
	return out
}

// Resolve returns the value at the dotted path
func (n *Namespace) Resolve(path string) (any, error) {
	const op = "namespace.Resolve"

	segments, err := splitPath(path)
	if err != nil {
		return nil, err.WithOperation(op)
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	var current any = n.root
	for i, seg := range segments {
		node, ok := current.(*objx.Object)
		if !ok {
			return nil, mdwerror.Newf("%s is not a namespace", strings.Join(segments[:i], ".")).
				WithCode(mdwerror.CodeInvalidOperation).
				WithOperation(op).
				WithDetail("path", path)
		}
		value, ok := node.GetOwn(seg)
		if !ok {
			return nil, mdwerror.Newf("%s is not defined", strings.Join(segments[:i+1], ".")).
				WithCode(mdwerror.CodeNotFound).
				WithOperation(op).
				WithDetail("path", path).
				WithDetail("segment", seg)
		}
		current = value
	}
	return current, nil
}

// ensure walks segments below root, creating missing nodes. Caller holds mu.
func (n *Namespace) ensure(segments []string) (*objx.Object, *mdwerror.Error) {
	node := n.root
	for i, seg := range segments {
		value, ok := node.GetOwn(seg)
		if !ok {
			child := objx.NewObject()
			node.Set(seg, child)
			node = child
			continue
		}
		child, isNode := value.(*objx.Object)
		if !isNode {
			return nil, mdwerror.Newf("%s is a value, not a namespace", strings.Join(segments[:i+1], ".")).
				WithCode(mdwerror.CodeInvalidOperation).
				WithDetail("segment", seg)
		}
		node = child
	}
	return node, nil
}

func splitPath(path string) ([]string, *mdwerror.Error) {
	if strings.TrimSpace(path) == "" {
		return nil, mdwerror.New("namespace path is empty").WithCode(mdwerror.CodeInvalidInput)
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, mdwerror.Newf("namespace path %q has an empty segment", path).
				WithCode(mdwerror.CodeInvalidInput).
				WithDetail("path", path)
		}
	}
	return segments, nil
}
