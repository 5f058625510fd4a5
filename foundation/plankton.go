// File: plankton.go
// Title: Plankton Namespace Wiring
// Description: Builds the Plankton namespace with the is predicates seeded
//              into the root container and the obj combinators registered
//              on top of them.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package foundation

import (
	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/namespace"
	"github.com/msto63/plankton/foundation/utils/is"
	"github.com/msto63/plankton/foundation/utils/objx"
)

// Plankton returns a namespace holding Plankton.is and Plankton.obj. The obj
// node maps each combinator name to its Object instantiation, for example
// Plankton.obj.Keys is a func(*objx.Object) []string.
func Plankton() (*namespace.Namespace, error) {
	container := objx.NewObject().
		Set("Plankton", objx.NewObject().Set("is", isExports()))

	ns := namespace.New(container)
	if err := ns.Define("Plankton", defineObj); err != nil {
		return nil, err
	}
	return ns, nil
}

func defineObj(root, self *objx.Object) error {
	plankton, _ := root.GetOwn("Plankton")
	node, ok := plankton.(*objx.Object)
	if !ok || !node.HasOwn("is") {
		return mdwerror.New("Plankton.is must be defined before Plankton.obj").
			WithCode(mdwerror.CodeNotFound)
	}

	self.Set("obj", objExports())
	return nil
}

func isExports() *objx.Object {
	return objx.NewObject().
		Set("Is", is.Is).
		Set("Defined", is.Defined).
		Set("Null", is.Null).
		Set("String", is.String).
		Set("Bool", is.Bool).
		Set("Number", is.Number).
		Set("Object", objx.IsObject).
		Set("Undefined", is.Undefined)
}

func objExports() *objx.Object {
	return objx.NewObject().
		Set("Copy", objx.Copy[any]).
		Set("Mix", objx.Mix[any]).
		Set("Merge", objx.Merge[any]).
		Set("Combine", objx.Combine[any]).
		Set("Any", objx.Any[any]).
		Set("AnyValue", objx.AnyValue[any]).
		Set("AnyKey", objx.AnyKey[any]).
		Set("AnyItem", objx.AnyItem[any]).
		Set("ForEach", objx.ForEach[any]).
		Set("ForEachValue", objx.ForEachValue[any]).
		Set("ForEachKey", objx.ForEachKey[any]).
		Set("ForEachPair", objx.ForEachPair[any]).
		Set("ForEachItem", objx.ForEachItem[any]).
		Set("Filter", objx.Filter[any]).
		Set("FilterValue", objx.FilterValue[any]).
		Set("FilterKey", objx.FilterKey[any]).
		Set("FilterPair", objx.FilterPair[any]).
		Set("FilterItem", objx.FilterItem[any]).
		Set("Keys", objx.Keys[any]).
		Set("Values", objx.Values[any]).
		Set("Count", objx.Count[any])
}
