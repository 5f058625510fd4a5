// Package predicate compiles expr-lang expressions into enumeration and
// selection callbacks for property maps.
//
// An expression sees the variables key, value and item, where item is the
// single-entry map of the current pair. For filtering, the result decides:
// nil aborts, true includes and anything else excludes. For enumeration a
// result of false stops, anything else continues.
package predicate

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/msto63/plankton/foundation/codec"
	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/is"
	"github.com/msto63/plankton/foundation/utils/objx"
)

// By selects which projection of an entry the callback receives
type By int

const (
	ByValue By = iota
	ByKey
	ByPair
	ByItem
)

// String returns the projection name
func (b By) String() string {
	switch b {
	case ByKey:
		return "key"
	case ByPair:
		return "pair"
	case ByItem:
		return "item"
	default:
		return "value"
	}
}

// ParseBy parses a projection name
func ParseBy(name string) (By, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "value", "":
		return ByValue, nil
	case "key":
		return ByKey, nil
	case "pair":
		return ByPair, nil
	case "item":
		return ByItem, nil
	default:
		return ByValue, mdwerror.Newf("unknown projection %q, want value, key, pair or item", name).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("predicate.ParseBy")
	}
}

// env is the expression environment. Value stays an interface so
// arithmetic on it type-checks at compile time.
type env struct {
	Key   string         `expr:"key"`
	Value any            `expr:"value"`
	Item  map[string]any `expr:"item"`
}

// Predicate is a compiled expression. It is safe for concurrent use.
type Predicate struct {
	source  string
	program *vm.Program
}

// Compile compiles source against the key, value and item variables
func Compile(source string) (*Predicate, error) {
	if strings.TrimSpace(source) == "" {
		return nil, mdwerror.New("expression is empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("predicate.Compile")
	}

	program, err := expr.Compile(source, options()...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to compile expression").
			WithCode(mdwerror.CodeExpressionError).
			WithOperation("predicate.Compile").
			WithDetail("expr", source)
	}
	return &Predicate{source: source, program: program}, nil
}

// Source returns the expression text
func (p *Predicate) Source() string {
	return p.source
}

// Eval runs the expression for one entry. Nested objects are exposed to the
// expression as maps.
func (p *Predicate) Eval(key string, value any) (any, error) {
	native := codec.ToNative(value)
	out, err := expr.Run(p.program, env{
		Key:   key,
		Value: native,
		Item:  map[string]any{key: native},
	})
	if err != nil {
		return nil, mdwerror.Wrap(err, "expression failed").
			WithCode(mdwerror.CodeExpressionError).
			WithOperation("predicate.Eval").
			WithDetail("expr", p.source).
			WithDetail("key", key)
	}
	return out, nil
}

// Decide maps an expression result onto a filter decision
func Decide(result any) objx.Decision {
	if is.Null(result) {
		return objx.Abort
	}
	if b, ok := result.(bool); ok && b {
		return objx.Include
	}
	return objx.Exclude
}

// StepOf maps an expression result onto an enumeration step
func StepOf(result any) objx.Step {
	if b, ok := result.(bool); ok && !b {
		return objx.Stop
	}
	return objx.Continue
}

// Filter selects entries of subject with the callback shape given by by.
// An evaluation error aborts the selection and is returned with the entries
// included so far.
func (p *Predicate) Filter(subject *objx.Object, by By) (*objx.Object, error) {
	var evalErr error
	decide := func(key string, value any) objx.Decision {
		out, err := p.Eval(key, value)
		if err != nil {
			evalErr = err
			return objx.Abort
		}
		return Decide(out)
	}

	var result *objx.Object
	switch by {
	case ByKey:
		result = objx.FilterKey(subject, func(key string) objx.Decision {
			return decide(key, nil)
		})
	case ByPair:
		result = objx.FilterPair(subject, decide)
	case ByItem:
		result = objx.FilterItem(subject, func(item *objx.Object) objx.Decision {
			key, value := single(item)
			return decide(key, value)
		})
	default:
		result = objx.FilterValue(subject, func(value any) objx.Decision {
			return decide("", value)
		})
	}
	return result, evalErr
}

// Each visits entries of subject until the expression yields false. visit
// runs for every entry the expression was evaluated on, including the one
// that stopped the enumeration.
func (p *Predicate) Each(subject *objx.Object, by By, visit func(key string, value any)) error {
	var evalErr error
	step := func(key string, value any) objx.Step {
		out, err := p.Eval(key, value)
		if err != nil {
			evalErr = err
			return objx.Stop
		}
		if visit != nil {
			visit(key, value)
		}
		return StepOf(out)
	}

	switch by {
	case ByKey:
		objx.ForEachKey(subject, func(key string) objx.Step {
			return step(key, nil)
		})
	case ByPair:
		objx.ForEachPair(subject, step)
	case ByItem:
		objx.ForEachItem(subject, func(item *objx.Object) objx.Step {
			key, value := single(item)
			return step(key, value)
		})
	default:
		objx.ForEach(subject, func(value any) objx.Step {
			return step("", value)
		})
	}
	return evalErr
}

func single(item *objx.Object) (string, any) {
	key, _ := objx.AnyKey(item)
	value, _ := item.GetOwn(key)
	return key, value
}

func options() []expr.Option {
	return []expr.Option{
		expr.Env(env{}),
		expr.Function("defined", func(params ...any) (any, error) {
			return is.Defined(params[0]), nil
		}, new(func(any) bool)),
		expr.Function("isString", func(params ...any) (any, error) {
			return is.String(params[0]), nil
		}, new(func(any) bool)),
		expr.Function("isNumber", func(params ...any) (any, error) {
			return is.Number(params[0]), nil
		}, new(func(any) bool)),
		expr.Function("isBool", func(params ...any) (any, error) {
			return is.Bool(params[0]), nil
		}, new(func(any) bool)),
	}
}
