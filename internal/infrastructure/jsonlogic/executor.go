package jsonlogic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jl "github.com/diegoholiveira/jsonlogic"
)

// Operator is a custom operation evaluated before standard JsonLogic.
// Arguments arrive with their {"var": ...} references already resolved.
type Operator func(args ...any) any

// Executor evaluates cart-line rules written in JsonLogic.
type Executor struct {
	customOps map[string]Operator
}

// libraryOperators lists what jsonlogic v2 evaluates. Anything else would be
// passed through as a truthy value.
var libraryOperators = []string{
	"==", "===", "!=", "!==", ">", ">=", "<", "<=", "!", "!!",
	"or", "and", "?:", "if", "in", "in_sorted", "cat", "substr", "merge",
	"%", "abs", "max", "min", "+", "-", "*", "/",
	"missing", "missing_some", "some", "filter", "map", "reduce", "all", "none", "set",
}

// iterators evaluate their later arguments against each element in turn.
var iterators = map[string]bool{
	"map": true, "filter": true, "reduce": true, "all": true, "none": true, "some": true,
}

func isLibraryOperator(name string) bool {
	for _, op := range libraryOperators {
		if op == name {
			return true
		}
	}
	return false
}

func NewExecutor() *Executor {
	e := &Executor{customOps: make(map[string]Operator)}
	e.RegisterCustomOperator("round", Round)
	e.RegisterCustomOperator("sum", Sum)
	e.RegisterCustomOperator("anyOf", AnyOf)
	return e
}

func (e *Executor) RegisterCustomOperator(name string, op Operator) {
	e.customOps[name] = op
}

// Execute applies rule to data and returns the raw result. Custom operators
// may appear anywhere outside an iteration scope; they are folded into
// literals before the rule reaches the JsonLogic library.
func (e *Executor) Execute(ctx context.Context, rule map[string]any, data map[string]any) (res any, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("evaluate rule: %v", r)
		}
	}()

	if len(rule) == 1 {
		for name, args := range rule {
			if op, ok := e.customOps[name]; ok {
				params, err := e.resolveArgs(ctx, args, data)
				if err != nil {
					return nil, err
				}
				return op(params...), nil
			}
		}
	}

	prepared, err := e.prepare(ctx, rule, data, "")
	if err != nil {
		return nil, err
	}

	ruleJSON, err := json.Marshal(prepared)
	if err != nil {
		return nil, fmt.Errorf("encode rule: %w", err)
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data: %w", err)
	}

	var out bytes.Buffer
	if err := jl.Apply(bytes.NewReader(ruleJSON), bytes.NewReader(dataJSON), &out); err != nil {
		return nil, fmt.Errorf("apply rule: %w", err)
	}

	s := strings.TrimSpace(out.String())
	if s == "" || s == "null" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil, fmt.Errorf("decode rule result: %w", err)
	}
	return res, nil
}

// prepare checks every operator in rule and evaluates nested custom
// operators. scope names the enclosing iteration operator, whose per-element
// data custom operators cannot see.
func (e *Executor) prepare(ctx context.Context, rule map[string]any, data map[string]any, scope string) (any, error) {
	if len(rule) == 0 {
		return rule, nil
	}
	if len(rule) > 1 {
		return nil, fmt.Errorf("rule object must hold exactly one operator, got %d", len(rule))
	}

	for name, args := range rule {
		if _, ok := e.customOps[name]; ok {
			if scope != "" {
				return nil, fmt.Errorf("operator %q cannot be used inside %q", name, scope)
			}
			res, err := e.Execute(ctx, rule, data)
			if err != nil {
				return nil, err
			}
			if _, isRule := res.(map[string]any); isRule {
				return nil, fmt.Errorf("operator %q returned an object", name)
			}
			return res, nil
		}
		if name == "var" {
			return rule, nil
		}
		if !isLibraryOperator(name) {
			return nil, fmt.Errorf("unknown operator %q", name)
		}

		list, isList := args.([]any)
		if !isList {
			sub, isRule := args.(map[string]any)
			if !isRule {
				return rule, nil
			}
			prepared, err := e.prepare(ctx, sub, data, scope)
			if err != nil {
				return nil, err
			}
			return map[string]any{name: prepared}, nil
		}

		out := make([]any, 0, len(list))
		for i, item := range list {
			sub, isRule := item.(map[string]any)
			if !isRule {
				out = append(out, item)
				continue
			}
			inner := scope
			if iterators[name] && i > 0 {
				inner = name
			}
			prepared, err := e.prepare(ctx, sub, data, inner)
			if err != nil {
				return nil, err
			}
			out = append(out, prepared)
		}
		return map[string]any{name: out}, nil
	}
	return rule, nil
}

// Evaluate applies rule to data and reports whether the result is truthy.
func (e *Executor) Evaluate(ctx context.Context, rule map[string]any, data map[string]any) (bool, error) {
	res, err := e.Execute(ctx, rule, data)
	if err != nil {
		return false, err
	}
	return Truthy(res), nil
}

func (e *Executor) resolveArgs(ctx context.Context, args any, data map[string]any) ([]any, error) {
	list, ok := args.([]any)
	if !ok {
		list = []any{args}
	}
	params := make([]any, 0, len(list))
	for _, item := range list {
		sub, isRule := item.(map[string]any)
		if !isRule {
			params = append(params, item)
			continue
		}
		if path, ok := sub["var"]; ok && len(sub) == 1 {
			params = append(params, resolveVar(path, data))
			continue
		}
		res, err := e.Execute(ctx, sub, data)
		if err != nil {
			return nil, err
		}
		params = append(params, res)
	}
	return params, nil
}

func resolveVar(path any, data map[string]any) any {
	p, ok := path.(string)
	if !ok {
		return nil
	}
	if p == "" {
		return data
	}

	var cur any = data
	for _, part := range strings.Split(p, ".") {
		switch v := cur.(type) {
		case map[string]any:
			cur = v[part]
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(v) {
				return nil
			}
			cur = v[i]
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Truthy follows JsonLogic truthiness.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	}
	return true
}
