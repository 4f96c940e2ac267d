package ast

import (
	"encoding/json"
	"fmt"
)

// UnmarshalItem deserializes a tagged envelope produced by MarshalItem
// back into an equal tree. Unknown tags and malformed envelopes are
// errors; the round trip is exact.
func UnmarshalItem(data []byte) (Item, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}
	if len(env) != 1 {
		return nil, fmt.Errorf("envelope must hold exactly one variant key, got %d", len(env))
	}
	for tag, payload := range env {
		return unmarshalPayload(tag, payload)
	}
	return nil, fmt.Errorf("empty envelope")
}

// unmarshalPayload decodes a variant payload by tag.
func unmarshalPayload(tag string, payload json.RawMessage) (Item, error) {
	switch tag {
	case "ident":
		s, err := unmarshalString(payload)
		return Ident(s), err
	case "string":
		s, err := unmarshalString(payload)
		return String(s), err
	case "raw":
		s, err := unmarshalString(payload)
		return Raw(s), err
	case "todo":
		s, err := unmarshalString(payload)
		return Todo(s), err
	case "from":
		s, err := unmarshalString(payload)
		return From(s), err
	case "take":
		var n int64
		if err := json.Unmarshal(payload, &n); err != nil {
			return nil, fmt.Errorf("take: %w", err)
		}
		return Take(n), nil
	case "query":
		items, err := unmarshalItemSlice(payload)
		return Query(items), err
	case "terms":
		items, err := unmarshalItemSlice(payload)
		return Terms(items), err
	case "items":
		items, err := unmarshalItemSlice(payload)
		return Items(items), err
	case "select":
		items, err := unmarshalItemSlice(payload)
		return Select(items), err
	case "filter":
		items, err := unmarshalItemSlice(payload)
		return Filter(items), err
	case "sort":
		items, err := unmarshalItemSlice(payload)
		return Sort(items), err
	case "join":
		items, err := unmarshalItemSlice(payload)
		return Join(items), err
	case "idents":
		var strs []string
		if err := json.Unmarshal(payload, &strs); err != nil {
			return nil, fmt.Errorf("idents: %w", err)
		}
		if len(strs) == 0 {
			return Idents(nil), nil
		}
		idents := make(Idents, len(strs))
		for i, s := range strs {
			idents[i] = Ident(s)
		}
		return idents, nil
	case "pipeline":
		p, err := unmarshalPipeline(payload)
		return p, err
	case "list":
		var raw []json.RawMessage
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		if len(raw) == 0 {
			return List(nil), nil
		}
		list := make(List, len(raw))
		for i, elem := range raw {
			items, err := unmarshalItemSlice(elem)
			if err != nil {
				return nil, fmt.Errorf("list element[%d]: %w", i, err)
			}
			list[i] = ListItem(items)
		}
		return list, nil
	case "assign":
		return unmarshalAssign(payload)
	case "named_arg":
		return unmarshalNamedArg(payload)
	case "derive":
		assigns, err := unmarshalAssignSlice(payload)
		return Derive(assigns), err
	case "aggregate":
		return unmarshalAggregate(payload)
	case "function":
		return unmarshalFunction(payload)
	case "table":
		return unmarshalTable(payload)
	case "s_string":
		return unmarshalSString(payload)
	case "func_call":
		return unmarshalFuncCall(payload)
	default:
		return nil, fmt.Errorf("unknown variant tag %q", tag)
	}
}

func unmarshalString(payload json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(payload, &s); err != nil {
		return "", fmt.Errorf("string payload: %w", err)
	}
	return s, nil
}

func unmarshalItemSlice(payload json.RawMessage) ([]Item, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		// Empty sequences normalize to nil so round trips are exact.
		return nil, nil
	}
	items := make([]Item, len(raw))
	for i, elem := range raw {
		item, err := UnmarshalItem(elem)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		items[i] = item
	}
	return items, nil
}

func unmarshalPipeline(payload json.RawMessage) (Pipeline, error) {
	items, err := unmarshalItemSlice(payload)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	p := make(Pipeline, len(items))
	for i, item := range items {
		t, ok := item.(Transformation)
		if !ok {
			return nil, fmt.Errorf("pipeline stage[%d]: %s is not a transformation", i, item.Tag())
		}
		p[i] = t
	}
	return p, nil
}

func unmarshalAssign(payload json.RawMessage) (Assign, error) {
	var raw struct {
		LValue string          `json:"lvalue"`
		RValue json.RawMessage `json:"rvalue"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Assign{}, fmt.Errorf("assign: %w", err)
	}
	rvalue, err := UnmarshalItem(raw.RValue)
	if err != nil {
		return Assign{}, fmt.Errorf("assign rvalue: %w", err)
	}
	return Assign{LValue: Ident(raw.LValue), RValue: rvalue}, nil
}

func unmarshalAssignSlice(payload json.RawMessage) ([]Assign, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	assigns := make([]Assign, len(raw))
	for i, elem := range raw {
		a, err := unmarshalAssign(elem)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		assigns[i] = a
	}
	return assigns, nil
}

func unmarshalNamedArg(payload json.RawMessage) (NamedArg, error) {
	var raw struct {
		Name string          `json:"name"`
		Arg  json.RawMessage `json:"arg"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return NamedArg{}, fmt.Errorf("named_arg: %w", err)
	}
	arg, err := UnmarshalItem(raw.Arg)
	if err != nil {
		return NamedArg{}, fmt.Errorf("named_arg arg: %w", err)
	}
	return NamedArg{Name: Ident(raw.Name), Arg: arg}, nil
}

func unmarshalAggregate(payload json.RawMessage) (Aggregate, error) {
	var raw struct {
		By      json.RawMessage `json:"by"`
		Calcs   json.RawMessage `json:"calcs"`
		Assigns json.RawMessage `json:"assigns"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Aggregate{}, fmt.Errorf("aggregate: %w", err)
	}
	by, err := unmarshalItemSlice(raw.By)
	if err != nil {
		return Aggregate{}, fmt.Errorf("aggregate by: %w", err)
	}
	calcs, err := unmarshalItemSlice(raw.Calcs)
	if err != nil {
		return Aggregate{}, fmt.Errorf("aggregate calcs: %w", err)
	}
	assigns, err := unmarshalAssignSlice(raw.Assigns)
	if err != nil {
		return Aggregate{}, fmt.Errorf("aggregate assigns: %w", err)
	}
	return Aggregate{By: by, Calcs: calcs, Assigns: assigns}, nil
}

func unmarshalFunction(payload json.RawMessage) (Function, error) {
	var raw struct {
		Name string          `json:"name"`
		Args []string        `json:"args"`
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Function{}, fmt.Errorf("function: %w", err)
	}
	body, err := unmarshalItemSlice(raw.Body)
	if err != nil {
		return Function{}, fmt.Errorf("function body: %w", err)
	}
	var args []Ident
	if len(raw.Args) > 0 {
		args = make([]Ident, len(raw.Args))
		for i, a := range raw.Args {
			args[i] = Ident(a)
		}
	}
	return Function{Name: Ident(raw.Name), Args: args, Body: body}, nil
}

func unmarshalTable(payload json.RawMessage) (Table, error) {
	var raw struct {
		Name     string          `json:"name"`
		Pipeline json.RawMessage `json:"pipeline"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Table{}, fmt.Errorf("table: %w", err)
	}
	pipeline, err := unmarshalPipeline(raw.Pipeline)
	if err != nil {
		return Table{}, fmt.Errorf("table: %w", err)
	}
	return Table{Name: Ident(raw.Name), Pipeline: pipeline}, nil
}

func unmarshalSString(payload json.RawMessage) (SString, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("s_string: %w", err)
	}
	if len(raw) == 0 {
		return SString(nil), nil
	}
	s := make(SString, len(raw))
	for i, frag := range raw {
		if len(frag) != 1 {
			return nil, fmt.Errorf("s_string fragment[%d]: envelope must hold exactly one key", i)
		}
		for tag, inner := range frag {
			switch tag {
			case "string":
				text, err := unmarshalString(inner)
				if err != nil {
					return nil, fmt.Errorf("s_string fragment[%d]: %w", i, err)
				}
				s[i] = SStringText(text)
			case "expr":
				expr, err := UnmarshalItem(inner)
				if err != nil {
					return nil, fmt.Errorf("s_string fragment[%d]: %w", i, err)
				}
				s[i] = SStringExpr{Expr: expr}
			default:
				return nil, fmt.Errorf("s_string fragment[%d]: unknown tag %q", i, tag)
			}
		}
	}
	return s, nil
}

func unmarshalFuncCall(payload json.RawMessage) (FuncCall, error) {
	var raw struct {
		Name      string          `json:"name"`
		Args      json.RawMessage `json:"args"`
		NamedArgs json.RawMessage `json:"named_args"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return FuncCall{}, fmt.Errorf("func_call: %w", err)
	}
	args, err := unmarshalItemSlice(raw.Args)
	if err != nil {
		return FuncCall{}, fmt.Errorf("func_call args: %w", err)
	}
	var named []NamedArg
	if len(raw.NamedArgs) > 0 {
		named, err = unmarshalNamedArgSlice(raw.NamedArgs)
		if err != nil {
			return FuncCall{}, fmt.Errorf("func_call named_args: %w", err)
		}
	}
	return FuncCall{Name: raw.Name, Args: args, NamedArgs: named}, nil
}

func unmarshalNamedArgSlice(payload json.RawMessage) ([]NamedArg, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	args := make([]NamedArg, len(raw))
	for i, elem := range raw {
		na, err := unmarshalNamedArg(elem)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		args[i] = na
	}
	return args, nil
}
