package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalItem serializes an item as a tagged envelope: a single-key JSON
// object whose key is the variant tag and whose value is the payload,
// e.g. {"ident":"a"} or {"terms":[{"ident":"a"},{"raw":"+"}]}.
//
// The envelope is explicit about variants (never positional) so that
// trees survive persistence and cross-process transport without loss.
// UnmarshalItem reverses it exactly.
func MarshalItem(item Item) ([]byte, error) {
	if item == nil {
		return nil, fmt.Errorf("cannot marshal nil item")
	}
	payload, err := marshalPayload(item)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", item.Tag(), err)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeJSONString(&buf, item.Tag())
	buf.WriteByte(':')
	buf.Write(payload)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Render returns a compact, deterministic textual rendering of an item
// for diagnostics. It is the tagged envelope form.
func Render(item Item) string {
	if item == nil {
		return "<nil>"
	}
	data, err := MarshalItem(item)
	if err != nil {
		return item.Tag()
	}
	return string(data)
}

// marshalPayload serializes the variant payload without its envelope.
// Uses type-switch dispatch to handle all Item types.
func marshalPayload(item Item) ([]byte, error) {
	switch v := item.(type) {
	case Ident:
		return json.Marshal(string(v))
	case String:
		return json.Marshal(string(v))
	case Raw:
		return json.Marshal(string(v))
	case Todo:
		return json.Marshal(string(v))
	case From:
		return json.Marshal(string(v))
	case Take:
		return json.Marshal(int64(v))
	case Query:
		return marshalItemSlice([]Item(v))
	case Terms:
		return marshalItemSlice([]Item(v))
	case Items:
		return marshalItemSlice([]Item(v))
	case Select:
		return marshalItemSlice([]Item(v))
	case Filter:
		return marshalItemSlice([]Item(v))
	case Sort:
		return marshalItemSlice([]Item(v))
	case Join:
		return marshalItemSlice([]Item(v))
	case Idents:
		return marshalIdentSlice([]Ident(v))
	case Pipeline:
		return marshalPipeline(v)
	case List:
		return marshalList(v)
	case Assign:
		return marshalAssign(v)
	case NamedArg:
		return marshalNamedArg(v)
	case Derive:
		return marshalAssignSlice([]Assign(v))
	case Aggregate:
		return marshalAggregate(v)
	case Function:
		return marshalFunction(v)
	case Table:
		return marshalTable(v)
	case SString:
		return marshalSString(v)
	case FuncCall:
		return marshalFuncCall(v)
	default:
		return nil, fmt.Errorf("unknown item type: %T", item)
	}
}

func marshalItemSlice(items []Item) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := MarshalItem(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalIdentSlice(idents []Ident) ([]byte, error) {
	strs := make([]string, len(idents))
	for i, id := range idents {
		strs[i] = string(id)
	}
	return json.Marshal(strs)
}

func marshalPipeline(p Pipeline) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, t := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := MarshalItem(t)
		if err != nil {
			return nil, fmt.Errorf("stage[%d]: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalList(l List) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, li := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := marshalItemSlice([]Item(li))
		if err != nil {
			return nil, fmt.Errorf("element[%d]: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalAssign(a Assign) ([]byte, error) {
	rvalue, err := MarshalItem(a.RValue)
	if err != nil {
		return nil, fmt.Errorf("rvalue: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(`{"lvalue":`)
	writeJSONString(&buf, string(a.LValue))
	buf.WriteString(`,"rvalue":`)
	buf.Write(rvalue)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalAssignSlice(assigns []Assign) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, a := range assigns {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := marshalAssign(a)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalNamedArg(na NamedArg) ([]byte, error) {
	arg, err := MarshalItem(na.Arg)
	if err != nil {
		return nil, fmt.Errorf("arg: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	writeJSONString(&buf, string(na.Name))
	buf.WriteString(`,"arg":`)
	buf.Write(arg)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNamedArgSlice(args []NamedArg) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, na := range args {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := marshalNamedArg(na)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalAggregate(a Aggregate) ([]byte, error) {
	by, err := marshalItemSlice(a.By)
	if err != nil {
		return nil, fmt.Errorf("by: %w", err)
	}
	calcs, err := marshalItemSlice(a.Calcs)
	if err != nil {
		return nil, fmt.Errorf("calcs: %w", err)
	}
	assigns, err := marshalAssignSlice(a.Assigns)
	if err != nil {
		return nil, fmt.Errorf("assigns: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(`{"by":`)
	buf.Write(by)
	buf.WriteString(`,"calcs":`)
	buf.Write(calcs)
	buf.WriteString(`,"assigns":`)
	buf.Write(assigns)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalFunction(f Function) ([]byte, error) {
	args, err := marshalIdentSlice(f.Args)
	if err != nil {
		return nil, fmt.Errorf("args: %w", err)
	}
	body, err := marshalItemSlice(f.Body)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	writeJSONString(&buf, string(f.Name))
	buf.WriteString(`,"args":`)
	buf.Write(args)
	buf.WriteString(`,"body":`)
	buf.Write(body)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalTable(t Table) ([]byte, error) {
	pipeline, err := marshalPipeline(t.Pipeline)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	writeJSONString(&buf, string(t.Name))
	buf.WriteString(`,"pipeline":`)
	buf.Write(pipeline)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalSString(s SString) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, frag := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		switch f := frag.(type) {
		case SStringText:
			buf.WriteString(`{"string":`)
			writeJSONString(&buf, string(f))
			buf.WriteByte('}')
		case SStringExpr:
			expr, err := MarshalItem(f.Expr)
			if err != nil {
				return nil, fmt.Errorf("fragment[%d]: %w", i, err)
			}
			buf.WriteString(`{"expr":`)
			buf.Write(expr)
			buf.WriteByte('}')
		default:
			return nil, fmt.Errorf("fragment[%d]: unknown fragment type %T", i, frag)
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalFuncCall(fc FuncCall) ([]byte, error) {
	args, err := marshalItemSlice(fc.Args)
	if err != nil {
		return nil, fmt.Errorf("args: %w", err)
	}
	named, err := marshalNamedArgSlice(fc.NamedArgs)
	if err != nil {
		return nil, fmt.Errorf("named_args: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	writeJSONString(&buf, fc.Name)
	buf.WriteString(`,"args":`)
	buf.Write(args)
	buf.WriteString(`,"named_args":`)
	buf.Write(named)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSONString writes a JSON-quoted string to buf.
func writeJSONString(buf *bytes.Buffer, s string) {
	data, err := json.Marshal(s)
	if err != nil {
		// json.Marshal of a string cannot fail; keep the envelope valid.
		buf.WriteString(`""`)
		return
	}
	buf.Write(data)
}
