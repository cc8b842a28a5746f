package value

import (
	"fmt"
	"strings"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/errs"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
)

// ApplyPipeline runs a value item's function pipeline left-to-right
// against item, resolving each function's arguments against scope first.
// Every function returns a freshly allocated item; item itself is never
// mutated.
func ApplyPipeline(item *ir.DataItem, calls []ir.FunctionCall, scope Scope, tmpl TemplateEngine) (*ir.DataItem, error) {
	current := item
	for _, call := range calls {
		args := make([]*ir.DataItem, len(call.Args))
		for i, argVI := range call.Args {
			resolved, err := FillValueItem(argVI.Clone(), scope, tmpl)
			if err != nil {
				return nil, err
			}
			args[i] = resolved.Item
		}

		next, err := applyFunction(call.Name, current, args)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func functionError(name, reason string) error {
	return errs.New(errs.ErrFunction, fmt.Sprintf("%s: %s", name, reason))
}

func applyFunction(name string, input *ir.DataItem, args []*ir.DataItem) (*ir.DataItem, error) {
	switch name {
	case "get":
		return fnGet(input, args)
	case "split":
		return fnSplit(input, args)
	case "contains":
		return fnContains(input, args)
	case "size":
		return ir.NewInt(int64(input.Size())), nil
	case "insert":
		return fnInsert(input, args)
	case "append":
		return fnAppend(input, args)
	case "clear_empty":
		return fnClearEmpty(input)
	case "parse_json":
		return fnParseJSON(input)
	default:
		return nil, functionError(name, "unknown function")
	}
}

func fnGet(input *ir.DataItem, args []*ir.DataItem) (*ir.DataItem, error) {
	if len(args) != 1 {
		return nil, functionError("get", "expects exactly one argument")
	}
	switch input.Kind {
	case ir.KindMap:
		m, _ := input.Map()
		key, ok := args[0].StringVal()
		if !ok {
			return nil, functionError("get", "key must be a string")
		}
		v, ok := m.Get(key)
		if !ok {
			return nil, functionError("get", fmt.Sprintf("missing key %q", key))
		}
		return v.Clone(), nil
	case ir.KindArray:
		arr, _ := input.Array()
		idx, ok := args[0].Int()
		if !ok {
			return nil, functionError("get", "index must be an int")
		}
		if idx < 0 || int(idx) >= len(arr) {
			return nil, functionError("get", fmt.Sprintf("index %d out of bounds (len %d)", idx, len(arr)))
		}
		return arr[idx].Clone(), nil
	default:
		return nil, functionError("get", "invalid input type "+input.Kind.String())
	}
}

func fnSplit(input *ir.DataItem, args []*ir.DataItem) (*ir.DataItem, error) {
	if len(args) != 1 {
		return nil, functionError("split", "expects exactly one argument")
	}
	str, ok := input.StringVal()
	if !ok {
		return nil, functionError("split", "invalid input type "+input.Kind.String())
	}
	delimArg, ok := args[0].StringVal()
	if !ok || delimArg == "" {
		return nil, functionError("split", "empty delimiter")
	}

	delim := delimArg
	if delim == `\n` {
		delim = "\n"
	} else {
		delim = string([]rune(delim)[0])
	}

	parts := strings.Split(str, delim)
	items := make([]*ir.DataItem, len(parts))
	for i, p := range parts {
		items[i] = ir.NewString(p)
	}
	return ir.NewArray(items...), nil
}

func fnContains(input *ir.DataItem, args []*ir.DataItem) (*ir.DataItem, error) {
	if len(args) != 1 {
		return nil, functionError("contains", "expects exactly one argument")
	}
	switch input.Kind {
	case ir.KindMap:
		m, _ := input.Map()
		key, ok := args[0].StringVal()
		if !ok {
			return nil, functionError("contains", "key must be a string")
		}
		return ir.NewBool(m.Has(key)), nil
	case ir.KindArray:
		arr, _ := input.Array()
		target := args[0].Stringify()
		for _, e := range arr {
			if e.Stringify() == target {
				return ir.NewBool(true), nil
			}
		}
		return ir.NewBool(false), nil
	case ir.KindString:
		s, _ := input.StringVal()
		sub, ok := args[0].StringVal()
		if !ok {
			return nil, functionError("contains", "substring argument must be a string")
		}
		return ir.NewBool(strings.Contains(s, sub)), nil
	default:
		return nil, functionError("contains", "invalid input type "+input.Kind.String())
	}
}

func fnInsert(input *ir.DataItem, args []*ir.DataItem) (*ir.DataItem, error) {
	if len(args) != 2 {
		return nil, functionError("insert", "expects exactly two arguments")
	}
	if input.Kind != ir.KindMap {
		return nil, functionError("insert", "invalid input type "+input.Kind.String())
	}
	key, ok := args[0].StringVal()
	if !ok {
		return nil, functionError("insert", "key must be a string")
	}
	out := input.Clone()
	out.MapSet(key, args[1].Clone())
	return out, nil
}

func fnAppend(input *ir.DataItem, args []*ir.DataItem) (*ir.DataItem, error) {
	if len(args) != 1 {
		return nil, functionError("append", "expects exactly one argument")
	}
	if input.Kind != ir.KindArray {
		return nil, functionError("append", "invalid input type "+input.Kind.String())
	}
	out := input.Clone()
	out.ArrayAppend(args[0].Clone())
	return out, nil
}

func fnClearEmpty(input *ir.DataItem) (*ir.DataItem, error) {
	if input.Kind != ir.KindArray {
		return nil, functionError("clear_empty", "invalid input type "+input.Kind.String())
	}
	arr, _ := input.Array()
	out := ir.NewArray()
	for _, e := range arr {
		if e.Stringify() != "" {
			out.ArrayAppend(e.Clone())
		}
	}
	return out, nil
}

func fnParseJSON(input *ir.DataItem) (*ir.DataItem, error) {
	str, ok := input.StringVal()
	if !ok {
		return nil, functionError("parse_json", "invalid input type "+input.Kind.String())
	}
	item, err := ir.ParseJSON(str)
	if err != nil {
		return nil, functionError("parse_json", err.Error())
	}
	return item, nil
}
