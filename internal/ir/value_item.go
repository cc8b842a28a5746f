package ir

// IOType tags how a ValueItem participates at a node boundary.
type IOType int

const (
	IOPlain IOType = iota
	IOInput
	IOOutput
)

func (t IOType) String() string {
	switch t {
	case IOInput:
		return "input"
	case IOOutput:
		return "output"
	default:
		return "plain"
	}
}

// FunctionCall is one step of a value item's function pipeline, e.g.
// get("key") or insert("k", v).
type FunctionCall struct {
	Name string
	Args []*ValueItem
}

// ValueItem is the smallest unit of value resolution: either a literal,
// a template string, or an identifier reference into scope, followed by
// a left-to-right pipeline of built-in functions.
type ValueItem struct {
	Item         *DataItem
	IsIdentifier bool
	IOType       IOType
	Functions    []FunctionCall
}

// NewLiteralValueItem builds a plain, already-resolved literal.
func NewLiteralValueItem(item *DataItem) *ValueItem {
	return &ValueItem{Item: item, IOType: IOPlain}
}

// NewIdentifierValueItem builds a value item that resolves by looking up
// name in scope at fill time.
func NewIdentifierValueItem(name string) *ValueItem {
	return &ValueItem{Item: NewString(name), IsIdentifier: true, IOType: IOPlain}
}

// NewOutputValueItem builds an output marker: capturedName is the scope
// variable the produced blossom output should be written into.
func NewOutputValueItem(capturedName string) *ValueItem {
	return &ValueItem{Item: NewString(capturedName), IOType: IOOutput}
}

// Clone deep-copies a value item, including its pending function pipeline.
func (vi *ValueItem) Clone() *ValueItem {
	if vi == nil {
		return nil
	}
	fns := make([]FunctionCall, len(vi.Functions))
	for i, f := range vi.Functions {
		args := make([]*ValueItem, len(f.Args))
		for j, a := range f.Args {
			args[j] = a.Clone()
		}
		fns[i] = FunctionCall{Name: f.Name, Args: args}
	}
	return &ValueItem{
		Item:         vi.Item.Clone(),
		IsIdentifier: vi.IsIdentifier,
		IOType:       vi.IOType,
		Functions:    fns,
	}
}

// CapturedName returns the scope-variable name an output-marked value
// item should be written into once the producing blossom returns.
func (vi *ValueItem) CapturedName() string {
	name, _ := vi.Item.StringVal()
	return name
}

// ValueItemMap is an ordered name→ValueItem map with nested child maps,
// carrying the declared inputs/outputs of an IR node (or a grouped
// argument object within one).
type ValueItemMap struct {
	Values   *OrderedMap[*ValueItem]
	Children *OrderedMap[*ValueItemMap]
}

// NewValueItemMap creates an empty ValueItemMap.
func NewValueItemMap() *ValueItemMap {
	return &ValueItemMap{
		Values:   NewOrderedMap[*ValueItem](),
		Children: NewOrderedMap[*ValueItemMap](),
	}
}

// Set inserts a value item under name.
func (m *ValueItemMap) Set(name string, vi *ValueItem) {
	m.Values.Set(name, vi)
}

// Get retrieves a value item by name.
func (m *ValueItemMap) Get(name string) (*ValueItem, bool) {
	return m.Values.Get(name)
}

// SetChild inserts a nested grouped-argument map under name.
func (m *ValueItemMap) SetChild(name string, child *ValueItemMap) {
	m.Children.Set(name, child)
}

// Clone deep-copies the map, its value items, and its nested children.
func (m *ValueItemMap) Clone() *ValueItemMap {
	if m == nil {
		return nil
	}
	out := NewValueItemMap()
	m.Values.Range(func(k string, v *ValueItem) bool {
		out.Values.Set(k, v.Clone())
		return true
	})
	m.Children.Range(func(k string, v *ValueItemMap) bool {
		out.Children.Set(k, v.Clone())
		return true
	})
	return out
}
