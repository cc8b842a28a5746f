package ir

// NodeKind tags the variant held by a SakuraItem.
type NodeKind int

const (
	KindSequential NodeKind = iota
	KindParallel
	KindTree
	KindSubtree
	KindBlossomGroup
	KindBlossom
	KindIf
	KindForEach
	KindFor
)

func (k NodeKind) String() string {
	switch k {
	case KindSequential:
		return "Sequential"
	case KindParallel:
		return "Parallel"
	case KindTree:
		return "Tree"
	case KindSubtree:
		return "Subtree"
	case KindBlossomGroup:
		return "BlossomGroup"
	case KindBlossom:
		return "Blossom"
	case KindIf:
		return "If"
	case KindForEach:
		return "ForEach"
	case KindFor:
		return "For"
	default:
		return "Unknown"
	}
}

// CompareKind is the relation an If node tests between its left and
// right value items. Only stringified equality/inequality is supported
// by design: do not extend this silently.
type CompareKind int

const (
	CompareEqual CompareKind = iota
	CompareUnequal
)

// UninitializedSentinel is the literal marker for a scope value that was
// declared but never assigned.
const UninitializedSentinel = "{{}}"

// SakuraItem is the tagged IR node. Every node carries Values; the rest
// of the fields are populated according to Kind.
type SakuraItem struct {
	Kind   NodeKind
	Values *ValueItemMap

	// Sequential: Children in source order.
	// Parallel: Child is always a Sequential node whose Children are the
	// independent branches.
	Children []*SakuraItem
	Child    *SakuraItem

	// Tree
	ID              string
	RootPath        string
	RelativePath    string
	UnparsedContent string
	Body            *SakuraItem

	// Subtree
	NameOrPath string

	// BlossomGroup
	GroupType string
	GroupID   string
	Blossoms  []*SakuraItem

	// Blossom
	BlossomType string
	Name        string

	// If
	Left    *ValueItem
	Right   *ValueItem
	Compare CompareKind
	Then    *SakuraItem
	Else    *SakuraItem

	// ForEach / For
	TempVarName     string
	IsParallel      bool
	LoopBody        *SakuraItem
	IterateArray    *ValueItem // ForEach
	Start           *ValueItem // For
	End             *ValueItem // For
	PostAggregation *ValueItemMap
}

func NewSequential(children ...*SakuraItem) *SakuraItem {
	return &SakuraItem{Kind: KindSequential, Values: NewValueItemMap(), Children: children}
}

func NewParallel(branches *SakuraItem) *SakuraItem {
	return &SakuraItem{Kind: KindParallel, Values: NewValueItemMap(), Child: branches}
}

func NewTree(id, rootPath, relativePath string, body *SakuraItem, values *ValueItemMap) *SakuraItem {
	if values == nil {
		values = NewValueItemMap()
	}
	return &SakuraItem{
		Kind: KindTree, ID: id, RootPath: rootPath, RelativePath: relativePath,
		Body: body, Values: values,
	}
}

func NewSubtree(nameOrPath string, values *ValueItemMap) *SakuraItem {
	if values == nil {
		values = NewValueItemMap()
	}
	return &SakuraItem{Kind: KindSubtree, NameOrPath: nameOrPath, Values: values}
}

func NewBlossom(groupType, blossomType, name string, values *ValueItemMap) *SakuraItem {
	if values == nil {
		values = NewValueItemMap()
	}
	return &SakuraItem{
		Kind: KindBlossom, GroupType: groupType, BlossomType: blossomType, Name: name, Values: values,
	}
}

func NewBlossomGroup(groupType, groupID string, values *ValueItemMap, blossoms ...*SakuraItem) *SakuraItem {
	if values == nil {
		values = NewValueItemMap()
	}
	return &SakuraItem{
		Kind: KindBlossomGroup, GroupType: groupType, GroupID: groupID, Values: values, Blossoms: blossoms,
	}
}

func NewIf(left, right *ValueItem, compare CompareKind, then, els *SakuraItem) *SakuraItem {
	return &SakuraItem{Kind: KindIf, Values: NewValueItemMap(), Left: left, Right: right, Compare: compare, Then: then, Else: els}
}

func NewForEach(tempVar string, parallel bool, iterate *ValueItem, body *SakuraItem, post *ValueItemMap) *SakuraItem {
	if post == nil {
		post = NewValueItemMap()
	}
	return &SakuraItem{
		Kind: KindForEach, TempVarName: tempVar, IsParallel: parallel,
		IterateArray: iterate, LoopBody: body, PostAggregation: post, Values: post,
	}
}

func NewFor(tempVar string, parallel bool, start, end *ValueItem, body *SakuraItem, post *ValueItemMap) *SakuraItem {
	if post == nil {
		post = NewValueItemMap()
	}
	return &SakuraItem{
		Kind: KindFor, TempVarName: tempVar, IsParallel: parallel,
		Start: start, End: end, LoopBody: body, PostAggregation: post, Values: post,
	}
}

// Clone performs a deep structural copy of the subtree rooted at item.
// The serial loop re-executes a fresh body copy each iteration, and
// Parallel spawns a fresh copy per branch; both rely on Clone.
func (item *SakuraItem) Clone() *SakuraItem {
	if item == nil {
		return nil
	}
	out := *item
	out.Values = item.Values.Clone()

	if item.Children != nil {
		out.Children = make([]*SakuraItem, len(item.Children))
		for i, c := range item.Children {
			out.Children[i] = c.Clone()
		}
	}
	out.Child = item.Child.Clone()
	out.Body = item.Body.Clone()
	out.Then = item.Then.Clone()
	out.Else = item.Else.Clone()
	out.LoopBody = item.LoopBody.Clone()
	out.Left = item.Left.Clone()
	out.Right = item.Right.Clone()
	out.IterateArray = item.IterateArray.Clone()
	out.Start = item.Start.Clone()
	out.End = item.End.Clone()
	out.PostAggregation = item.PostAggregation.Clone()

	if item.Blossoms != nil {
		out.Blossoms = make([]*SakuraItem, len(item.Blossoms))
		for i, b := range item.Blossoms {
			out.Blossoms[i] = b.Clone()
		}
	}

	return &out
}
