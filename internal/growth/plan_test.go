package growth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/errs"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/value"
)

func TestNewRootPlan_ClonesBody(t *testing.T) {
	body := ir.NewSequential()
	plan := NewRootPlan(body, value.Scope{}, nil, "/trees/main.sakura")

	assert.NotSame(t, body, plan.BodyCopy)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "/trees/main.sakura", plan.FilePath)
}

func TestPlan_Spawn_IsolatesScopeAndTracksParent(t *testing.T) {
	parent := NewRootPlan(ir.NewSequential(), value.Scope{"x": ir.NewInt(1)}, nil, "/trees/main.sakura")
	parent.Hierarchy = []string{"TREE: main"}

	counter := NewActiveCounter(1, time.Millisecond)
	childScope := parent.Items.Clone()
	child := parent.Spawn(ir.NewSequential(), childScope, counter, "PARALLEL-BRANCH")

	require.Len(t, parent.Children, 1)
	assert.Same(t, parent, child.Parent)
	assert.Same(t, counter, child.Counter)
	assert.Equal(t, []string{"TREE: main", "PARALLEL-BRANCH"}, child.Hierarchy)
	assert.Equal(t, parent.FilePath, child.FilePath)

	child.Items["x"] = ir.NewInt(99)
	v, _ := parent.Items["x"].Int()
	assert.Equal(t, int64(1), v, "spawned child scope must not alias the parent's")
}

func TestPlan_Fail_AccumulatesMessages(t *testing.T) {
	plan := NewRootPlan(ir.NewSequential(), value.Scope{}, nil, "")

	plan.Fail(errs.ErrHandler, "first")
	plan.Fail(errs.ErrHandler, "second")

	assert.Equal(t, "handler error: first; second", plan.Err.Error())
}
