package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presskit/cms/values"
	"presskit/errors"
	"presskit/eventing"
)

func validParams() CreateParams {
	return CreateParams{
		Title:   "Hello",
		Slug:    "hello",
		Author:  values.UserID("user-1"),
		Type:    "page",
		Status:  "draft",
		Created: values.NewDateTime(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)),
	}
}

func mustCreate(t *testing.T) *Content {
	t.Helper()
	c, err := Create(values.ContentID("content-1"), validParams())
	require.NoError(t, err)
	return c
}

func TestCreate(t *testing.T) {
	c := mustCreate(t)

	assert.Equal(t, values.ContentID("content-1"), c.GetID())
	assert.Equal(t, "Hello", c.Title())
	assert.Equal(t, "hello", c.Slug())
	assert.Equal(t, "draft", c.Status())
	assert.Equal(t, values.UserID("user-1"), c.Author())
	assert.Equal(t, uint64(1), c.GetVersion())
	// published/modified 缺省回退到 created
	assert.True(t, c.Published().Equal(c.Created()))
	assert.True(t, c.Modified().Equal(c.Created()))

	events := c.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventContentWasCreated, events[0].GetType())
	assert.Equal(t, eventing.AggregateContent, events[0].GetAggregateType())
}

func TestCreate_ValidationGate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"empty title", func(p *CreateParams) { p.Title = "" }},
		{"empty slug", func(p *CreateParams) { p.Slug = "" }},
		{"invalid slug", func(p *CreateParams) { p.Slug = "Hello World" }},
		{"empty author", func(p *CreateParams) { p.Author = "" }},
		{"empty type", func(p *CreateParams) { p.Type = "" }},
		{"empty status", func(p *CreateParams) { p.Status = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			_, err := Create(values.ContentID("content-1"), p)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestChangeTitle_IdempotentNoop(t *testing.T) {
	c := mustCreate(t)
	c.MarkEventsAsCommitted()

	// 相同值静默返回，不产生事件
	require.NoError(t, c.ChangeTitle("Hello"))
	assert.Empty(t, c.GetUncommittedEvents())
	assert.Equal(t, uint64(1), c.GetVersion())

	require.NoError(t, c.ChangeTitle("World"))
	events := c.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventContentTitleWasChanged, events[0].GetType())
	assert.Equal(t, "World", c.Title())
}

func TestChangeTitle_EmptyRejected(t *testing.T) {
	c := mustCreate(t)
	c.MarkEventsAsCommitted()

	err := c.ChangeTitle("")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Empty(t, c.GetUncommittedEvents())
	assert.Equal(t, "Hello", c.Title())
}

func TestChangeBody_OptionalField(t *testing.T) {
	c := mustCreate(t)
	c.MarkEventsAsCommitted()

	// 可选字段：空值合法，且与当前空值相同则无操作
	require.NoError(t, c.ChangeBody(""))
	assert.Empty(t, c.GetUncommittedEvents())

	require.NoError(t, c.ChangeBody("some text"))
	assert.Len(t, c.GetUncommittedEvents(), 1)
	assert.Equal(t, "some text", c.Body())
}

func TestChangeParentAndRemove(t *testing.T) {
	c := mustCreate(t)
	c.MarkEventsAsCommitted()

	// 父级本就不存在时移除是无操作
	require.NoError(t, c.RemoveParent(values.ContentID("parent-1")))
	assert.Empty(t, c.GetUncommittedEvents())

	require.NoError(t, c.ChangeParent(values.ContentID("parent-1")))
	require.NotNil(t, c.Parent())
	assert.Equal(t, values.ContentID("parent-1"), *c.Parent())

	// 相同父级重复设置是无操作
	require.NoError(t, c.ChangeParent(values.ContentID("parent-1")))
	assert.Len(t, c.GetUncommittedEvents(), 1)

	// 请求的父级与当前父级不一致时移除是无操作
	require.NoError(t, c.RemoveParent(values.ContentID("other")))
	assert.Len(t, c.GetUncommittedEvents(), 1)
	assert.NotNil(t, c.Parent())

	require.NoError(t, c.RemoveParent(values.ContentID("parent-1")))
	assert.Nil(t, c.Parent())
	events := c.GetUncommittedEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventContentParentWasRemoved, events[1].GetType())
}

func TestChangeParent_SelfRejected(t *testing.T) {
	c := mustCreate(t)
	err := c.ChangeParent(c.GetID())
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestChangePublished_SecondResolution(t *testing.T) {
	c := mustCreate(t)
	c.MarkEventsAsCommitted()

	// 同一秒内的时间视为相同值
	same := values.NewDateTime(c.Published().Time().Add(300 * time.Millisecond))
	require.NoError(t, c.ChangePublished(same))
	assert.Empty(t, c.GetUncommittedEvents())

	later := values.NewDateTime(c.Published().Time().Add(time.Hour))
	require.NoError(t, c.ChangePublished(later))
	assert.Len(t, c.GetUncommittedEvents(), 1)
	assert.True(t, c.Published().Equal(later))
}

func TestChangeMeta_WholeMapComparison(t *testing.T) {
	c := mustCreate(t)
	c.MarkEventsAsCommitted()

	require.NoError(t, c.ChangeMeta(map[string]string{"color": "red", "layout": "wide"}))
	assert.Len(t, c.GetUncommittedEvents(), 1)

	// 等值 map（不同实例）是无操作
	require.NoError(t, c.ChangeMeta(map[string]string{"layout": "wide", "color": "red"}))
	assert.Len(t, c.GetUncommittedEvents(), 1)

	// 任何键差异都产生一个携带完整新 map 的事件
	require.NoError(t, c.ChangeMeta(map[string]string{"color": "blue", "layout": "wide"}))
	events := c.GetUncommittedEvents()
	require.Len(t, events, 2)
	payload, ok := events[1].GetPayload().(*ContentMetaWasChanged)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"color": "blue", "layout": "wide"}, payload.Meta)
}

func TestDelete(t *testing.T) {
	c := mustCreate(t)
	c.MarkEventsAsCommitted()

	// 删除必须携带聚合自身的 id
	err := c.Delete(values.ContentID("other"))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, c.Delete(c.GetID()))
	assert.True(t, c.IsDeleted())
	assert.Len(t, c.GetUncommittedEvents(), 1)

	// 重复删除是无操作（命令重试安全）
	require.NoError(t, c.Delete(c.GetID()))
	assert.Len(t, c.GetUncommittedEvents(), 1)
}

func TestDeletedAggregateRejectsMutations(t *testing.T) {
	c := mustCreate(t)
	require.NoError(t, c.Delete(c.GetID()))

	err := c.ChangeTitle("After")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, "Hello", c.Title())
}

func TestMutationBeforeCreateRejected(t *testing.T) {
	c := NewContent(values.ContentID("content-1"))
	err := c.ChangeTitle("Hello")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestReplayDeterminism(t *testing.T) {
	c := mustCreate(t)
	require.NoError(t, c.ChangeTitle("World"))
	require.NoError(t, c.ChangeParent(values.ContentID("parent-1")))
	require.NoError(t, c.ChangeMeta(map[string]string{"color": "red"}))
	require.NoError(t, c.RemoveParent(values.ContentID("parent-1")))
	history := c.GetUncommittedEvents()

	replay := func() *Content {
		r := NewContent(c.GetID())
		for _, evt := range history {
			require.NoError(t, r.ApplyEvent(evt))
		}
		return r
	}

	a, b := replay(), replay()
	assert.Equal(t, a.Title(), b.Title())
	assert.Equal(t, a.Meta(), b.Meta())
	assert.Equal(t, a.GetVersion(), b.GetVersion())
	assert.Nil(t, a.Parent())

	// 重放结果与实时变更后的状态一致
	assert.Equal(t, c.Title(), a.Title())
	assert.Equal(t, c.Slug(), a.Slug())
	assert.Equal(t, c.Meta(), a.Meta())
	assert.True(t, c.Created().Equal(a.Created()))
	assert.True(t, c.Published().Equal(a.Published()))
	assert.Equal(t, c.GetVersion(), a.GetVersion())
}

func TestEventVersionsAreSequential(t *testing.T) {
	c := mustCreate(t)
	require.NoError(t, c.ChangeTitle("World"))
	require.NoError(t, c.ChangeStatus("published"))

	events := c.GetUncommittedEvents()
	require.Len(t, events, 3)
	for i, evt := range events {
		assert.Equal(t, uint64(i+1), evt.GetVersion())
		assert.Equal(t, "content-1", evt.GetAggregateID())
	}
}
