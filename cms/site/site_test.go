package site

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"presskit/cms/values"
	"presskit/errors"
	"presskit/eventing/registry"
	"presskit/storage/database"
	basicdb "presskit/storage/database/basic"
)

func validParams() CreateParams {
	return CreateParams{
		Key:        "blog",
		Name:       "Company Blog",
		Slug:       "company-blog",
		Domain:     "blog.example.com",
		Path:       "/",
		Owner:      values.UserID("user-1"),
		Status:     "public",
		Registered: values.NewDateTime(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)),
	}
}

func mustCreate(t *testing.T) *Site {
	t.Helper()
	s, err := Create(values.SiteID("site-1"), validParams())
	require.NoError(t, err)
	return s
}

func TestCreate(t *testing.T) {
	s := mustCreate(t)
	assert.Equal(t, "blog", s.Key())
	assert.Equal(t, "Company Blog", s.Name())
	assert.Equal(t, "blog.example.com", s.Domain())
	assert.Equal(t, values.UserID("user-1"), s.Owner())
	assert.Equal(t, "public", s.Status())
	assert.Equal(t, uint64(1), s.GetVersion())
	require.Len(t, s.GetUncommittedEvents(), 1)

	// modified 缺省取 registered
	assert.True(t, s.Modified().Equal(s.Registered()))
}

func TestCreate_DefaultsRegisteredToNow(t *testing.T) {
	p := validParams()
	p.Registered = values.DateTime{}
	s, err := Create(values.SiteID("site-2"), p)
	require.NoError(t, err)
	assert.False(t, s.Registered().IsZero())
	assert.True(t, s.Modified().Equal(s.Registered()))
}

func TestCreate_ValidationGate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"empty key", func(p *CreateParams) { p.Key = "" }},
		{"empty name", func(p *CreateParams) { p.Name = "" }},
		{"bad slug", func(p *CreateParams) { p.Slug = "Not A Slug" }},
		{"empty domain", func(p *CreateParams) { p.Domain = "" }},
		{"empty path", func(p *CreateParams) { p.Path = "" }},
		{"empty owner", func(p *CreateParams) { p.Owner = "" }},
		{"empty status", func(p *CreateParams) { p.Status = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			_, err := Create(values.SiteID("site-1"), p)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestChangeName_IdempotentNoop(t *testing.T) {
	s := mustCreate(t)
	s.MarkEventsAsCommitted()

	require.NoError(t, s.ChangeName("Company Blog"))
	assert.Empty(t, s.GetUncommittedEvents())

	require.NoError(t, s.ChangeName("Engineering Blog"))
	assert.Len(t, s.GetUncommittedEvents(), 1)
	assert.Equal(t, "Engineering Blog", s.Name())
}

func TestChangeMapping_OptionalField(t *testing.T) {
	s := mustCreate(t)
	s.MarkEventsAsCommitted()

	require.NoError(t, s.ChangeMapping(""))
	assert.Empty(t, s.GetUncommittedEvents())

	require.NoError(t, s.ChangeMapping("www.example.com"))
	assert.Equal(t, "www.example.com", s.Mapping())

	// 清空映射同样是合法变更
	require.NoError(t, s.ChangeMapping(""))
	assert.Equal(t, "", s.Mapping())
	assert.Len(t, s.GetUncommittedEvents(), 2)
}

func TestChangeOwner(t *testing.T) {
	s := mustCreate(t)
	s.MarkEventsAsCommitted()

	err := s.ChangeOwner("")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, s.ChangeOwner(values.UserID("user-1")))
	assert.Empty(t, s.GetUncommittedEvents())

	require.NoError(t, s.ChangeOwner(values.UserID("user-2")))
	assert.Equal(t, values.UserID("user-2"), s.Owner())
}

func TestChangeModified_SecondResolution(t *testing.T) {
	s := mustCreate(t)
	s.MarkEventsAsCommitted()

	same := values.NewDateTime(time.Date(2024, 3, 15, 10, 0, 0, 999_000_000, time.UTC))
	require.NoError(t, s.ChangeModified(same))
	assert.Empty(t, s.GetUncommittedEvents())

	later := values.NewDateTime(time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC))
	require.NoError(t, s.ChangeModified(later))
	assert.True(t, s.Modified().Equal(later))
}

func TestDeleteTerminality(t *testing.T) {
	s := mustCreate(t)

	err := s.Delete(values.SiteID("other"))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, s.Delete(s.GetID()))
	assert.True(t, s.IsDeleted())

	// 重复删除是静默幂等
	before := len(s.GetUncommittedEvents())
	require.NoError(t, s.Delete(s.GetID()))
	assert.Len(t, s.GetUncommittedEvents(), before)

	err = s.ChangeName("After")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestRegisterEvents(t *testing.T) {
	r := registry.NewRegistry()
	require.NoError(t, RegisterEvents(r))
	for _, eventType := range (&Projection{}).GetSupportedEventTypes() {
		assert.True(t, r.IsRegistered(eventType), eventType)
	}
	require.Error(t, RegisterEvents(r))
}

func TestReplayDeterminism(t *testing.T) {
	s := mustCreate(t)
	require.NoError(t, s.ChangeName("Engineering Blog"))
	require.NoError(t, s.ChangeMapping("www.example.com"))
	require.NoError(t, s.ChangeOwner(values.UserID("user-2")))
	require.NoError(t, s.ChangeModified(values.NewDateTime(time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC))))
	history := s.GetUncommittedEvents()

	replayed := NewSite(s.GetID())
	for _, evt := range history {
		require.NoError(t, replayed.ApplyEvent(evt))
	}
	assert.Equal(t, s.Key(), replayed.Key())
	assert.Equal(t, s.Name(), replayed.Name())
	assert.Equal(t, s.Mapping(), replayed.Mapping())
	assert.Equal(t, s.Owner(), replayed.Owner())
	assert.True(t, s.Registered().Equal(replayed.Registered()))
	assert.True(t, s.Modified().Equal(replayed.Modified()))
	assert.Equal(t, s.GetVersion(), replayed.GetVersion())
}

func TestProjectionLifecycle(t *testing.T) {
	db, err := basicdb.New(database.DBConfig{Driver: "sqlite", Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	p := NewProjection(db, "pk_")
	require.NoError(t, p.EnsureSchema(ctx))
	q := NewQueries(db, "pk_", nil)

	s := mustCreate(t)
	require.NoError(t, s.ChangeMapping("www.example.com"))
	for _, evt := range s.GetUncommittedEvents() {
		require.NoError(t, p.Handle(ctx, evt))
	}
	s.MarkEventsAsCommitted()

	row, err := q.FindByKey(ctx, "blog")
	require.NoError(t, err)
	assert.Equal(t, "Company Blog", row.Name)
	assert.Equal(t, "www.example.com", row.Mapping)
	assert.Equal(t, "2024-03-15 10:00:00", row.Registered)

	bySlug, err := q.FindBySlug(ctx, "company-blog")
	require.NoError(t, err)
	assert.Equal(t, row.ID, bySlug.ID)

	require.NoError(t, s.ChangeStatus("archived"))
	for _, evt := range s.GetUncommittedEvents() {
		require.NoError(t, p.Handle(ctx, evt))
	}
	s.MarkEventsAsCommitted()

	row, err = q.FindByID(ctx, s.GetID())
	require.NoError(t, err)
	assert.Equal(t, "archived", row.Status)

	require.NoError(t, s.Delete(s.GetID()))
	for _, evt := range s.GetUncommittedEvents() {
		require.NoError(t, p.Handle(ctx, evt))
	}

	_, err = q.FindByID(ctx, s.GetID())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
