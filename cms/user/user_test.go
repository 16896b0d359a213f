package user

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
		Login:      "jdoe",
		Fname:      "Jane",
		Lname:      "Doe",
		Email:      "jane@example.com",
		Registered: values.NewDateTime(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)),
		Meta:       map[string]string{"nickname": "jd"},
	}
}

func mustCreate(t *testing.T) *User {
	t.Helper()
	u, err := Create(values.UserID("user-1"), validParams())
	require.NoError(t, err)
	return u
}

func TestCreate(t *testing.T) {
	u := mustCreate(t)
	assert.Equal(t, "jdoe", u.Login())
	assert.Equal(t, "Jane", u.Fname())
	assert.Equal(t, "Doe", u.Lname())
	assert.Equal(t, "jane@example.com", u.Email())
	assert.Equal(t, DefaultTimezone, u.Timezone())
	assert.Equal(t, DefaultLocale, u.Locale())
	assert.Equal(t, map[string]string{"nickname": "jd"}, u.Meta())
	assert.Equal(t, uint64(1), u.GetVersion())
	require.Len(t, u.GetUncommittedEvents(), 1)

	// modified 与 activation key 可选，创建时未设置
	assert.True(t, u.Modified().IsZero())
	assert.Equal(t, "", u.ActivationKey())
}

func TestCreate_ValidationGate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"empty login", func(p *CreateParams) { p.Login = "" }},
		{"empty fname", func(p *CreateParams) { p.Fname = "" }},
		{"empty lname", func(p *CreateParams) { p.Lname = "" }},
		{"bad email", func(p *CreateParams) { p.Email = "not-an-email" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			_, err := Create(values.UserID("user-1"), p)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestChangeName_IdempotentNoop(t *testing.T) {
	u := mustCreate(t)
	u.MarkEventsAsCommitted()

	require.NoError(t, u.ChangeName("Jane", "Doe"))
	assert.Empty(t, u.GetUncommittedEvents())

	require.NoError(t, u.ChangeName("Jane", "Smith"))
	assert.Len(t, u.GetUncommittedEvents(), 1)
	assert.Equal(t, "Smith", u.Lname())
}

func TestChangeEmail(t *testing.T) {
	u := mustCreate(t)
	u.MarkEventsAsCommitted()

	err := u.ChangeEmail("bogus")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, u.ChangeEmail("jane@example.com"))
	assert.Empty(t, u.GetUncommittedEvents())

	require.NoError(t, u.ChangeEmail("jane.doe@example.com"))
	assert.Equal(t, "jane.doe@example.com", u.Email())
}

func TestChangeUrl_OptionalField(t *testing.T) {
	u := mustCreate(t)
	u.MarkEventsAsCommitted()

	require.NoError(t, u.ChangeUrl(""))
	assert.Empty(t, u.GetUncommittedEvents())

	require.NoError(t, u.ChangeUrl("https://jane.example.com"))
	assert.Equal(t, "https://jane.example.com", u.Url())

	require.NoError(t, u.ChangeUrl(""))
	assert.Equal(t, "", u.Url())
	assert.Len(t, u.GetUncommittedEvents(), 2)
}

func TestResetActivationKey(t *testing.T) {
	u := mustCreate(t)
	u.MarkEventsAsCommitted()

	require.NoError(t, u.ResetActivationKey(""))
	assert.Empty(t, u.GetUncommittedEvents())

	require.NoError(t, u.ResetActivationKey("key-abc"))
	assert.Equal(t, "key-abc", u.ActivationKey())

	// 清除密钥同样是合法变更
	require.NoError(t, u.ResetActivationKey(""))
	assert.Equal(t, "", u.ActivationKey())
	assert.Len(t, u.GetUncommittedEvents(), 2)
}

func TestChangeMeta_WholeMapComparison(t *testing.T) {
	u := mustCreate(t)
	u.MarkEventsAsCommitted()

	require.NoError(t, u.ChangeMeta(map[string]string{"nickname": "jd"}))
	assert.Empty(t, u.GetUncommittedEvents())

	require.NoError(t, u.ChangeMeta(map[string]string{"nickname": "jd", "bio": "engineer"}))
	assert.Len(t, u.GetUncommittedEvents(), 1)
	assert.Equal(t, "engineer", u.Meta()["bio"])
}

func TestChangeModified_SecondResolution(t *testing.T) {
	u := mustCreate(t)
	u.MarkEventsAsCommitted()

	first := values.NewDateTime(time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC))
	require.NoError(t, u.ChangeModified(first))
	assert.True(t, u.Modified().Equal(first))

	same := values.NewDateTime(time.Date(2024, 3, 16, 9, 30, 0, 500_000_000, time.UTC))
	require.NoError(t, u.ChangeModified(same))
	assert.Len(t, u.GetUncommittedEvents(), 1)
}

func TestDeleteTerminality(t *testing.T) {
	u := mustCreate(t)

	err := u.Delete(values.UserID("other"))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, u.Delete(u.GetID()))
	assert.True(t, u.IsDeleted())

	before := len(u.GetUncommittedEvents())
	require.NoError(t, u.Delete(u.GetID()))
	assert.Len(t, u.GetUncommittedEvents(), before)

	err = u.ChangeLogin("after")
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
	u := mustCreate(t)
	require.NoError(t, u.ChangeName("Jane", "Smith"))
	require.NoError(t, u.ChangeEmail("jane.smith@example.com"))
	require.NoError(t, u.ResetActivationKey("key-abc"))
	require.NoError(t, u.ChangeMeta(map[string]string{"bio": "engineer"}))
	require.NoError(t, u.ChangeModified(values.NewDateTime(time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC))))
	history := u.GetUncommittedEvents()

	replayed := NewUser(u.GetID())
	for _, evt := range history {
		require.NoError(t, replayed.ApplyEvent(evt))
	}
	assert.Equal(t, u.Login(), replayed.Login())
	assert.Equal(t, u.Lname(), replayed.Lname())
	assert.Equal(t, u.Email(), replayed.Email())
	assert.Equal(t, u.ActivationKey(), replayed.ActivationKey())
	assert.Equal(t, u.Meta(), replayed.Meta())
	assert.True(t, u.Registered().Equal(replayed.Registered()))
	assert.True(t, u.Modified().Equal(replayed.Modified()))
	assert.Equal(t, u.GetVersion(), replayed.GetVersion())
}

func TestProjectionLifecycle(t *testing.T) {
	db, err := basicdb.New(database.DBConfig{Driver: "sqlite", Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	p := NewProjection(db, "pk_")
	require.NoError(t, p.EnsureSchema(ctx))
	q := NewQueries(db, "pk_", nil)

	u := mustCreate(t)
	for _, evt := range u.GetUncommittedEvents() {
		require.NoError(t, p.Handle(ctx, evt))
	}
	u.MarkEventsAsCommitted()

	row, err := q.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", row.Login)
	assert.Equal(t, "", row.Modified)

	byLogin, err := q.FindByLogin(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, row.ID, byLogin.ID)

	meta, err := q.FindMeta(ctx, u.GetID())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"nickname": "jd"}, meta)

	// 元数据整体替换是 update-or-insert，不删除未提及的键
	require.NoError(t, u.ChangeMeta(map[string]string{"nickname": "janey", "bio": "engineer"}))
	for _, evt := range u.GetUncommittedEvents() {
		require.NoError(t, p.Handle(ctx, evt))
	}
	u.MarkEventsAsCommitted()

	meta, err = q.FindMeta(ctx, u.GetID())
	require.NoError(t, err)
	assert.Equal(t, "janey", meta["nickname"])
	assert.Equal(t, "engineer", meta["bio"])

	require.NoError(t, u.Delete(u.GetID()))
	for _, evt := range u.GetUncommittedEvents() {
		require.NoError(t, p.Handle(ctx, evt))
	}

	_, err = q.FindByID(ctx, u.GetID())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	meta, err = q.FindMeta(ctx, u.GetID())
	require.NoError(t, err)
	assert.Empty(t, meta)
}
