package product

import (
	"context"
	"encoding/json"
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

func mustMoney(t *testing.T, amount, currency string) values.Money {
	t.Helper()
	m, err := values.NewMoney(amount, currency)
	require.NoError(t, err)
	return m
}

func validParams(t *testing.T) CreateParams {
	t.Helper()
	return CreateParams{
		Title:   "Widget",
		Slug:    "widget",
		Author:  values.UserID("user-1"),
		Sku:     "WID-001",
		Price:   mustMoney(t, "19.99", "USD"),
		Status:  "published",
		Created: values.NewDateTime(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)),
	}
}

func mustCreate(t *testing.T) *Product {
	t.Helper()
	p, err := Create(values.ProductID("product-1"), validParams(t))
	require.NoError(t, err)
	return p
}

func TestCreate(t *testing.T) {
	p := mustCreate(t)
	assert.Equal(t, "Widget", p.Title())
	assert.Equal(t, "WID-001", p.Sku())
	assert.Equal(t, "19.99", p.Price().Amount())
	assert.Equal(t, "USD", p.Price().Currency())
	assert.Equal(t, uint64(1), p.GetVersion())
}

func TestCreate_ValidationGate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"empty title", func(p *CreateParams) { p.Title = "" }},
		{"invalid slug", func(p *CreateParams) { p.Slug = "Not Valid" }},
		{"empty author", func(p *CreateParams) { p.Author = "" }},
		{"empty sku", func(p *CreateParams) { p.Sku = "" }},
		{"empty price", func(p *CreateParams) { p.Price = values.Money{} }},
		{"empty status", func(p *CreateParams) { p.Status = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams(t)
			tc.mutate(&params)
			_, err := Create(values.ProductID("product-1"), params)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestChangePrice_IdempotentNoop(t *testing.T) {
	p := mustCreate(t)
	p.MarkEventsAsCommitted()

	// 等值金额（不同实例）是无操作
	require.NoError(t, p.ChangePrice(mustMoney(t, "19.99", "USD")))
	assert.Empty(t, p.GetUncommittedEvents())

	// 金额或货币任一不同都产生事件
	require.NoError(t, p.ChangePrice(mustMoney(t, "19.99", "EUR")))
	events := p.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventProductPriceWasChanged, events[0].GetType())
	assert.Equal(t, "EUR", p.Price().Currency())
}

func TestPriceEvent_RoundTrip(t *testing.T) {
	e := NewProductPriceWasChanged(values.ProductID("product-1"), mustMoney(t, "42.50", "GBP"))

	data, err := json.Marshal(e)
	require.NoError(t, err)

	reg := registry.NewRegistry()
	require.NoError(t, RegisterEvents(reg))
	decoded, err := reg.Deserialize(EventProductPriceWasChanged, data)
	require.NoError(t, err)

	restored := decoded.(*ProductPriceWasChanged)
	money, err := restored.PriceMoney()
	require.NoError(t, err)
	assert.Equal(t, "42.50", money.Amount())
	assert.Equal(t, "GBP", money.Currency())

	// 损坏的金额负载按序列化错误上抛
	restored.Price = "broken"
	_, err = restored.PriceMoney()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSerialization, errors.GetCode(err))
}

func TestReplayDeterminism(t *testing.T) {
	p := mustCreate(t)
	require.NoError(t, p.ChangePrice(mustMoney(t, "25.00", "USD")))
	require.NoError(t, p.ChangeSku("WID-002"))
	require.NoError(t, p.ChangeMeta(map[string]string{"weight": "2kg"}))
	history := p.GetUncommittedEvents()

	replayed := NewProduct(p.GetID())
	for _, evt := range history {
		require.NoError(t, replayed.ApplyEvent(evt))
	}
	assert.True(t, p.Price().Equal(replayed.Price()))
	assert.Equal(t, p.Sku(), replayed.Sku())
	assert.Equal(t, p.Meta(), replayed.Meta())
	assert.Equal(t, p.GetVersion(), replayed.GetVersion())
}

func TestDeleteTerminality(t *testing.T) {
	p := mustCreate(t)
	require.NoError(t, p.Delete(p.GetID()))

	err := p.ChangeTitle("After")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	// 重复删除是无操作
	before := len(p.GetUncommittedEvents())
	require.NoError(t, p.Delete(p.GetID()))
	assert.Len(t, p.GetUncommittedEvents(), before)
}

func TestProjectionLifecycle(t *testing.T) {
	db, err := basicdb.New(database.DBConfig{Driver: "sqlite", Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	proj := NewProjection(db, "pk_")
	require.NoError(t, proj.EnsureSchema(ctx))
	q := NewQueries(db, "pk_", nil)

	p := mustCreate(t)
	require.NoError(t, p.ChangePrice(mustMoney(t, "25.00", "USD")))
	require.NoError(t, p.ChangeMeta(map[string]string{"weight": "2kg"}))
	for _, evt := range p.GetUncommittedEvents() {
		require.NoError(t, proj.Handle(ctx, evt))
	}
	p.MarkEventsAsCommitted()

	row, err := q.FindBySlug(ctx, "widget")
	require.NoError(t, err)
	assert.Equal(t, "Widget", row.Title)
	assert.Equal(t, "25.00", row.Price)
	assert.Equal(t, "USD", row.Currency)

	meta, err := q.FindMeta(ctx, p.GetID())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"weight": "2kg"}, meta)

	// 删行级联清理元数据
	require.NoError(t, p.Delete(p.GetID()))
	for _, evt := range p.GetUncommittedEvents() {
		require.NoError(t, proj.Handle(ctx, evt))
	}

	_, err = q.FindByID(ctx, p.GetID())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	meta, err = q.FindMeta(ctx, p.GetID())
	require.NoError(t, err)
	assert.Empty(t, meta)
}
