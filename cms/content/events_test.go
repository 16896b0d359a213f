package content

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presskit/cms/values"
	"presskit/errors"
	"presskit/eventing/registry"
)

func TestRegisterEvents(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, RegisterEvents(reg))

	for _, eventType := range (&Projection{}).GetSupportedEventTypes() {
		assert.True(t, reg.IsRegistered(eventType), eventType)
	}

	// 重复注册报错
	assert.Error(t, RegisterEvents(reg))
}

func TestContentWasCreated_RoundTrip(t *testing.T) {
	parent := values.ContentID("parent-1")
	p := validParams()
	p.Body = "body text"
	p.Parent = &parent
	p.Meta = map[string]string{"color": "red"}
	original := NewContentWasCreated(values.ContentID("content-1"), p)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	reg := registry.NewRegistry()
	require.NoError(t, RegisterEvents(reg))
	decoded, err := reg.Deserialize(EventContentWasCreated, data)
	require.NoError(t, err)

	restored, ok := decoded.(*ContentWasCreated)
	require.True(t, ok)
	assert.Equal(t, original, restored)

	id, err := restored.ContentID()
	require.NoError(t, err)
	assert.Equal(t, values.ContentID("content-1"), id)

	parentID, err := restored.ParentID()
	require.NoError(t, err)
	require.NotNil(t, parentID)
	assert.Equal(t, parent, *parentID)

	created, err := restored.CreatedAt()
	require.NoError(t, err)
	assert.True(t, created.Equal(p.Created))
}

func TestContentWasCreated_NullParentRoundTrip(t *testing.T) {
	original := NewContentWasCreated(values.ContentID("content-1"), validParams())

	data, err := json.Marshal(original)
	require.NoError(t, err)
	// 可空引用序列化为显式 null，而非缺失
	assert.Contains(t, string(data), `"parent":null`)

	var restored ContentWasCreated
	require.NoError(t, json.Unmarshal(data, &restored))

	parentID, err := restored.ParentID()
	require.NoError(t, err)
	assert.Nil(t, parentID)
}

func TestEventAccessors_CorruptPayload(t *testing.T) {
	created := &ContentWasCreated{ID: "content-1", Created: "not-a-date"}
	_, err := created.CreatedAt()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSerialization, errors.GetCode(err))

	missingID := &ContentTitleWasChanged{Title: "x"}
	_, err = missingID.ContentID()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSerialization, errors.GetCode(err))

	badFlag := &ContentSidebarWasChanged{ID: "content-1", Sidebar: -1}
	_, err = badFlag.Flag()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSerialization, errors.GetCode(err))
}

func TestPublishedWasChanged_CarriesGMT(t *testing.T) {
	local := time.Date(2024, 3, 15, 12, 0, 0, 0, time.FixedZone("CST", 8*3600))
	e := NewContentPublishedWasChanged(values.ContentID("content-1"), values.NewDateTime(local))

	assert.Equal(t, "2024-03-15 12:00:00", e.Published)
	assert.Equal(t, "2024-03-15 04:00:00", e.PublishedGMT)
}
