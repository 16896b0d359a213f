package sql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"presskit/eventing"
	"presskit/storage/database"
)

const eventColumns = "id, type, aggregate_id, aggregate_type, version, schema_version, timestamp, payload, metadata"

// LoadEvents 实现 store.IEventStore，按版本号升序返回事件
func (s *SQLEventStore) LoadEvents(ctx context.Context, aggregateID string, afterVersion uint64) ([]eventing.Event, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE aggregate_id = ? AND version > ? ORDER BY version ASC",
		eventColumns, s.tableName)
	rows, err := s.db.Query(ctx, query, aggregateID, afterVersion)
	if err != nil {
		return nil, eventing.NewStoreFailedError("load events failed", err)
	}
	defer rows.Close()
	return s.scanEvents(rows)
}

// GetAggregateVersion 实现 store.IEventStore
func (s *SQLEventStore) GetAggregateVersion(ctx context.Context, aggregateID string) (uint64, error) {
	return s.currentVersion(ctx, s.db, aggregateID)
}

// Exists 实现 store.IEventStore
func (s *SQLEventStore) Exists(ctx context.Context, aggregateID string) (bool, error) {
	version, err := s.GetAggregateVersion(ctx, aggregateID)
	if err != nil {
		return false, err
	}
	return version > 0, nil
}

func (s *SQLEventStore) scanEvents(rows database.IRows) ([]eventing.Event, error) {
	events := make([]eventing.Event, 0, 16)
	for rows.Next() {
		var (
			evt          eventing.Event
			aggType      string
			ts           string
			payloadJSON  string
			metadataJSON string
		)
		if err := rows.Scan(&evt.ID, &evt.Type, &evt.AggregateID, &aggType, &evt.Version, &evt.SchemaVersion, &ts, &payloadJSON, &metadataJSON); err != nil {
			return nil, eventing.NewStoreFailedError("scan event row failed", err)
		}
		evt.AggregateType = eventing.AggregateType(aggType)

		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, eventing.NewInvalidEventErrorWithCause(evt.ID, evt.Type, "parse event timestamp failed", err)
		}
		evt.Timestamp = parsed

		if metadataJSON != "" && metadataJSON != "{}" {
			if err := json.Unmarshal([]byte(metadataJSON), &evt.Metadata); err != nil {
				return nil, eventing.NewInvalidEventErrorWithCause(evt.ID, evt.Type, "parse event metadata failed", err)
			}
		}

		// 载荷还原：通过注册表重建类型化的领域事件。
		// 未配置注册表时保留原始 JSON（调用方自行处理）。
		if s.registry != nil {
			payload, err := s.registry.Deserialize(evt.Type, []byte(payloadJSON))
			if err != nil {
				return nil, &eventing.EventStoreError{Code: eventing.ErrCodeHydratePayload, Message: "hydrate event payload failed", Cause: err, EventID: evt.ID, EventType: evt.Type}
			}
			evt.Payload = payload
		} else {
			evt.Payload = json.RawMessage(payloadJSON)
		}

		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, eventing.NewStoreFailedError("iterate event rows failed", err)
	}
	return events, nil
}
