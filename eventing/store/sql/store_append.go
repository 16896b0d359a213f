package sql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"presskit/eventing"
	log "presskit/logging"
	"presskit/storage/database"
	"presskit/storage/database/dialect"
)

// preparedEvent 预处理的事件数据（用于批量插入）
type preparedEvent struct {
	id            string
	typ           string
	aggregateType string
	version       uint64
	schemaVersion int
	timestamp     string
	payloadJSON   string
	metadataJSON  string
}

// AppendEvents 实现 store.IEventStore
//
// 乐观锁：在同一事务内读取当前版本并与 expectedVersion 精确比较，
// 不匹配时返回 ConcurrencyError。重复事件 ID（同聚合同版本）被
// 幂等忽略。
func (s *SQLEventStore) AppendEvents(ctx context.Context, aggregateID string, events []eventing.IStorableEvent, expectedVersion uint64) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return eventing.NewStoreFailedError("begin transaction failed", err)
	}
	defer tx.Rollback()

	if err := s.appendInTx(ctx, tx, aggregateID, events, expectedVersion); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return eventing.NewStoreFailedError("commit transaction failed", err)
	}

	log.GetLogger().Debug(ctx, "events appended",
		log.String("aggregate_id", aggregateID),
		log.Int("event_count", len(events)))
	return nil
}

func (s *SQLEventStore) appendInTx(ctx context.Context, tx database.ITransaction, aggregateID string, events []eventing.IStorableEvent, expectedVersion uint64) error {
	// 第一步：版本检查（必须在事务内）
	currentVersion, err := s.currentVersion(ctx, tx, aggregateID)
	if err != nil {
		return eventing.NewStoreFailedError("query current version failed", err)
	}
	if currentVersion != expectedVersion {
		return eventing.NewConcurrencyError(aggregateID, expectedVersion, currentVersion)
	}

	// 第二步：预先验证并序列化所有事件，避免无效写入
	prepared := make([]preparedEvent, 0, len(events))
	for idx, evt := range events {
		if evt.GetAggregateID() != aggregateID {
			return eventing.NewInvalidEventError(evt.GetID(), evt.GetType(), "event aggregate id mismatch")
		}

		expectedEventVersion := expectedVersion + uint64(idx) + 1
		if evt.GetVersion() != expectedEventVersion {
			return eventing.NewInvalidEventError(evt.GetID(), evt.GetType(),
				fmt.Sprintf("event version mismatch: expected %d, got %d", expectedEventVersion, evt.GetVersion()))
		}

		if err := evt.Validate(); err != nil {
			return eventing.NewInvalidEventErrorWithCause(evt.GetID(), evt.GetType(), "event validation failed", err)
		}

		payloadJSON, err := json.Marshal(evt.GetPayload())
		if err != nil {
			return &eventing.EventStoreError{Code: eventing.ErrCodeSerializePayload, Message: "serialize payload failed", Cause: err, EventID: evt.GetID(), EventType: evt.GetType()}
		}

		var metadataJSON []byte
		if e, ok := evt.(*eventing.Event); ok && e.Metadata != nil {
			metadataJSON, err = json.Marshal(e.Metadata)
		} else {
			metadataJSON = []byte("{}")
		}
		if err != nil {
			return &eventing.EventStoreError{Code: eventing.ErrCodeSerializePayload, Message: "serialize metadata failed", Cause: err, EventID: evt.GetID(), EventType: evt.GetType()}
		}

		prepared = append(prepared, preparedEvent{
			id:            evt.GetID(),
			typ:           evt.GetType(),
			aggregateType: string(evt.GetAggregateType()),
			version:       evt.GetVersion(),
			schemaVersion: evt.GetSchemaVersion(),
			timestamp:     evt.GetTimestamp().UTC().Format(time.RFC3339Nano),
			payloadJSON:   string(payloadJSON),
			metadataJSON:  string(metadataJSON),
		})
	}

	// 第三步：批量 INSERT（一次数据库往返）
	placeholders := make([]string, len(prepared))
	args := make([]any, 0, len(prepared)*9)
	for i, p := range prepared {
		placeholders[i] = "(?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args,
			p.id, p.typ, aggregateID, p.aggregateType,
			p.version, p.schemaVersion, p.timestamp,
			p.payloadJSON, p.metadataJSON,
		)
	}

	batchSQL := fmt.Sprintf(
		"INSERT INTO %s (id, type, aggregate_id, aggregate_type, version, schema_version, timestamp, payload, metadata) VALUES %s",
		s.tableName,
		strings.Join(placeholders, ", "),
	)

	if _, err := tx.Exec(ctx, batchSQL, args...); err != nil {
		if dialect.FromDatabase(tx).IsUniqueViolation(err) {
			// 降级策略：逐个插入以识别幂等重复
			return s.appendIndividually(ctx, tx, aggregateID, prepared)
		}
		return eventing.NewStoreFailedError("batch insert events failed", err)
	}
	return nil
}

// appendIndividually 逐个插入事件（仅在批量插入发生唯一键冲突时使用）
func (s *SQLEventStore) appendIndividually(ctx context.Context, tx database.ITransaction, aggregateID string, prepared []preparedEvent) error {
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (id, type, aggregate_id, aggregate_type, version, schema_version, timestamp, payload, metadata) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.tableName)

	d := dialect.FromDatabase(tx)
	for _, p := range prepared {
		_, err := tx.Exec(ctx, insertSQL, p.id, p.typ, aggregateID, p.aggregateType, p.version, p.schemaVersion, p.timestamp, p.payloadJSON, p.metadataJSON)
		if err != nil {
			if d.IsUniqueViolation(err) {
				if s.isSameEvent(ctx, tx, p.id, p.version, aggregateID) {
					// 幂等性：相同事件已存在，跳过
					continue
				}
				return eventing.NewEventAlreadyExistsError(p.id, aggregateID, p.version)
			}
			return eventing.NewStoreFailedErrorWithEvent("insert event failed", err, p.id, p.typ)
		}
	}
	return nil
}

func (s *SQLEventStore) currentVersion(ctx context.Context, db database.IDatabase, aggregateID string) (uint64, error) {
	var current uint64
	row := db.QueryRow(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s WHERE aggregate_id = ?", s.tableName),
		aggregateID)
	if err := row.Scan(&current); err != nil {
		return 0, err
	}
	return current, nil
}

func (s *SQLEventStore) isSameEvent(ctx context.Context, db database.IDatabase, eventID string, version uint64, aggregateID string) bool {
	var existingVersion uint64
	var existingAggregateID string
	row := db.QueryRow(ctx,
		fmt.Sprintf("SELECT aggregate_id, version FROM %s WHERE id = ?", s.tableName),
		eventID)
	return row.Scan(&existingAggregateID, &existingVersion) == nil &&
		existingVersion == version && existingAggregateID == aggregateID
}
