package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// docRow is the storage shape: one table for every collection, body as a JSON
// column. Server timestamps live on the row, not in the body.
type docRow struct {
	Collection string         `gorm:"primaryKey;size:64"`
	DocID      string         `gorm:"primaryKey;column:doc_id;size:40"`
	Data       datatypes.JSON `gorm:"type:json"`
	CreatedAt  time.Time      `gorm:"type:datetime(3);not null"`
	UpdatedAt  time.Time      `gorm:"type:datetime(3);not null;index:ix_documents_updated"`
}

func (docRow) TableName() string { return "documents" }

// SQLStore is the production Store over MySQL. Local mutations notify
// subscribers immediately; a background poller catches writers outside this
// process (checkout, signup, the mobile contact form).
type SQLStore struct {
	db  *gorm.DB
	log *slog.Logger
	hub hub

	pollEvery time.Duration
	pollOnce  sync.Once
	stop      chan struct{}

	verMu    sync.Mutex
	versions map[string]string
}

func NewSQLStore(db *gorm.DB, log *slog.Logger) *SQLStore {
	return &SQLStore{
		db:        db,
		log:       log,
		pollEvery: 2 * time.Second,
		stop:      make(chan struct{}),
		versions:  make(map[string]string),
	}
}

// Migrate creates the documents table. Used by the seed tool, not by the
// server itself.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&docRow{})
}

func (s *SQLStore) Close() {
	close(s.stop)
}

func (s *SQLStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("docstore: encode document: %w", err)
	}
	id := uuid.NewString()
	now := time.Now()
	row := docRow{Collection: collection, DocID: id, Data: raw, CreatedAt: now, UpdatedAt: now}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if IsDuplicateKey(err) {
			return "", fmt.Errorf("docstore: duplicate document id %s/%s", collection, id)
		}
		return "", err
	}
	s.notify(collection)
	return id, nil
}

func (s *SQLStore) Patch(ctx context.Context, collection, id string, fields Fields) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row docRow
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&row, "collection = ? AND doc_id = ?", collection, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
			}
			return err
		}

		body := Fields{}
		if len(row.Data) > 0 {
			if err := json.Unmarshal(row.Data, &body); err != nil {
				return fmt.Errorf("docstore: decode document %s/%s: %w", collection, id, err)
			}
		}
		for k, v := range fields {
			setPath(body, k, v)
		}
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}

		return tx.Model(&docRow{}).
			Where("collection = ? AND doc_id = ?", collection, id).
			Updates(map[string]any{"data": datatypes.JSON(raw), "updated_at": time.Now()}).Error
	})
	if err != nil {
		return err
	}
	s.notify(collection)
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, collection, id string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&docRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	s.notify(collection)
	return nil
}

func (s *SQLStore) Fetch(ctx context.Context, q Query) (Snapshot, error) {
	tx := s.db.WithContext(ctx).Model(&docRow{}).Where("collection = ?", q.Collection)
	for _, f := range q.Filters {
		tx = tx.Where(datatypes.JSONQuery("data").Equals(f.Value, splitPath(f.Field)...))
	}
	switch q.OrderBy {
	case "":
		tx = tx.Order("doc_id ASC")
	case "createdAt":
		tx = tx.Order("created_at " + direction(q.Desc)).Order("doc_id ASC")
	case "updatedAt":
		tx = tx.Order("updated_at " + direction(q.Desc)).Order("doc_id ASC")
	default:
		tx = tx.Order(fmt.Sprintf("JSON_UNQUOTE(JSON_EXTRACT(data, '$.%s')) %s", q.OrderBy, direction(q.Desc))).
			Order("doc_id ASC")
	}

	var rows []docRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	snap := make(Snapshot, 0, len(rows))
	for _, row := range rows {
		body := Fields{}
		if len(row.Data) > 0 {
			if err := json.Unmarshal(row.Data, &body); err != nil {
				// a malformed body must not take the whole list down
				s.log.Warn("docstore: skipping undecodable document",
					"collection", row.Collection, "doc_id", row.DocID, "err", err)
				continue
			}
		}
		snap = append(snap, Document{
			ID:        row.DocID,
			Fields:    body,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return snap, nil
}

func (s *SQLStore) Subscribe(ctx context.Context, q Query, fn func(Snapshot)) (func(), error) {
	unsub, err := s.hub.open(ctx, q, fn, s.Fetch)
	if err != nil {
		return nil, err
	}
	s.pollOnce.Do(func() { go s.pollLoop() })
	return unsub, nil
}

func (s *SQLStore) notify(collection string) {
	for _, sub := range s.hub.collect(collection) {
		snap, err := s.Fetch(context.Background(), sub.q)
		if err != nil {
			s.log.Error("docstore: refetch for subscriber failed",
				"collection", collection, "err", err)
			continue
		}
		sub.fn(snap)
	}
}

// pollLoop watches for changes made by other processes. A collection's
// version is (row count, max updated_at); when it moves, subscribers get a
// fresh snapshot.
func (s *SQLStore) pollLoop() {
	t := time.NewTicker(s.pollEvery)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			for _, col := range s.hub.collections() {
				ver, err := s.version(col)
				if err != nil {
					s.log.Error("docstore: poll version failed", "collection", col, "err", err)
					continue
				}
				s.verMu.Lock()
				changed := s.versions[col] != ver
				s.versions[col] = ver
				s.verMu.Unlock()
				if changed {
					s.notify(col)
				}
			}
		}
	}
}

func (s *SQLStore) version(collection string) (string, error) {
	var v struct {
		N      int64
		Latest time.Time
	}
	err := s.db.Raw(
		"SELECT COUNT(*) AS n, COALESCE(MAX(updated_at), '1970-01-01') AS latest FROM documents WHERE collection = ?",
		collection,
	).Scan(&v).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d|%d", v.N, v.Latest.UnixMilli()), nil
}

func direction(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}

func splitPath(field string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(field); i++ {
		if i == len(field) || field[i] == '.' {
			parts = append(parts, field[start:i])
			start = i + 1
		}
	}
	return parts
}

func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
