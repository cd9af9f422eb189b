package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/cache"
	"finance_tracker/internal/observability"
	"finance_tracker/internal/queue"
	"finance_tracker/internal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// CreateInput carries the client-supplied fields for a new record. Label
// is the kind's required string field (category or source).
type CreateInput struct {
	Label  string
	Amount *float64
	Note   string
	Date   *time.Time
	Emoji  string
}

// Patch carries a partial update. Nil means "leave unchanged", so
// amount 0 and an explicit empty note are both expressible.
type Patch struct {
	Label  *string
	Amount *float64
	Note   *string
	Date   *time.Time
	Emoji  *string
}

type RecordServiceInterface interface {
	Create(kind Kind, userID string, in CreateInput) (*Record, error)
	List(kind Kind, userID string) ([]*Record, error)
	Update(kind Kind, userID, id string, patch Patch) (*Record, error)
	Delete(kind Kind, userID, id string) error
}

type RecordService struct {
	repo  RecordRepositoryInterface
	DB    *sql.DB
	conn  *amqp.Connection
	cache *cache.RecordCache
}

func NewRecordService(repo RecordRepositoryInterface, db *sql.DB, conn *amqp.Connection, redisClient *redis.Client) RecordServiceInterface {
	return &RecordService{
		repo:  repo,
		DB:    db,
		conn:  conn,
		cache: cache.NewRecordCache(redisClient),
	}
}

func (s *RecordService) Create(kind Kind, userID string, in CreateInput) (*Record, error) {
	if in.Label == "" || in.Amount == nil {
		return nil, apperr.Invalid(kind.RequiredMsg)
	}

	rec := &Record{
		ID:     uuid.NewString(),
		UserID: userID, // always the authenticated identity, never client input
		Amount: *in.Amount,
		Note:   in.Note,
		Date:   time.Now(),
		Emoji:  in.Emoji,
	}
	kind.SetLabel(rec, in.Label)
	if in.Date != nil {
		rec.Date = *in.Date
	}

	if err := utils.WithTransaction(s.DB, func(tx *sql.Tx) error {
		return s.repo.Create(tx, kind, rec)
	}); err != nil {
		return nil, apperr.Internal(err)
	}

	s.afterMutation(kind, rec.ID, userID, "created")
	return rec, nil
}

func (s *RecordService) List(kind Kind, userID string) ([]*Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cacheKey := cache.UserRecordsKey(kind.Name, userID)
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err == nil && cachedData != nil {
		var records []*Record
		if json.Unmarshal(cachedData, &records) == nil {
			logrus.Infof("cache hit for user %s %s list", userID, kind.Name)
			observability.GlobalMetrics.CacheHitsTotal.WithLabelValues("record_list").Inc()
			return records, nil
		}
	}
	logrus.Infof("cache miss for user %s %s list", userID, kind.Name)
	observability.GlobalMetrics.CacheMissesTotal.WithLabelValues("record_list").Inc()

	records, err := s.repo.ListByUser(s.DB, kind, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	// Cache is best effort; a failed set only costs the next read.
	if err := s.cache.Set(ctx, cacheKey, records); err != nil {
		logrus.WithError(err).Warn("Failed to cache record list")
	}

	return records, nil
}

func (s *RecordService) Update(kind Kind, userID, id string, patch Patch) (*Record, error) {
	rec, err := s.repo.GetByIDAndUser(s.DB, kind, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(kind.NotFoundMsg)
		}
		return nil, apperr.Internal(err)
	}

	// Absent fields keep their prior value; present fields always win,
	// including amount 0 and note "".
	if patch.Label != nil {
		kind.SetLabel(rec, *patch.Label)
	}
	if patch.Amount != nil {
		rec.Amount = *patch.Amount
	}
	if patch.Note != nil {
		rec.Note = *patch.Note
	}
	if patch.Date != nil {
		rec.Date = *patch.Date
	}
	if kind.HasEmoji && patch.Emoji != nil {
		rec.Emoji = *patch.Emoji
	}

	if err := utils.WithTransaction(s.DB, func(tx *sql.Tx) error {
		return s.repo.Update(tx, kind, rec)
	}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(kind.NotFoundMsg)
		}
		return nil, apperr.Internal(err)
	}

	s.afterMutation(kind, rec.ID, userID, "updated")
	return rec, nil
}

func (s *RecordService) Delete(kind Kind, userID, id string) error {
	if err := utils.WithTransaction(s.DB, func(tx *sql.Tx) error {
		return s.repo.Delete(tx, kind, id, userID)
	}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(kind.NotFoundMsg)
		}
		return apperr.Internal(err)
	}

	s.afterMutation(kind, id, userID, "deleted")
	return nil
}

// afterMutation drops the stale listing from the cache and publishes the
// activity event. Neither failure fails the request that already
// committed.
func (s *RecordService) afterMutation(kind Kind, recordID, userID, action string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if action == "created" {
		observability.GlobalMetrics.RecordsCreatedTotal.WithLabelValues(kind.Name).Inc()
	} else {
		observability.GlobalMetrics.RecordsMutatedTotal.WithLabelValues(kind.Name, action).Inc()
	}

	if err := s.cache.Invalidate(ctx, cache.UserRecordsKey(kind.Name, userID)); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate record list cache")
	}

	event := Event{
		RecordID: recordID,
		UserID:   userID,
		Kind:     kind.Name,
		Action:   action,
	}

	if err := s.publishEvent(ctx, event); err != nil {
		logrus.WithError(err).Warn("Failed to publish activity event")
		return
	}
	observability.GlobalMetrics.QueueMessagesPublished.WithLabelValues(queue.ActivityQueue).Inc()
}

func (s *RecordService) publishEvent(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ch, err := queue.CreateChannel(s.conn)
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.PublishWithContext(
		ctx,
		"",
		queue.ActivityQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
