package protect

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type DBFeedback struct {
	ID         int64           `db:"id"`
	Sentiment  string          `db:"sentiment"`
	Amount     sql.NullFloat64 `db:"amount"`
	Timestamp  time.Time       `db:"timestamp"`
	Feedback   sql.NullString  `db:"feedback"`
	InsertedAt time.Time       `db:"inserted_at"`
}

var insertFeedbackQuery = `
INSERT INTO feedback (sentiment, amount, timestamp, feedback)
VALUES (:sentiment, :amount, :timestamp, :feedback)`

type DBBackend struct {
	db *sqlx.DB

	insertFeedback *sqlx.NamedStmt
}

func NewDBBackend(postgresDSN string) (*DBBackend, error) {
	db, err := sqlx.Connect("postgres", postgresDSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	insertFeedback, err := db.PrepareNamed(insertFeedbackQuery)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DBBackend{
		db:             db,
		insertFeedback: insertFeedback,
	}, nil
}

// InsertFeedback appends one feedback row, there is no deduplication
// zero amount and empty text are stored as NULL
func (b *DBBackend) InsertFeedback(ctx context.Context, feedback *FeedbackRecord) error {
	timestamp, err := feedback.Time()
	if err != nil {
		return err
	}

	var dbFeedback DBFeedback
	dbFeedback.Sentiment = string(feedback.Sentiment)
	dbFeedback.Timestamp = timestamp
	if feedback.Amount != nil && *feedback.Amount != 0 {
		dbFeedback.Amount = sql.NullFloat64{Float64: *feedback.Amount, Valid: true}
	}
	if feedback.Feedback != nil && *feedback.Feedback != "" {
		dbFeedback.Feedback = sql.NullString{String: *feedback.Feedback, Valid: true}
	}

	_, err = b.insertFeedback.ExecContext(ctx, dbFeedback)
	return err
}

func (b *DBBackend) Close() error {
	return b.db.Close()
}
