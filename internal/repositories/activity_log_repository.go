package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"jobboard-backend/internal/models"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ActivityLogRepository struct {
	DB DBTX
}

func NewActivityLogRepository(db DBTX) *ActivityLogRepository {
	return &ActivityLogRepository{DB: db}
}

const activityLogColumns = `id, type, action, admin_email, description,
	target_user_email, content_id, reason, changes, created_at`

// FetchRecords returns at most limit entries, newest first
func (r *ActivityLogRepository) FetchRecords(ctx context.Context, limit int) ([]models.LogRecord, error) {
	query := `SELECT ` + activityLogColumns + `
		FROM activity_logs
		ORDER BY created_at DESC NULLS LAST
		LIMIT $1`

	rows, err := r.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity logs: %w", err)
	}
	defer rows.Close()

	records := make([]models.LogRecord, 0, limit)
	for rows.Next() {
		rec, err := scanActivityLog(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity logs: %w", err)
	}
	return records, nil
}

// Create records a new entry. The database clock is used unless the
// request carries a valid timestamp.
func (r *ActivityLogRepository) Create(ctx context.Context, req *models.CreateLogRequest) (*models.LogRecord, error) {
	var changes []byte
	if req.Changes != nil {
		var err error
		if changes, err = json.Marshal(req.Changes); err != nil {
			return nil, fmt.Errorf("encode changes: %w", err)
		}
	}

	var at *time.Time
	if req.Timestamp != nil {
		if t, ok := req.Timestamp.Time(); ok {
			at = &t
		}
	}

	query := `
		INSERT INTO activity_logs (
			id, type, action, admin_email, description,
			target_user_email, content_id, reason, changes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, NOW()))
		RETURNING ` + activityLogColumns

	row := r.DB.QueryRow(ctx, query,
		uuid.NewString(), string(req.Type), req.Action, req.AdminEmail, req.Description,
		req.TargetUserEmail, req.ContentID, req.Reason, changes, at,
	)

	rec, err := scanActivityLog(row)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanActivityLog(row pgx.Row) (models.LogRecord, error) {
	var (
		rec       models.LogRecord
		logType   string
		changes   []byte
		createdAt *time.Time
	)
	err := row.Scan(
		&rec.ID, &logType, &rec.Action, &rec.AdminEmail, &rec.Description,
		&rec.TargetUserEmail, &rec.ContentID, &rec.Reason, &changes, &createdAt,
	)
	if err != nil {
		return models.LogRecord{}, fmt.Errorf("scan activity log: %w", err)
	}

	rec.Type = models.LogType(logType)
	if len(changes) > 0 {
		if err := json.Unmarshal(changes, &rec.Changes); err != nil {
			return models.LogRecord{}, fmt.Errorf("decode changes for %s: %w", rec.ID, err)
		}
	}
	if createdAt != nil {
		rec.Timestamp = models.TimestampOf(*createdAt)
	}
	return rec, nil
}
