package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// NewPhoto enqueues a photo for processing. The source path is unique;
// enqueueing the same path twice returns the existing item.
func (s *Store) NewPhoto(ctx context.Context, sourcePath, batchID string) (*Item, error) {
	return s.insertPhoto(ctx, sourcePath, batchID, StatusPending, "", "")
}

// NewCompletedPhoto records a photo that already carries a generated name
// and needs no processing.
func (s *Store) NewCompletedPhoto(ctx context.Context, sourcePath, batchID string) (*Item, error) {
	name := filepath.Base(sourcePath)
	return s.insertPhoto(ctx, sourcePath, batchID, StatusCompleted, name, sourcePath)
}

func (s *Store) insertPhoto(ctx context.Context, sourcePath, batchID string, status Status, finalName, finalPath string) (*Item, error) {
	if existing, err := s.FindBySourcePath(ctx, sourcePath); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO queue_items (
            source_path, original_name, batch_id, status,
            final_name, final_path, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sourcePath,
		filepath.Base(sourcePath),
		nullableString(batchID),
		status,
		nullableString(finalName),
		nullableString(finalPath),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert photo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a queue item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// FindBySourcePath returns the item enqueued for a source file, if any.
func (s *Store) FindBySourcePath(ctx context.Context, sourcePath string) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items WHERE source_path = ? LIMIT 1`,
		sourcePath,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by source path: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing queue item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()

	_, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items SET
            source_path = ?, original_name = ?, batch_id = ?, status = ?,
            people_json = ?, detections_json = ?, resolved_names = ?,
            capture_date = ?, tagging_software = ?, description = ?,
            final_name = ?, final_path = ?, error_message = ?,
            progress_stage = ?, progress_message = ?, updated_at = ?
        WHERE id = ?`,
		item.SourcePath,
		item.OriginalName,
		nullableString(item.BatchID),
		item.Status,
		nullableString(item.PeopleJSON),
		nullableString(item.DetectionsJSON),
		nullableString(item.ResolvedNames),
		nullableTime(item.CaptureDate),
		nullableString(item.TaggingSoftware),
		nullableString(item.Description),
		nullableString(item.FinalName),
		nullableString(item.FinalPath),
		nullableString(item.ErrorMessage),
		nullableString(item.ProgressStage),
		nullableString(item.ProgressMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	return nil
}

// ClaimNext atomically hands the oldest pending item to a worker by moving
// it to extracting_tags. Returns nil when the queue has no pending work.
// The conditional UPDATE guarantees no two workers claim the same item.
func (s *Store) ClaimNext(ctx context.Context) (*Item, error) {
	ctx = ensureContext(ctx)
	var id int64
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(
			ctx,
			`UPDATE queue_items
            SET status = ?, progress_stage = 'Extracting tags', progress_message = NULL, updated_at = ?
            WHERE id = (
                SELECT id FROM queue_items WHERE status = ? ORDER BY created_at, id LIMIT 1
            ) AND status = ?
            RETURNING id`,
			StatusExtractingTags,
			time.Now().UTC().Format(time.RFC3339Nano),
			StatusPending,
			StatusPending,
		)
		return row.Scan(&id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim next item: %w", err)
	}
	return s.GetByID(ctx, id)
}

// ItemsByStatus returns items matching a status, oldest first.
func (s *Store) ItemsByStatus(ctx context.Context, status Status) ([]*Item, error) {
	return s.List(ctx, status)
}

// List returns items matching the provided statuses, or all items when no
// statuses are given, oldest first.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListBatch returns the items enqueued under a batch identifier.
func (s *Store) ListBatch(ctx context.Context, batchID string) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items WHERE batch_id = ? ORDER BY created_at, id`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list batch: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Remove deletes an item by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("remove item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ClearCompleted removes completed items.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes failed items.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items WHERE status = ?`, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear failed: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every item from the queue.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

// RetryFailed moves failed items back to pending for reprocessing.
func (s *Store) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if len(ids) == 0 {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE queue_items
            SET status = ?, progress_stage = 'Retry requested', progress_message = NULL,
                error_message = NULL, updated_at = ?
            WHERE status = ?`,
			StatusPending,
			timestamp,
			StatusFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed items: %w", err)
		}
		return res.RowsAffected()
	}

	placeholders := makePlaceholders(len(ids))
	args := make([]any, 0, len(ids)+3)
	args = append(args, StatusPending, timestamp, StatusFailed)
	for _, id := range ids {
		args = append(args, id)
	}
	query := `UPDATE queue_items
        SET status = ?, progress_stage = 'Retry requested', progress_message = NULL,
            error_message = NULL, updated_at = ?
        WHERE status = ? AND id IN (` + placeholders + `)`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry selected items: %w", err)
	}
	return res.RowsAffected()
}

// FailProcessing marks every in-flight item as failed with the given reason.
// Used when the daemon stops before its workers can finish.
func (s *Store) FailProcessing(ctx context.Context, reason string) (int64, error) {
	args := make([]any, 0, len(processingStatuses)+3)
	args = append(args, StatusFailed, reason, time.Now().UTC().Format(time.RFC3339Nano))
	for status := range processingStatuses {
		args = append(args, status)
	}
	query := `UPDATE queue_items
        SET status = ?, error_message = ?, progress_stage = 'Failed', updated_at = ?
        WHERE status IN (` + makePlaceholders(len(processingStatuses)) + `)`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("fail processing items: %w", err)
	}
	return res.RowsAffected()
}
