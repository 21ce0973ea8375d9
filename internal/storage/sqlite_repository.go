package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateItem(ctx context.Context, in Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (id, title, notes, start_time, end_time, is_completed, priority, calendar_event_id, reminder_minutes_before, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Notes, mustTime(in.StartTime), mustTime(in.EndTime),
		boolInt(in.IsCompleted), in.Priority, nullString(in.CalendarEventID),
		nullInt(in.ReminderMinutesBefore), mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetItem(ctx context.Context, id string) (Item, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, notes, start_time, end_time, is_completed, priority, calendar_event_id, reminder_minutes_before, created_at, updated_at
		FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateItem(ctx context.Context, in Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET title = ?, notes = ?, start_time = ?, end_time = ?, is_completed = ?, priority = ?, calendar_event_id = ?, reminder_minutes_before = ?, updated_at = ?
		WHERE id = ?`,
		in.Title, in.Notes, mustTime(in.StartTime), mustTime(in.EndTime),
		boolInt(in.IsCompleted), in.Priority, nullString(in.CalendarEventID),
		nullInt(in.ReminderMinutesBefore), mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListItems(ctx context.Context, filter ItemListFilter) ([]Item, error) {
	query := `SELECT id, title, notes, start_time, end_time, is_completed, priority, calendar_event_id, reminder_minutes_before, created_at, updated_at FROM items`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if !filter.From.IsZero() {
		clauses = append(clauses, "start_time >= ?")
		args = append(args, mustTime(filter.From))
	}
	if !filter.To.IsZero() {
		clauses = append(clauses, "start_time < ?")
		args = append(args, mustTime(filter.To))
	}
	if filter.Completed != nil {
		clauses = append(clauses, "is_completed = ?")
		args = append(args, boolInt(*filter.Completed))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY start_time ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateTimeBlock(ctx context.Context, in TimeBlock) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_blocks (id, name, start_hour, start_minute, end_hour, end_minute, color, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, in.StartHour, in.StartMinute, in.EndHour, in.EndMinute, in.Color, boolInt(in.IsActive),
	)
	return err
}

func (r *SQLiteRepository) GetTimeBlock(ctx context.Context, id string) (TimeBlock, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, start_hour, start_minute, end_hour, end_minute, color, is_active
		FROM time_blocks WHERE id = ?`, id)
	block, err := scanTimeBlock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TimeBlock{}, ErrNotFound
		}
		return TimeBlock{}, err
	}
	return block, nil
}

func (r *SQLiteRepository) UpdateTimeBlock(ctx context.Context, in TimeBlock) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE time_blocks
		SET name = ?, start_hour = ?, start_minute = ?, end_hour = ?, end_minute = ?, color = ?, is_active = ?
		WHERE id = ?`,
		in.Name, in.StartHour, in.StartMinute, in.EndHour, in.EndMinute, in.Color, boolInt(in.IsActive), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTimeBlock(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_blocks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTimeBlocks(ctx context.Context, filter TimeBlockListFilter) ([]TimeBlock, error) {
	query := `SELECT id, name, start_hour, start_minute, end_hour, end_minute, color, is_active FROM time_blocks`
	args := make([]any, 0, 2)
	if filter.ActiveOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY start_hour ASC, start_minute ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TimeBlock, 0)
	for rows.Next() {
		block, scanErr := scanTimeBlock(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, block)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CountTimeBlocks(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM time_blocks`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (Item, error) {
	var out Item
	var start, end, created, updated string
	var completed int
	var eventID sql.NullString
	var reminder sql.NullInt64
	if err := s.Scan(&out.ID, &out.Title, &out.Notes, &start, &end, &completed, &out.Priority, &eventID, &reminder, &created, &updated); err != nil {
		return Item{}, err
	}
	startAt, err := parseRequiredTime(start)
	if err != nil {
		return Item{}, err
	}
	endAt, err := parseRequiredTime(end)
	if err != nil {
		return Item{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Item{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Item{}, err
	}
	out.StartTime = startAt
	out.EndTime = endAt
	out.IsCompleted = completed == 1
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	if eventID.Valid && eventID.String != "" {
		v := eventID.String
		out.CalendarEventID = &v
	}
	if reminder.Valid {
		v := int(reminder.Int64)
		out.ReminderMinutesBefore = &v
	}
	return out, nil
}

func scanTimeBlock(s scanner) (TimeBlock, error) {
	var out TimeBlock
	var active int
	if err := s.Scan(&out.ID, &out.Name, &out.StartHour, &out.StartMinute, &out.EndHour, &out.EndMinute, &out.Color, &active); err != nil {
		return TimeBlock{}, err
	}
	out.IsActive = active == 1
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func nullString(v *string) any {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}
