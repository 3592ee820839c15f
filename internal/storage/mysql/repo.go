package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"groupstay_crm/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Repo is the MySQL-backed sync log. Rows are only ever inserted.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var _ domain.SyncLogRepository = (*Repo)(nil)

func (r *Repo) Insert(ctx context.Context, l domain.SyncLog) error {
	created := l.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, insertSyncLogSQL,
		l.ID,
		string(l.EntityType),
		l.EntityID,
		valStr(l.CRMID),
		string(l.Action),
		string(l.Status),
		valStr(l.RequestData),
		valStr(l.ResponseData),
		valStr(l.ErrorMessage),
		created.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert sync log: %w", err)
	}
	return nil
}

func (r *Repo) Recent(ctx context.Context, limit int) ([]domain.SyncLog, error) {
	rows, err := r.db.QueryContext(ctx, recentSyncLogsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent sync logs: %w", err)
	}
	return scanLogs(rows)
}

func (r *Repo) ByEntity(ctx context.Context, t domain.EntityType, entityID string) ([]domain.SyncLog, error) {
	rows, err := r.db.QueryContext(ctx, entitySyncLogsSQL, string(t), entityID)
	if err != nil {
		return nil, fmt.Errorf("query sync logs for %s %s: %w", t, entityID, err)
	}
	return scanLogs(rows)
}

func scanLogs(rows *sql.Rows) ([]domain.SyncLog, error) {
	defer rows.Close()

	out := []domain.SyncLog{}
	for rows.Next() {
		var (
			l                       domain.SyncLog
			entityType, action, st  string
			crmID, reqData, resData sql.NullString
			errMsg                  sql.NullString
		)
		if err := rows.Scan(
			&l.ID,
			&entityType,
			&l.EntityID,
			&crmID,
			&action,
			&st,
			&reqData,
			&resData,
			&errMsg,
			&l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sync log: %w", err)
		}
		l.EntityType = domain.EntityType(entityType)
		l.Action = domain.SyncAction(action)
		l.Status = domain.SyncStatus(st)
		l.CRMID = nullToPtr(crmID)
		l.RequestData = nullToPtr(reqData)
		l.ResponseData = nullToPtr(resData)
		l.ErrorMessage = nullToPtr(errMsg)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
