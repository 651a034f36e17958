package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/gearguard/internal/report"
	"github.com/jmoiron/sqlx"
)

// ReportRepository runs aggregate SQL directly through sqlx on the shared pool.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const stageCountsQuery = `
SELECT stage, COUNT(*) AS count
FROM maintenance_requests
GROUP BY stage`

func (r *ReportRepository) StageCounts(ctx context.Context) ([]report.StageCount, error) {
	var rows []report.StageCount
	if err := r.db.SelectContext(ctx, &rows, stageCountsQuery); err != nil {
		return nil, fmt.Errorf("stage counts: %w", err)
	}
	return rows, nil
}

const teamWorkloadQuery = `
SELECT t.id AS team_id,
       t.name AS team_name,
       COALESCE(SUM(CASE WHEN r.stage IN (?) THEN 1 ELSE 0 END), 0) AS open_requests,
       COALESCE(SUM(r.hours_spent), 0) AS hours_spent
FROM maintenance_teams t
LEFT JOIN maintenance_requests r ON r.assigned_team_id = t.id
GROUP BY t.id, t.name
ORDER BY t.name`

func (r *ReportRepository) TeamWorkloads(ctx context.Context, openStages []string) ([]report.TeamWorkload, error) {
	query, args, err := sqlx.In(teamWorkloadQuery, openStages)
	if err != nil {
		return nil, fmt.Errorf("team workload: %w", err)
	}
	var rows []report.TeamWorkload
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("team workload: %w", err)
	}
	return rows, nil
}
