package report

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/gearguard/internal/maintenance"
)

type RepositoryAPI interface {
	StageCounts(ctx context.Context) ([]StageCount, error)
	TeamWorkloads(ctx context.Context, openStages []string) ([]TeamWorkload, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// StageSummary counts requests per stage. Every declared stage is present,
// in lifecycle order, even when it has no requests.
func (s *Service) StageSummary(ctx context.Context) ([]StageCount, error) {
	counts, err := s.repo.StageCounts(ctx)
	if err != nil {
		s.logger.Error("failed to summarise stages", "error", err)
		return nil, err
	}
	byStage := make(map[string]int64, len(counts))
	for _, c := range counts {
		byStage[c.Stage] = c.Count
	}
	out := make([]StageCount, 0, len(maintenance.Stages))
	for _, st := range maintenance.Stages {
		out = append(out, StageCount{Stage: string(st), Count: byStage[string(st)]})
	}
	return out, nil
}

// TeamWorkload reports open requests and total hours per team.
func (s *Service) TeamWorkload(ctx context.Context) ([]TeamWorkload, error) {
	var open []string
	for _, st := range maintenance.Stages {
		if st.IsOpen() {
			open = append(open, string(st))
		}
	}
	rows, err := s.repo.TeamWorkloads(ctx, open)
	if err != nil {
		s.logger.Error("failed to compute team workload", "error", err)
		return nil, err
	}
	return rows, nil
}
