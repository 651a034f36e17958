// Package report answers read-only aggregate questions over maintenance requests.
package report

import (
	"github.com/shopspring/decimal"
)

type StageCount struct {
	Stage string `db:"stage" json:"stage"`
	Count int64  `db:"count" json:"count"`
}

type TeamWorkload struct {
	TeamID       int64           `db:"team_id" json:"team_id"`
	TeamName     string          `db:"team_name" json:"team_name"`
	OpenRequests int64           `db:"open_requests" json:"open_requests"`
	HoursSpent   decimal.Decimal `db:"hours_spent" json:"hours_spent"`
}
