package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// StatusCount 某个状态的订单数与金额汇总
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
	Amount int64  `db:"amount" json:"amount"`
}

// StatsOverview 管理端仪表盘汇总
type StatsOverview struct {
	Total    int64         `json:"total"`
	Revenue  int64         `json:"revenue"` // paid 状态的金额合计
	ByStatus []StatusCount `json:"byStatus"`
}

// StatsRepository 报表类只读查询，走 sqlx 直连
type StatsRepository interface {
	GetOverview(ctx context.Context) (*StatsOverview, error)
}

type statsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository 创建报表仓库
func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetOverview(ctx context.Context) (*StatsOverview, error) {
	overview := &StatsOverview{}

	query := `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount
		FROM payments
		WHERE deleted_at IS NULL
		GROUP BY status
		ORDER BY status`

	if err := r.db.SelectContext(ctx, &overview.ByStatus, query); err != nil {
		return nil, err
	}

	for _, sc := range overview.ByStatus {
		overview.Total += sc.Count
		if sc.Status == "paid" {
			overview.Revenue += sc.Amount
		}
	}

	return overview, nil
}
