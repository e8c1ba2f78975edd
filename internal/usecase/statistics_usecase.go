package usecase

import (
	"context"

	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
)

type StatisticsUseCase struct {
	repo StatisticsRepository
}

func NewStatisticsUC(repo StatisticsRepository) *StatisticsUseCase {
	return &StatisticsUseCase{repo: repo}
}

// ProductStats — продажи по товарам, по убыванию проданного количества.
func (s *StatisticsUseCase) ProductStats(ctx context.Context) ([]domain.ProductStats, error) {
	const op = "StatisticsUseCase.ProductStats"

	stats, err := s.repo.ProductStats(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return stats, nil
}

// CustomerStats — клиенты по убыванию потраченной суммы.
func (s *StatisticsUseCase) CustomerStats(ctx context.Context) ([]domain.CustomerStats, error) {
	const op = "StatisticsUseCase.CustomerStats"

	stats, err := s.repo.CustomerStats(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return stats, nil
}
