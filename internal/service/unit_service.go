package service

import (
	"context"

	"stocktrack/internal/dto"
	"stocktrack/internal/repository"
)

// UnitService exposes the measurement unit lookup table. Units are seeded at
// install time and referenced by materials; the API only reads them.
type UnitService interface {
	List(ctx context.Context) ([]dto.UnitResponse, error)
}

type unitService struct {
	repo repository.UnitRepository
}

func NewUnitService(repo repository.UnitRepository) UnitService {
	return &unitService{repo: repo}
}

func (s *unitService) List(ctx context.Context) ([]dto.UnitResponse, error) {
	units, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, dto.UnitResponse{
			ID:        u.ID.String(),
			Name:      u.Name,
			ShortName: u.ShortName,
		})
	}
	return out, nil
}
