package services

import (
	"time"

	"facility-monitoring/be/models"

	"gorm.io/gorm"
)

// StatsService computes dashboard rollups. Each per-entity rollup comes
// from a single GROUP BY query so total and derived counts reflect one
// snapshot of the store.
type StatsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db, now: time.Now}
}

// WithClock overrides the clock used by the online predicate.
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

type statusCount struct {
	Status string
	Count  int64
}

func (s *StatsService) countByStatus(model interface{}) (map[string]int64, error) {
	var rows []statusCount
	err := s.db.Model(model).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (s *StatsService) BuildingStats() (ActivityRollup, error) {
	counts, err := s.countByStatus(&models.Building{})
	if err != nil {
		return ActivityRollup{}, err
	}
	return FoldActivity(counts), nil
}

func (s *StatsService) RoomStats() (ActivityRollup, error) {
	counts, err := s.countByStatus(&models.Room{})
	if err != nil {
		return ActivityRollup{}, err
	}
	return FoldActivity(counts), nil
}

func (s *StatsService) CameraStats() (CameraRollup, error) {
	counts, err := s.countByStatus(&models.Camera{})
	if err != nil {
		return CameraRollup{}, err
	}
	return FoldCameras(counts), nil
}

func (s *StatsService) UserStats() (UserRollup, error) {
	counts, err := s.countByStatus(&models.User{})
	if err != nil {
		return UserRollup{}, err
	}

	var online int64
	cutoff := s.now().Add(-UserOnlineWindow)
	err = s.db.Model(&models.User{}).
		Where("last_login_at IS NOT NULL AND last_login_at >= ?", cutoff).
		Count(&online).Error
	if err != nil {
		return UserRollup{}, err
	}

	return FoldUsers(counts, online), nil
}

// Now exposes the service clock so handlers evaluate per-user online
// flags against the same time source.
func (s *StatsService) Now() time.Time {
	return s.now()
}
