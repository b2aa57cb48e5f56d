package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fittrack/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	rowTypeMeal    = "Meal"
	rowTypeWorkout = "Workout"
)

var csvHeader = []string{"Type", "Name", "Date", "Calories", "Duration", "Calories Burned"}

type PortabilityService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPortabilityService(db *gorm.DB, log *zap.Logger) *PortabilityService {
	return &PortabilityService{db: db, log: log}
}

// ExportCSV renders all of the user's meals and workouts, meals first,
// each group oldest to newest.
func (s *PortabilityService) ExportCSV(ctx context.Context, userID uint) ([]byte, error) {
	var meals []models.Meal
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ate_at ASC").
		Find(&meals).Error; err != nil {
		return nil, err
	}
	var workouts []models.Workout
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("performed_at ASC").
		Find(&workouts).Error; err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, m := range meals {
		row := []string{rowTypeMeal, m.Name, m.AteAt.Format(time.RFC3339), strconv.Itoa(m.Calories), "", ""}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	for _, wo := range workouts {
		burned := ""
		if wo.CaloriesBurned != nil {
			burned = strconv.Itoa(*wo.CaloriesBurned)
		}
		row := []string{rowTypeWorkout, wo.Name, wo.PerformedAt.Format(time.RFC3339), "", wo.Duration, burned}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCSV reads rows in the export format. Malformed rows are
// skipped, never fatal, so a partially hand-edited file still loads.
func (s *PortabilityService) ImportCSV(ctx context.Context, userID uint, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ImportResult{}
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}
		if first {
			first = false
			if len(row) > 0 && strings.EqualFold(row[0], "type") {
				continue
			}
		}
		if err := s.importRow(ctx, userID, row); err != nil {
			s.log.Debug("import row skipped", zap.Strings("row", row), zap.Error(err))
			result.Skipped++
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *PortabilityService) importRow(ctx context.Context, userID uint, row []string) error {
	if len(row) < 6 {
		return fmt.Errorf("expected 6 columns, got %d", len(row))
	}
	name := strings.TrimSpace(row[1])
	if name == "" {
		return fmt.Errorf("missing name")
	}
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(row[2]))
	if err != nil {
		return fmt.Errorf("bad date %q: %w", row[2], err)
	}

	switch strings.TrimSpace(row[0]) {
	case rowTypeMeal:
		calories, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil || calories < 0 {
			return fmt.Errorf("bad calories %q", row[3])
		}
		meal := models.Meal{UserID: userID, Name: name, Calories: calories, AteAt: at}
		return s.db.WithContext(ctx).Create(&meal).Error
	case rowTypeWorkout:
		workout := models.Workout{UserID: userID, Name: name, Duration: strings.TrimSpace(row[4]), PerformedAt: at}
		if burned := strings.TrimSpace(row[5]); burned != "" {
			n, err := strconv.Atoi(burned)
			if err != nil || n < 0 {
				return fmt.Errorf("bad calories burned %q", row[5])
			}
			workout.CaloriesBurned = &n
		}
		return s.db.WithContext(ctx).Create(&workout).Error
	default:
		return fmt.Errorf("unknown row type %q", row[0])
	}
}
