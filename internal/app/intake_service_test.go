package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"nutritrack/internal/app"
	"nutritrack/internal/domain"
)

type mockIntakeRepo struct {
	recordFn func(ctx context.Context, in domain.NewIntake) (*domain.IntakeRecord, error)
	updateFn func(ctx context.Context, userID, id int64, p domain.IntakePatch) (int64, error)
}

func (m *mockIntakeRepo) RecordIntake(ctx context.Context, in domain.NewIntake) (*domain.IntakeRecord, error) {
	if m.recordFn != nil {
		return m.recordFn(ctx, in)
	}
	return &domain.IntakeRecord{ID: 1, UserID: in.UserID, MealID: in.MealID}, nil
}

func (m *mockIntakeRepo) ListIntakes(ctx context.Context, userID int64) ([]domain.IntakeRecord, error) {
	return nil, nil
}

func (m *mockIntakeRepo) UpdateIntake(ctx context.Context, userID, id int64, p domain.IntakePatch) (int64, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, p)
	}
	return 1, nil
}

func (m *mockIntakeRepo) DeleteIntake(ctx context.Context, userID, id int64) (int64, error) {
	return 1, nil
}

func TestIntakeService_Record_MissingMeal(t *testing.T) {
	repo := &mockIntakeRepo{
		recordFn: func(ctx context.Context, in domain.NewIntake) (*domain.IntakeRecord, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := app.NewIntakeService(repo, policy(nil))

	_, err := svc.Record(context.Background(), domain.NewIntake{
		UserID:          1,
		MealID:          99,
		MealWeight:      100,
		ConsumptionTime: time.Now(),
	})
	if !errors.Is(err, app.ErrMealNotFound) {
		t.Fatalf("expected ErrMealNotFound, got %v", err)
	}
}

func TestIntakeService_Record_Validation(t *testing.T) {
	svc := app.NewIntakeService(&mockIntakeRepo{}, policy(nil))
	now := time.Now()

	tests := []struct {
		name string
		in   domain.NewIntake
	}{
		{"no meal", domain.NewIntake{UserID: 1, MealWeight: 100, ConsumptionTime: now}},
		{"zero weight", domain.NewIntake{UserID: 1, MealID: 1, ConsumptionTime: now}},
		{"no time", domain.NewIntake{UserID: 1, MealID: 1, MealWeight: 100}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Record(context.Background(), tc.in); !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestIntakeService_Update_PassesPatchThrough(t *testing.T) {
	var got domain.IntakePatch
	repo := &mockIntakeRepo{
		updateFn: func(ctx context.Context, userID, id int64, p domain.IntakePatch) (int64, error) {
			got = p
			return 1, nil
		},
	}
	svc := app.NewIntakeService(repo, policy(owners{3: 1}))

	w := 150.0
	if err := svc.Update(context.Background(), 1, 3, domain.IntakePatch{MealWeight: &w}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.MealWeight == nil || *got.MealWeight != 150 {
		t.Errorf("expected weight 150 to reach the repository, got %+v", got)
	}
}

func TestIntakeService_Update_Unauthenticated(t *testing.T) {
	svc := app.NewIntakeService(&mockIntakeRepo{}, policy(owners{3: 1}))
	err := svc.Update(context.Background(), 0, 3, domain.IntakePatch{})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
