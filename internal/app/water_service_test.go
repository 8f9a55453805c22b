package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"nutritrack/internal/app"
	"nutritrack/internal/domain"
)

type mockWaterRepo struct {
	addFn    func(ctx context.Context, w domain.WaterIntake) (int64, error)
	listFn   func(ctx context.Context, userID int64) ([]domain.WaterIntake, error)
	updateFn func(ctx context.Context, userID, id int64, p domain.WaterPatch) (int64, error)
	delFn    func(ctx context.Context, userID, id int64) (int64, error)
}

func (m *mockWaterRepo) AddWater(ctx context.Context, w domain.WaterIntake) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, w)
	}
	return 1, nil
}

func (m *mockWaterRepo) ListWater(ctx context.Context, userID int64) ([]domain.WaterIntake, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockWaterRepo) UpdateWater(ctx context.Context, userID, id int64, p domain.WaterPatch) (int64, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, p)
	}
	return 1, nil
}

func (m *mockWaterRepo) DeleteWater(ctx context.Context, userID, id int64) (int64, error) {
	if m.delFn != nil {
		return m.delFn(ctx, userID, id)
	}
	return 1, nil
}

// owners is a fixed record -> owner table.
type owners map[int64]int64

func (o owners) OwnerOf(_ context.Context, _ domain.Kind, id int64) (int64, error) {
	owner, ok := o[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return owner, nil
}

func policy(o owners) *domain.OwnershipPolicy {
	return domain.NewOwnershipPolicy(o)
}

func TestWaterService_Add_Validation(t *testing.T) {
	svc := app.NewWaterService(&mockWaterRepo{}, policy(nil))
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      domain.WaterIntake
		wantErr bool
	}{
		{"valid", domain.WaterIntake{UserID: 1, DateTime: now, Liters: 0.5}, false},
		{"zero liters", domain.WaterIntake{UserID: 1, DateTime: now, Liters: 0}, false},
		{"upper bound", domain.WaterIntake{UserID: 1, DateTime: now, Liters: 10}, false},
		{"negative", domain.WaterIntake{UserID: 1, DateTime: now, Liters: -0.1}, true},
		{"too much", domain.WaterIntake{UserID: 1, DateTime: now, Liters: 10.5}, true},
		{"missing time", domain.WaterIntake{UserID: 1, Liters: 1}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("wantErr=%v, got %v", tc.wantErr, err)
			}
			if err != nil && !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestWaterService_Update_OtherUsersRecord(t *testing.T) {
	repo := &mockWaterRepo{
		updateFn: func(ctx context.Context, userID, id int64, p domain.WaterPatch) (int64, error) {
			t.Fatal("repository must not be reached for a foreign record")
			return 0, nil
		},
	}
	svc := app.NewWaterService(repo, policy(owners{5: 2}))

	liters := 1.0
	err := svc.Update(context.Background(), 1, 5, domain.WaterPatch{Liters: &liters})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWaterService_Delete(t *testing.T) {
	var gotUser, gotID int64
	repo := &mockWaterRepo{
		delFn: func(ctx context.Context, userID, id int64) (int64, error) {
			gotUser, gotID = userID, id
			return 1, nil
		},
	}
	svc := app.NewWaterService(repo, policy(owners{5: 1}))

	if err := svc.Delete(context.Background(), 1, 5); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotUser != 1 || gotID != 5 {
		t.Errorf("unexpected delete args user=%d id=%d", gotUser, gotID)
	}
}

func TestWaterService_Delete_NoRowsIsNotFound(t *testing.T) {
	repo := &mockWaterRepo{
		delFn: func(ctx context.Context, userID, id int64) (int64, error) { return 0, nil },
	}
	svc := app.NewWaterService(repo, policy(owners{5: 1}))
	if err := svc.Delete(context.Background(), 1, 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
