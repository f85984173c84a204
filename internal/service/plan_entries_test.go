package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atinyakov/WorkPlanner/internal/models"
	"github.com/atinyakov/WorkPlanner/internal/repository"
)

func planEntryService(entries *mockPlanEntryRepo) *PlanEntryService {
	return NewPlanEntryService(entries, &mockTeamRepo{GetFunc: teamsFound(3)}, &mockUserRepo{GetFunc: usersFound(2)})
}

func TestPlanEntryCreate(t *testing.T) {
	var rec repository.PlanEntryRecord
	svc := planEntryService(&mockPlanEntryRepo{
		CreateFunc: func(ctx context.Context, teamID, userID int64, r repository.PlanEntryRecord) (int64, error) {
			if teamID != 3 || userID != 2 {
				t.Errorf("Create(%d, %d); want (3, 2)", teamID, userID)
			}
			rec = r
			return 11, nil
		},
	})

	e, err := svc.Create(context.Background(), 3, 2, models.PlanEntry{
		Title:          "Sprint",
		StartTime:      "2024-01-01 08:00:00",
		EndTime:        "2024-01-01T16:00:00",
		PlanEntryColor: models.Gray,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	want := models.PlanEntry{
		ID:             11,
		Title:          "Sprint",
		StartTime:      "2024-01-01T08:00:00",
		EndTime:        "2024-01-01T16:00:00",
		PlanEntryColor: models.Gray,
	}
	if e != want {
		t.Errorf("entry = %+v; want %+v", e, want)
	}
	if !rec.Start.Equal(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("stored start = %v", rec.Start)
	}
}

func TestPlanEntryCreate_Validation(t *testing.T) {
	svc := planEntryService(&mockPlanEntryRepo{})

	tests := []struct {
		name  string
		entry models.PlanEntry
		want  int
	}{
		{"everything wrong", models.PlanEntry{Title: "x"}, 4},
		{"end before start", models.PlanEntry{
			Title: "Sprint", StartTime: "2024-01-01T16:00:00", EndTime: "2024-01-01T08:00:00", PlanEntryColor: models.Red,
		}, 1},
		{"unknown color", models.PlanEntry{
			Title: "Sprint", StartTime: "2024-01-01T08:00:00", EndTime: "2024-01-01T16:00:00", PlanEntryColor: "PINK",
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 3, 2, tt.entry)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v; want *ValidationError", err)
			}
			if len(verr.Messages) != tt.want {
				t.Errorf("messages = %q; want %d", verr.Messages, tt.want)
			}
		})
	}
}

func TestPlanEntryListFor_Unknown(t *testing.T) {
	svc := planEntryService(&mockPlanEntryRepo{})
	ctx := context.Background()

	if _, err := svc.ListFor(ctx, 4, 2); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("error = %v; want ErrTeamNotFound", err)
	}
	if _, err := svc.ListFor(ctx, 3, 5); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v; want ErrUserNotFound", err)
	}
}

func TestPlanEntryGetAndDelete(t *testing.T) {
	svc := planEntryService(&mockPlanEntryRepo{
		GetFunc: func(ctx context.Context, id int64) (models.PlanEntry, error) {
			return models.PlanEntry{}, repository.ErrNotFound
		},
		DeleteFunc: func(ctx context.Context, id int64) error { return repository.ErrNotFound },
	})
	ctx := context.Background()

	if _, err := svc.Get(ctx, 1); !errors.Is(err, ErrPlanEntryNotFound) {
		t.Errorf("Get error = %v; want ErrPlanEntryNotFound", err)
	}
	if err := svc.Delete(ctx, 1); !errors.Is(err, ErrPlanEntryNotFound) {
		t.Errorf("Delete error = %v; want ErrPlanEntryNotFound", err)
	}
}
