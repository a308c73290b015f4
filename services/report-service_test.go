package services

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sudip-bhr/Task-Management-System-backend/models"
)

func TestBuildUserReportRows(t *testing.T) {
	alice := models.User{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@example.com"}
	bob := models.User{ID: primitive.NewObjectID(), Name: "Bob", Email: "bob@example.com"}

	tasks := []models.Task{
		{Status: models.StatusPending, AssignedTo: []primitive.ObjectID{alice.ID}},
		{Status: models.StatusInProgress, AssignedTo: []primitive.ObjectID{alice.ID, bob.ID}},
		{Status: models.StatusCompleted, AssignedTo: []primitive.ObjectID{alice.ID}},
		// Stale reference: deleted user, must not panic or count anywhere.
		{Status: models.StatusPending, AssignedTo: []primitive.ObjectID{primitive.NewObjectID()}},
		// Unassigned task counts for nobody.
		{Status: models.StatusPending},
	}

	rows := BuildUserReportRows([]models.User{alice, bob}, tasks)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].Name != "Alice" || rows[0].TaskCount != 3 ||
		rows[0].PendingTasks != 1 || rows[0].InProgressTasks != 1 || rows[0].CompletedTasks != 1 {
		t.Fatalf("unexpected row for Alice: %+v", rows[0])
	}
	if rows[1].Name != "Bob" || rows[1].TaskCount != 1 || rows[1].InProgressTasks != 1 {
		t.Fatalf("unexpected row for Bob: %+v", rows[1])
	}
}

func TestBuildTasksWorkbook(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@example.com"}
	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tasks := []models.Task{
		{
			ID:         primitive.NewObjectID(),
			Title:      "Ship release",
			Priority:   models.PriorityHigh,
			Status:     models.StatusInProgress,
			DueDate:    due,
			AssignedTo: []primitive.ObjectID{user.ID},
		},
		{
			ID:       primitive.NewObjectID(),
			Title:    "Write docs",
			Priority: models.PriorityLow,
			Status:   models.StatusPending,
		},
	}

	f, err := BuildTasksWorkbook(tasks, []models.User{user})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	const sheet = "Tasks Report"

	header, err := f.GetCellValue(sheet, "A1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if header != "Task ID" {
		t.Fatalf("A1 = %q, want %q", header, "Task ID")
	}

	checks := map[string]string{
		"B2": "Ship release",
		"D2": "High",
		"E2": "In Progress",
		"F2": "2026-03-15",
		"G2": "Alice (alice@example.com)",
		"B3": "Write docs",
		"F3": "N/A",
		"G3": "Unassigned",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestBuildUsersWorkbook(t *testing.T) {
	rows := []UserReportRow{
		{Name: "Alice", Email: "alice@example.com", TaskCount: 3, PendingTasks: 1, InProgressTasks: 1, CompletedTasks: 1},
	}

	f, err := BuildUsersWorkbook(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	const sheet = "User Task Report"

	checks := map[string]string{
		"A1": "User Name",
		"A2": "Alice",
		"B2": "alice@example.com",
		"C2": "3",
		"D2": "1",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}
