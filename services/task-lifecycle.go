package services

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sudip-bhr/Task-Management-System-backend/errs"
	"github.com/sudip-bhr/Task-Management-System-backend/models"
)

// ChecklistProgress returns the completed percentage of a checklist, rounded
// half up. An empty checklist counts as 0, not 100.
func ChecklistProgress(items []models.TodoItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(items)) * 100))
}

// StatusForProgress derives the task status from its progress percentage.
func StatusForProgress(progress int) models.TaskStatus {
	switch {
	case progress == 100:
		return models.StatusCompleted
	case progress > 0:
		return models.StatusInProgress
	default:
		return models.StatusPending
	}
}

// ApplyChecklist replaces the task's checklist wholesale and re-derives
// progress and status. Every checklist mutation must go through here so the
// derivation rule lives in one place.
func ApplyChecklist(task *models.Task, items []models.TodoItem) {
	task.TodoChecklist = items
	task.Progress = ChecklistProgress(items)
	task.Status = StatusForProgress(task.Progress)
}

// ApplyStatus sets the status directly. Completing a task this way overrides
// the checklist: every item is forced done and progress jumps to 100. The
// override is idempotent.
func ApplyStatus(task *models.Task, status models.TaskStatus) {
	task.Status = status
	if status == models.StatusCompleted {
		for i := range task.TodoChecklist {
			task.TodoChecklist[i].Completed = true
		}
		task.Progress = 100
	}
}

// IsAssignee reports whether the user is in the task's assignee set.
func IsAssignee(task *models.Task, userID primitive.ObjectID) bool {
	for _, id := range task.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// CanModifyTask reports whether the actor may change the task's status or
// checklist: assignees and admins may, everyone else may not.
func CanModifyTask(task *models.Task, userID primitive.ObjectID, role models.Role) bool {
	return role == models.RoleAdmin || IsAssignee(task, userID)
}

// ParseAssignees validates an incoming assignee list as a proper set of user
// references: every element a valid object id, no duplicates.
func ParseAssignees(ids []string) ([]primitive.ObjectID, error) {
	assignees := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, raw := range ids {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, errs.Validation("assignedTo must be an array of user IDs")
		}
		if seen[id] {
			return nil, errs.Validation("assignedTo contains duplicate user IDs")
		}
		seen[id] = true
		assignees = append(assignees, id)
	}
	return assignees, nil
}
