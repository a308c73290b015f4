package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sudip-bhr/Task-Management-System-backend/errs"
	"github.com/sudip-bhr/Task-Management-System-backend/logging"
	"github.com/sudip-bhr/Task-Management-System-backend/models"
)

type TaskService struct {
	tasksCollection *mongo.Collection
	usersCollection *mongo.Collection
}

func NewTaskService(tasksCollection, usersCollection *mongo.Collection) *TaskService {
	return &TaskService{
		tasksCollection: tasksCollection,
		usersCollection: usersCollection,
	}
}

// CreateTaskInput carries the fields a client may set when creating a task.
type CreateTaskInput struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Priority      models.TaskPriority `json:"priority"`
	DueDate       time.Time           `json:"dueDate"`
	AssignedTo    []string            `json:"assignedTo"`
	Attachments   []string            `json:"attachments"`
	TodoChecklist []models.TodoItem   `json:"todoChecklist"`
}

// TaskResponse is a task with its assignee references resolved to user data.
type TaskResponse struct {
	models.Task
	AssignedTo         []models.AssigneePreview `json:"assignedTo"`
	// The key matches the original client contract, typo included.
	CompletedTodoCount int `json:"completeTodoCount"`
}

type StatusSummary struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

type TaskListResponse struct {
	Tasks         []TaskResponse `json:"tasks"`
	StatusSummary StatusSummary  `json:"statusSummary"`
}

// CreateTask stores a new task. Status and progress always start at
// Pending/0; the checklist is stored as given, derivation only kicks in on
// later mutations.
func (s *TaskService) CreateTask(ctx context.Context, creator primitive.ObjectID, in CreateTaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, errs.Validation("title is required")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.IsValid() {
		return nil, errs.Validation("priority must be one of Low, Medium, High")
	}

	assignees, err := ParseAssignees(in.AssignedTo)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:            primitive.NewObjectID(),
		Title:         in.Title,
		Description:   in.Description,
		Priority:      in.Priority,
		Status:        models.StatusPending,
		DueDate:       in.DueDate,
		CreatedBy:     creator,
		AssignedTo:    assignees,
		TodoChecklist: in.TodoChecklist,
		Progress:      0,
		Attachments:   in.Attachments,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.tasksCollection.InsertOne(ctx, task); err != nil {
		return nil, errs.Store("insert task", err)
	}

	logging.Logger.Infof("task %s created by %s", task.ID.Hex(), creator.Hex())
	return task, nil
}

// GetTasks lists tasks visible to the actor (admins see everything, members
// only their assignments), optionally filtered by status, together with the
// role-scoped status summary.
func (s *TaskService) GetTasks(ctx context.Context, actorID primitive.ObjectID, role models.Role, statusFilter models.TaskStatus) (*TaskListResponse, error) {
	if statusFilter != "" && !statusFilter.IsValid() {
		return nil, errs.Validation("status must be one of Pending, In Progress, Completed")
	}

	scope := bson.M{}
	if role != models.RoleAdmin {
		scope["assignedTo"] = actorID
	}

	filter := bson.M{}
	for k, v := range scope {
		filter[k] = v
	}
	if statusFilter != "" {
		filter["status"] = statusFilter
	}

	cursor, err := s.tasksCollection.Find(ctx, filter)
	if err != nil {
		return nil, errs.Store("find tasks", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, errs.Store("decode tasks", err)
	}

	responses, err := s.populateAssignees(ctx, tasks)
	if err != nil {
		return nil, err
	}

	summary, err := s.statusSummary(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &TaskListResponse{Tasks: responses, StatusSummary: *summary}, nil
}

func (s *TaskService) statusSummary(ctx context.Context, scope bson.M) (*StatusSummary, error) {
	countWithStatus := func(status models.TaskStatus) (int64, error) {
		filter := bson.M{}
		for k, v := range scope {
			filter[k] = v
		}
		if status != "" {
			filter["status"] = status
		}
		n, err := s.tasksCollection.CountDocuments(ctx, filter)
		if err != nil {
			return 0, errs.Store("count tasks", err)
		}
		return n, nil
	}

	all, err := countWithStatus("")
	if err != nil {
		return nil, err
	}
	pending, err := countWithStatus(models.StatusPending)
	if err != nil {
		return nil, err
	}
	inProgress, err := countWithStatus(models.StatusInProgress)
	if err != nil {
		return nil, err
	}
	completed, err := countWithStatus(models.StatusCompleted)
	if err != nil {
		return nil, err
	}

	return &StatusSummary{
		All:             all,
		PendingTasks:    pending,
		InProgressTasks: inProgress,
		CompletedTasks:  completed,
	}, nil
}

// GetTaskByID returns a single task with populated assignees.
func (s *TaskService) GetTaskByID(ctx context.Context, taskID primitive.ObjectID) (*TaskResponse, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	responses, err := s.populateAssignees(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// UpdateTask applies a partial update. Omitted fields keep their value; a
// patch carrying a checklist re-derives progress and status.
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != "" {
		task.Title = patch.Title
	}
	if patch.Description != "" {
		task.Description = patch.Description
	}
	if patch.Priority != "" {
		if !patch.Priority.IsValid() {
			return nil, errs.Validation("priority must be one of Low, Medium, High")
		}
		task.Priority = patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}
	if patch.Attachments != nil {
		task.Attachments = patch.Attachments
	}
	if patch.TodoChecklist != nil {
		ApplyChecklist(task, patch.TodoChecklist)
	}
	if patch.AssignedTo != nil {
		assignees, err := ParseAssignees(patch.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = assignees
	}

	if err := s.saveTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskStatus sets the status directly. Only assignees and admins may;
// setting Completed overrides the checklist.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, taskID primitive.ObjectID, status models.TaskStatus, actorID primitive.ObjectID, role models.Role) (*models.Task, error) {
	if !status.IsValid() {
		return nil, errs.Validation("status must be one of Pending, In Progress, Completed")
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !CanModifyTask(task, actorID, role) {
		return nil, errs.Authorization("not authorized to update task status")
	}

	ApplyStatus(task, status)

	if err := s.saveTask(ctx, task); err != nil {
		return nil, err
	}

	logging.Logger.Infof("task %s status set to %q by %s", task.ID.Hex(), status, actorID.Hex())
	return task, nil
}

// UpdateTaskChecklist replaces the checklist wholesale and re-derives
// progress and status. Only assignees and admins may.
func (s *TaskService) UpdateTaskChecklist(ctx context.Context, taskID primitive.ObjectID, items []models.TodoItem, actorID primitive.ObjectID, role models.Role) (*TaskResponse, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !CanModifyTask(task, actorID, role) {
		return nil, errs.Authorization("not authorized to update checklist")
	}

	ApplyChecklist(task, items)

	if err := s.saveTask(ctx, task); err != nil {
		return nil, err
	}

	responses, err := s.populateAssignees(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// DeleteTask removes the task permanently. Assignee references are weak, so
// nothing cascades.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	res, err := s.tasksCollection.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		return errs.Store("delete task", err)
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("task")
	}
	logging.Logger.Infof("task %s deleted", taskID.Hex())
	return nil
}

func (s *TaskService) findTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.tasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("task")
	}
	if err != nil {
		return nil, errs.Store("find task", err)
	}
	return &task, nil
}

func (s *TaskService) saveTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()
	_, err := s.tasksCollection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return errs.Store("save task", err)
	}
	return nil
}

// populateAssignees resolves assignee IDs to user previews with one batched
// lookup for the whole slice.
func (s *TaskService) populateAssignees(ctx context.Context, tasks []models.Task) ([]TaskResponse, error) {
	idSet := make(map[primitive.ObjectID]bool)
	for _, task := range tasks {
		for _, id := range task.AssignedTo {
			idSet[id] = true
		}
	}

	users := make(map[primitive.ObjectID]models.AssigneePreview, len(idSet))
	if len(idSet) > 0 {
		ids := make([]primitive.ObjectID, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}

		cursor, err := s.usersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, errs.Store("find assignees", err)
		}
		defer cursor.Close(ctx)

		var found []models.User
		if err := cursor.All(ctx, &found); err != nil {
			return nil, errs.Store("decode assignees", err)
		}
		for _, u := range found {
			users[u.ID] = models.AssigneePreview{
				ID:              u.ID,
				Name:            u.Name,
				Email:           u.Email,
				ProfileImageURL: u.ProfileImageURL,
			}
		}
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		previews := make([]models.AssigneePreview, 0, len(task.AssignedTo))
		for _, id := range task.AssignedTo {
			if preview, ok := users[id]; ok {
				previews = append(previews, preview)
			}
		}

		completed := 0
		for _, item := range task.TodoChecklist {
			if item.Completed {
				completed++
			}
		}

		responses = append(responses, TaskResponse{
			Task:               task,
			AssignedTo:         previews,
			CompletedTodoCount: completed,
		})
	}
	return responses, nil
}
