package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sony/gobreaker"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sudip-bhr/Task-Management-System-backend/errs"
	"github.com/sudip-bhr/Task-Management-System-backend/models"
)

// ReportService renders spreadsheet snapshots of the task and user data.
type ReportService struct {
	tasksCollection *mongo.Collection
	usersCollection *mongo.Collection
	breaker         *gobreaker.CircuitBreaker
}

func NewReportService(tasksCollection, usersCollection *mongo.Collection, breaker *gobreaker.CircuitBreaker) *ReportService {
	return &ReportService{
		tasksCollection: tasksCollection,
		usersCollection: usersCollection,
		breaker:         breaker,
	}
}

// UserReportRow is one line of the per-user report.
type UserReportRow struct {
	Name            string
	Email           string
	TaskCount       int64
	PendingTasks    int64
	InProgressTasks int64
	CompletedTasks  int64
}

// ExportTasksReport snapshots every task into a workbook.
func (s *ReportService) ExportTasksReport(ctx context.Context) (*excelize.File, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.snapshot(ctx)
	})
	if err != nil {
		return nil, errs.Store("report snapshot", err)
	}
	snap := result.(*reportSnapshot)
	return BuildTasksWorkbook(snap.tasks, snap.users)
}

// ExportUsersReport snapshots per-user task counts into a workbook.
func (s *ReportService) ExportUsersReport(ctx context.Context) (*excelize.File, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.snapshot(ctx)
	})
	if err != nil {
		return nil, errs.Store("report snapshot", err)
	}
	snap := result.(*reportSnapshot)
	return BuildUsersWorkbook(BuildUserReportRows(snap.users, snap.tasks))
}

type reportSnapshot struct {
	tasks []models.Task
	users []models.User
}

func (s *ReportService) snapshot(ctx context.Context) (*reportSnapshot, error) {
	cursor, err := s.tasksCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}

	userCursor, err := s.usersCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer userCursor.Close(ctx)

	var users []models.User
	if err := userCursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return &reportSnapshot{tasks: tasks, users: users}, nil
}

// BuildTasksWorkbook renders the task report: one row per task with its
// assignees formatted as "Name (email)".
func BuildTasksWorkbook(tasks []models.Task, users []models.User) (*excelize.File, error) {
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	f := excelize.NewFile()
	const sheet = "Tasks Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []interface{}{"Task ID", "Title", "Description", "Priority", "Status", "Due Date", "Assigned To"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	for i, task := range tasks {
		names := make([]string, 0, len(task.AssignedTo))
		for _, id := range task.AssignedTo {
			if u, ok := byID[id]; ok {
				names = append(names, fmt.Sprintf("%s (%s)", u.Name, u.Email))
			}
		}
		assigned := "Unassigned"
		if len(names) > 0 {
			assigned = strings.Join(names, ", ")
		}

		dueDate := "N/A"
		if !task.DueDate.IsZero() {
			dueDate = task.DueDate.Format("2006-01-02")
		}

		row := []interface{}{
			task.ID.Hex(),
			task.Title,
			task.Description,
			string(task.Priority),
			string(task.Status),
			dueDate,
			assigned,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// BuildUserReportRows tallies assigned tasks per user by status.
func BuildUserReportRows(users []models.User, tasks []models.Task) []UserReportRow {
	index := make(map[primitive.ObjectID]int, len(users))
	rows := make([]UserReportRow, 0, len(users))
	for _, u := range users {
		index[u.ID] = len(rows)
		rows = append(rows, UserReportRow{Name: u.Name, Email: u.Email})
	}

	for _, task := range tasks {
		for _, id := range task.AssignedTo {
			i, ok := index[id]
			if !ok {
				continue
			}
			rows[i].TaskCount++
			switch task.Status {
			case models.StatusPending:
				rows[i].PendingTasks++
			case models.StatusInProgress:
				rows[i].InProgressTasks++
			case models.StatusCompleted:
				rows[i].CompletedTasks++
			}
		}
	}
	return rows
}

// BuildUsersWorkbook renders the per-user task count report.
func BuildUsersWorkbook(rows []UserReportRow) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "User Task Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []interface{}{"User Name", "Email", "Total Assigned Tasks", "Pending Tasks", "In Progress Tasks", "Completed Tasks"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	for i, row := range rows {
		values := []interface{}{
			row.Name,
			row.Email,
			row.TaskCount,
			row.PendingTasks,
			row.InProgressTasks,
			row.CompletedTasks,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	return f, nil
}
