package services

import (
	"context"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sudip-bhr/Task-Management-System-backend/errs"
	"github.com/sudip-bhr/Task-Management-System-backend/models"
)

const recentTaskLimit = 15

type DashboardService struct {
	tasksCollection *mongo.Collection
	breaker         *gobreaker.CircuitBreaker
}

func NewDashboardService(tasksCollection *mongo.Collection, breaker *gobreaker.CircuitBreaker) *DashboardService {
	return &DashboardService{
		tasksCollection: tasksCollection,
		breaker:         breaker,
	}
}

type DashboardStatistics struct {
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}

type DashboardCharts struct {
	TaskDistribution   map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevels map[string]int64 `json:"taskPriorityLevels"`
}

type RecentTask struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	Title     string              `bson:"title" json:"title"`
	Status    models.TaskStatus   `bson:"status" json:"status"`
	Priority  models.TaskPriority `bson:"priority" json:"priority"`
	DueDate   time.Time           `bson:"dueDate" json:"dueDate"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

type DashboardData struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []RecentTask        `json:"recentTasks"`
}

// SystemDashboard aggregates over every task in the store.
func (s *DashboardService) SystemDashboard(ctx context.Context) (*DashboardData, error) {
	return s.dashboard(ctx, bson.M{})
}

// UserDashboard aggregates over the tasks assigned to one user.
func (s *DashboardService) UserDashboard(ctx context.Context, userID primitive.ObjectID) (*DashboardData, error) {
	return s.dashboard(ctx, bson.M{"assignedTo": userID})
}

// dashboard runs the scoped counts, distributions and recent-task query. The
// reads are independent snapshots (no cross-query isolation, per the
// read-mostly contract) and go through the circuit breaker so a down store
// fails fast instead of timing out once per count.
func (s *DashboardService) dashboard(ctx context.Context, scope bson.M) (*DashboardData, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.fetchDashboard(ctx, scope)
	})
	if err != nil {
		return nil, errs.Store("dashboard aggregation", err)
	}
	return result.(*DashboardData), nil
}

func (s *DashboardService) fetchDashboard(ctx context.Context, scope bson.M) (*DashboardData, error) {
	count := func(extra bson.M) (int64, error) {
		filter := bson.M{}
		for k, v := range scope {
			filter[k] = v
		}
		for k, v := range extra {
			filter[k] = v
		}
		return s.tasksCollection.CountDocuments(ctx, filter)
	}

	total, err := count(nil)
	if err != nil {
		return nil, err
	}
	pending, err := count(bson.M{"status": models.StatusPending})
	if err != nil {
		return nil, err
	}
	completed, err := count(bson.M{"status": models.StatusCompleted})
	if err != nil {
		return nil, err
	}
	overdue, err := count(bson.M{
		"status":  bson.M{"$ne": models.StatusCompleted},
		"dueDate": bson.M{"$lt": time.Now()},
	})
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.groupCounts(ctx, scope, "$status")
	if err != nil {
		return nil, err
	}
	priorityCounts, err := s.groupCounts(ctx, scope, "$priority")
	if err != nil {
		return nil, err
	}

	recent, err := s.recentTasks(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		Statistics: DashboardStatistics{
			TotalTasks:     total,
			PendingTasks:   pending,
			CompletedTasks: completed,
			OverdueTasks:   overdue,
		},
		Charts: DashboardCharts{
			TaskDistribution:   buildStatusDistribution(statusCounts, total),
			TaskPriorityLevels: buildPriorityDistribution(priorityCounts),
		},
		RecentTasks: recent,
	}, nil
}

// groupCounts runs a $group aggregation over the scope and returns counts
// keyed by the grouped field value.
func (s *DashboardService) groupCounts(ctx context.Context, scope bson.M, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: scope}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.tasksCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

func (s *DashboardService) recentTasks(ctx context.Context, scope bson.M) ([]RecentTask, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(recentTaskLimit).
		SetProjection(bson.M{"title": 1, "status": 1, "priority": 1, "dueDate": 1, "createdAt": 1})

	cursor, err := s.tasksCollection.Find(ctx, scope, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recent := []RecentTask{}
	if err := cursor.All(ctx, &recent); err != nil {
		return nil, err
	}
	return recent, nil
}

// buildStatusDistribution zero-fills every status bucket (keys with spaces
// stripped, e.g. "InProgress") and adds the "All" bucket. Clients index these
// keys directly, so each one must be present even at zero.
func buildStatusDistribution(counts map[string]int64, total int64) map[string]int64 {
	distribution := make(map[string]int64, len(models.TaskStatuses)+1)
	for _, status := range models.TaskStatuses {
		key := strings.ReplaceAll(string(status), " ", "")
		distribution[key] = counts[string(status)]
	}
	distribution["All"] = total
	return distribution
}

// buildPriorityDistribution zero-fills the Low/Medium/High buckets.
func buildPriorityDistribution(counts map[string]int64) map[string]int64 {
	distribution := make(map[string]int64, len(models.TaskPriorities))
	for _, priority := range models.TaskPriorities {
		distribution[string(priority)] = counts[string(priority)]
	}
	return distribution
}
