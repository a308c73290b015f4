package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sudip-bhr/Task-Management-System-backend/errs"
	"github.com/sudip-bhr/Task-Management-System-backend/logging"
	"github.com/sudip-bhr/Task-Management-System-backend/models"
	"github.com/sudip-bhr/Task-Management-System-backend/utils"
)

type UserService struct {
	usersCollection  *mongo.Collection
	tasksCollection  *mongo.Collection
	adminInviteToken string
}

func NewUserService(usersCollection, tasksCollection *mongo.Collection, adminInviteToken string) *UserService {
	return &UserService{
		usersCollection:  usersCollection,
		tasksCollection:  tasksCollection,
		adminInviteToken: adminInviteToken,
	}
}

// AuthResponse is what register, login and profile-update answer with: the
// user's public fields plus a fresh session token.
type AuthResponse struct {
	ID              primitive.ObjectID `json:"id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Role            models.Role        `json:"role"`
	ProfileImageURL string             `json:"profileImageURL,omitempty"`
	Token           string             `json:"token"`
}

// MemberWithTaskCounts is a member user plus the status breakdown of the
// tasks assigned to them.
type MemberWithTaskCounts struct {
	models.User
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// Register creates a user account. The role is member unless the invite token
// matches the configured admin secret. A duplicate email is a conflict and
// leaves the existing record untouched.
func (s *UserService) Register(ctx context.Context, name, email, password, profileImageURL, inviteToken string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, errs.Validation("name and email are required")
	}
	if len(password) < 8 {
		return nil, errs.Validation("password must be at least 8 characters long")
	}

	err := s.usersCollection.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return nil, errs.Conflict("user with this email already exists")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.Store("find user", err)
	}

	role := models.RoleMember
	if inviteToken != "" && inviteToken == s.adminInviteToken {
		role = models.RoleAdmin
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, errs.Store("hash password", err)
	}

	now := time.Now()
	user := models.User{
		ID:              primitive.NewObjectID(),
		Name:            name,
		Email:           email,
		Password:        hashed,
		Role:            role,
		ProfileImageURL: profileImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := s.usersCollection.InsertOne(ctx, user); err != nil {
		// The unique index on email catches the race two concurrent
		// registrations can win against the FindOne check above.
		if mongo.IsDuplicateKeyError(err) {
			return nil, errs.Conflict("user with this email already exists")
		}
		return nil, errs.Store("insert user", err)
	}

	token, err := utils.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, errs.Store("sign token", err)
	}

	logging.Logger.Infof("user %s registered with role %q", user.ID.Hex(), user.Role)
	return s.authResponse(user, token), nil
}

// Authenticate verifies the credentials and issues a session token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.usersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.Authentication("invalid email or password")
	}
	if err != nil {
		return nil, errs.Store("find user", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, errs.Authentication("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, errs.Store("sign token", err)
	}

	return s.authResponse(user, token), nil
}

// GetProfile returns the user behind a session, without the password hash.
func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, userID)
}

// ProfilePatch carries the optional profile changes; empty fields keep the
// stored value.
type ProfilePatch struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfile applies the patch, re-hashing the password when one is given,
// and returns the updated user with a fresh token.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch ProfilePatch) (*AuthResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != "" {
		user.Name = patch.Name
	}
	if patch.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(patch.Email))
	}
	if patch.Password != "" {
		if len(patch.Password) < 8 {
			return nil, errs.Validation("password must be at least 8 characters long")
		}
		hashed, err := utils.HashPassword(patch.Password)
		if err != nil {
			return nil, errs.Store("hash password", err)
		}
		user.Password = hashed
	}

	user.UpdatedAt = time.Now()
	if _, err := s.usersCollection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user); err != nil {
		return nil, errs.Store("save user", err)
	}

	token, err := utils.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, errs.Store("sign token", err)
	}

	return s.authResponse(*user, token), nil
}

// GetUserByID returns a user without the password hash.
func (s *UserService) GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, userID)
}

// GetMembers lists every member user together with their assigned-task
// counts per status.
func (s *UserService) GetMembers(ctx context.Context) ([]MemberWithTaskCounts, error) {
	cursor, err := s.usersCollection.Find(ctx, bson.M{"role": models.RoleMember})
	if err != nil {
		return nil, errs.Store("find members", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errs.Store("decode members", err)
	}

	members := make([]MemberWithTaskCounts, 0, len(users))
	for _, user := range users {
		user.Password = ""

		counts := MemberWithTaskCounts{User: user}
		for status, target := range map[models.TaskStatus]*int64{
			models.StatusPending:    &counts.PendingTasks,
			models.StatusInProgress: &counts.InProgressTasks,
			models.StatusCompleted:  &counts.CompletedTasks,
		} {
			n, err := s.tasksCollection.CountDocuments(ctx, bson.M{"assignedTo": user.ID, "status": status})
			if err != nil {
				return nil, errs.Store("count member tasks", err)
			}
			*target = n
		}

		members = append(members, counts)
	}
	return members, nil
}

func (s *UserService) findUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.usersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("user")
	}
	if err != nil {
		return nil, errs.Store("find user", err)
	}
	user.Password = ""
	return &user, nil
}

func (s *UserService) authResponse(user models.User, token string) *AuthResponse {
	return &AuthResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		ProfileImageURL: user.ProfileImageURL,
		Token:           token,
	}
}
