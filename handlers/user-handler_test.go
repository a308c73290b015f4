package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/sudip-bhr/Task-Management-System-backend/services"
)

func TestGetUsers_ResponseShape(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("includes success flag, count and users", func(mt *mtest.T) {
		handler := NewUserHandler(services.NewUserService(mt.Coll, mt.Coll, ""))

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "testdb.users", mtest.FirstBatch))

		rec := httptest.NewRecorder()
		handler.GetUsers(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

		if rec.Code != http.StatusOK {
			mt.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var resp struct {
			Success *bool             `json:"success"`
			Count   *int              `json:"count"`
			Users   []json.RawMessage `json:"users"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}

		if resp.Success == nil || !*resp.Success {
			mt.Fatalf("success flag missing or false: %s", rec.Body.String())
		}
		if resp.Count == nil || *resp.Count != 0 {
			mt.Fatalf("count missing or wrong: %s", rec.Body.String())
		}
		if resp.Users == nil {
			mt.Fatalf("users must be an empty list, not null: %s", rec.Body.String())
		}
	})
}
