package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/api"
	"github.com/pageza/weekprep/backend/internal/extraction"
	"github.com/pageza/weekprep/backend/internal/mocks"
	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/repository"
	"github.com/pageza/weekprep/backend/internal/service"
	"github.com/pageza/weekprep/backend/internal/session"
	"github.com/pageza/weekprep/backend/internal/testhelpers"
)

type testAPI struct {
	router    *gin.Engine
	extractor *mocks.MockExtractor
	media     *mocks.MockMediaStore
	token     string
	userID    uuid.UUID
}

// failingSchedules never saves.
type failingSchedules struct {
	*repository.ScheduleRepository
}

func (failingSchedules) Save(context.Context, uuid.UUID, model.WeeklySchedule) error {
	return errors.New("database is read-only")
}

type options struct {
	brokenScheduleStore bool
}

func setupAPI(t *testing.T, opts options) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	db := testhelpers.NewSQLiteDB(t)

	recipes := repository.NewRecipeRepository(db)
	schedules := repository.NewScheduleRepository(db)
	shelf := repository.NewShelfRepository(db)
	users := repository.NewUserRepository(db)
	sessions := session.NewManager(recipes, schedules, shelf, session.NewMemoryCache(), log)

	var scheduleStore service.ScheduleStore = schedules
	if opts.brokenScheduleStore {
		scheduleStore = failingSchedules{schedules}
	}

	ta := &testAPI{
		extractor: new(mocks.MockExtractor),
		media:     new(mocks.MockMediaStore),
	}
	svcs := api.Services{
		Auth:       service.NewAuthService(users, sessions, "test-secret", log),
		Recipes:    service.NewRecipeService(recipes, sessions, ta.media, log),
		Schedule:   service.NewScheduleService(scheduleStore, sessions, log),
		Shelf:      service.NewShelfService(shelf, sessions, log),
		Groceries:  service.NewGroceryService(sessions),
		Extraction: extraction.NewService(ta.extractor, extraction.NewMemoryDraftStore(time.Hour), 1<<20, log),
	}
	health := api.NewHealthHandler(map[string]api.Checker{
		"database": func(ctx context.Context) error { return nil },
	})

	ta.router = gin.New()
	api.RegisterRoutes(ta.router, svcs, health, nil, log)

	rr := ta.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name": "Test Cook", "email": "cook@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var auth struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decode(t, rr, &auth)
	ta.token = auth.Token
	ta.userID = auth.User.ID
	return ta
}

func (ta *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if ta.token != "" {
		req.Header.Set("Authorization", "Bearer "+ta.token)
	}
	rr := httptest.NewRecorder()
	ta.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func recipeBody(name string, meal model.MealType, storage model.StorageType, prep int, ings ...map[string]interface{}) map[string]interface{} {
	if ings == nil {
		ings = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"name":           name,
		"ingredients":    ings,
		"steps":          []string{"cook"},
		"prep_time":      prep,
		"batch_servings": 4,
		"storage_type":   storage,
		"meal_type":      meal,
	}
}

func ing(name string, amount float64, unit, category string) map[string]interface{} {
	return map[string]interface{}{"name": name, "amount": amount, "unit": unit, "category": category}
}

func (ta *testAPI) createRecipe(t *testing.T, body map[string]interface{}) model.Recipe {
	t.Helper()
	rr := ta.do(t, http.MethodPost, "/api/v1/recipes", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var r model.Recipe
	decode(t, rr, &r)
	return r
}
