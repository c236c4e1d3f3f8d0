package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pantryapp "github.com/alchemorsel/mealplan/internal/application/pantry"
	planapp "github.com/alchemorsel/mealplan/internal/application/plan"
	recipeapp "github.com/alchemorsel/mealplan/internal/application/recipe"
	userapp "github.com/alchemorsel/mealplan/internal/application/user"
	"github.com/alchemorsel/mealplan/internal/application/validation"
	"github.com/alchemorsel/mealplan/internal/domain/plan"
	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/alchemorsel/mealplan/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/mealplan/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/mealplan/internal/infrastructure/monitoring"
	"github.com/alchemorsel/mealplan/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/mealplan/internal/infrastructure/realtime"
	"github.com/alchemorsel/mealplan/internal/infrastructure/security"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "mealplan", Environment: "test"},
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Auth: config.AuthConfig{
			Mode:      config.AuthModeToken,
			JWTSecret: testSecret,
			Issuer:    "mealplan-test",
			TokenTTL:  time.Hour,
		},
	}
}

type APISuite struct {
	suite.Suite
	router *gin.Engine
	hub    *realtime.Hub
	tokens *security.TokenAuthenticator
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	logger := zap.NewNop()
	store := memory.NewStore()
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	validator := validation.New()

	s.hub = realtime.NewHub(realtime.Config{}, logger)
	events := realtime.Publishers{realtime.NewLogPublisher(logger), s.hub}
	s.tokens = security.NewTokenAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	users := userapp.NewUserService(store.Users(), validator, logger)
	recipes := recipeapp.NewRecipeService(store.Recipes(), store.Pantries(), memory.NewCacheRepository(),
		events, metrics, validator, recipeapp.Config{CacheTTL: time.Minute}, logger)
	plans := planapp.NewPlanService(store.Plans(), events, metrics, logger)
	pantry := pantryapp.NewPantryService(store.Pantries(), metrics, logger)

	s.router = NewRouter(cfg, middleware.New(cfg, metrics, logger), middleware.Identity(s.tokens, users), Handlers{
		Recipes: handlers.NewRecipeHandler(recipes),
		Plans:   handlers.NewPlanHandler(plans, s.hub, logger),
		Pantry:  handlers.NewPantryHandler(pantry),
		Users:   handlers.NewUserHandler(users, s.tokens),
	})
}

func (s *APISuite) TearDownTest() {
	s.hub.Close()
}

func (s *APISuite) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, dst interface{}) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func (s *APISuite) requireError(rec *httptest.ResponseRecorder, status int, code errors.ErrorCode) {
	s.Require().Equal(status, rec.Code, rec.Body.String())
	var body errors.ErrorResponse
	s.decode(rec, &body)
	s.Equal(code, body.Error.Code)
	s.NotEmpty(body.Error.RequestID)
}

// signUp registers a user and returns a session token for them
func (s *APISuite) signUp(email string) (uint, string) {
	rec := s.do(http.MethodPost, "/api/users", handlers.CreateUserRequest{
		Name: "Cook", Email: email, Password: "correct horse", CalorieGoal: 2000,
	}, "")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var user inbound.UserDTO
	s.decode(rec, &user)

	rec = s.do(http.MethodPost, "/api/sessions", handlers.SessionRequest{Email: email, Password: "correct horse"}, "")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var session handlers.SessionResponse
	s.decode(rec, &session)
	s.Require().NotEmpty(session.Token)
	return user.ID, session.Token
}

func (s *APISuite) createRecipe(token, title string, kcal int, ingredients ...string) inbound.RecipeDTO {
	rec := s.do(http.MethodPost, "/api/recipes", handlers.CreateRecipeRequest{
		Title:       title,
		Kcal:        kcal,
		Time:        "20 min",
		Difficulty:  "easy",
		Steps:       []string{"prepare", "serve"},
		Ingredients: ingredients,
	}, token)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var recipe inbound.RecipeDTO
	s.decode(rec, &recipe)
	s.Equal(fmt.Sprintf("/api/recipes/%d", recipe.ID), rec.Header().Get("Location"))
	return recipe
}

func (s *APISuite) TestRegistrationAndSessions() {
	_, token := s.signUp("ada@example.com")

	rec := s.do(http.MethodPost, "/api/users", handlers.CreateUserRequest{
		Name: "Other", Email: "ADA@example.com", Password: "another secret",
	}, "")
	s.requireError(rec, http.StatusConflict, errors.CodeEmailAlreadyExists)

	rec = s.do(http.MethodPost, "/api/sessions", handlers.SessionRequest{Email: "ada@example.com", Password: "wrong password"}, "")
	s.requireError(rec, http.StatusUnauthorized, errors.CodeUnauthorized)

	rec = s.do(http.MethodGet, "/api/users/me", nil, token)
	s.Require().Equal(http.StatusOK, rec.Code)
	var me inbound.UserDTO
	s.decode(rec, &me)
	s.Equal("ada@example.com", me.Email)
	s.NotContains(rec.Body.String(), "password")
}

func (s *APISuite) TestRegistrationValidation() {
	rec := s.do(http.MethodPost, "/api/users", handlers.CreateUserRequest{Name: "X", Email: "not-an-email", Password: "short"}, "")
	s.requireError(rec, http.StatusBadRequest, errors.CodeValidationFailed)

	rec = s.do(http.MethodPost, "/api/users", "{not json", "")
	s.requireError(rec, http.StatusBadRequest, errors.CodeBadRequest)
}

func (s *APISuite) TestIdentityRejections() {
	rec := s.do(http.MethodGet, "/api/users/me", nil, "")
	s.requireError(rec, http.StatusUnauthorized, errors.CodeUnauthorized)

	rec = s.do(http.MethodGet, "/api/users/me", nil, "garbage")
	s.requireError(rec, http.StatusUnauthorized, errors.CodeUnauthorized)

	ghost, _, err := s.tokens.Issue(999)
	s.Require().NoError(err)
	rec = s.do(http.MethodGet, "/api/users/me/plans/today", nil, ghost)
	s.requireError(rec, http.StatusUnauthorized, errors.CodeUnauthorized)

	rec = s.do(http.MethodPost, "/api/recipes", handlers.CreateRecipeRequest{Title: "Anonymous"}, "")
	s.requireError(rec, http.StatusUnauthorized, errors.CodeUnauthorized)
}

func (s *APISuite) TestUpdateProfile() {
	_, token := s.signUp("grace@example.com")

	goal := 1800
	phone := "555-0100"
	rec := s.do(http.MethodPatch, "/api/users/me", handlers.UpdateProfileRequest{CalorieGoal: &goal, Phone: &phone}, token)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var me inbound.UserDTO
	s.decode(rec, &me)
	s.Equal(1800, me.CalorieGoal)
	s.Equal("555-0100", me.Phone)
	s.Equal("Cook", me.Name)

	negative := -1
	rec = s.do(http.MethodPatch, "/api/users/me", handlers.UpdateProfileRequest{CalorieGoal: &negative}, token)
	s.requireError(rec, http.StatusBadRequest, errors.CodeValidationFailed)
}

func (s *APISuite) TestRecipeCatalog() {
	_, token := s.signUp("chef@example.com")
	_, other := s.signUp("other@example.com")

	created := s.createRecipe(token, "Omelette", 350, "egg", "milk")
	s.createRecipe(token, "Pancakes", 600, "egg", "flour", "milk", "sugar")

	rec := s.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", created.ID), nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var got inbound.RecipeDTO
	s.decode(rec, &got)
	s.Equal("Omelette", got.Title)
	s.Len(got.Steps, 2)
	s.Len(got.Ingredients, 2)

	rec = s.do(http.MethodGet, "/api/recipes?limit=1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var page inbound.RecipeList
	s.decode(rec, &page)
	s.EqualValues(2, page.Total)
	s.Len(page.Recipes, 1)

	rec = s.do(http.MethodGet, "/api/recipes?limit=abc", nil, "")
	s.requireError(rec, http.StatusBadRequest, errors.CodeBadRequest)

	rec = s.do(http.MethodGet, "/api/recipes/0", nil, "")
	s.requireError(rec, http.StatusBadRequest, errors.CodeBadRequest)

	rec = s.do(http.MethodGet, "/api/recipes/4242", nil, "")
	s.requireError(rec, http.StatusNotFound, errors.CodeRecipeNotFound)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/recipes/%d", created.ID), nil, other)
	s.requireError(rec, http.StatusNotFound, errors.CodeRecipeNotFound)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/recipes/%d", created.ID), nil, token)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", created.ID), nil, "")
	s.requireError(rec, http.StatusNotFound, errors.CodeRecipeNotFound)
}

func (s *APISuite) TestPantryAndRecommendations() {
	_, token := s.signUp("pantry@example.com")
	pancakes := s.createRecipe(token, "Pancakes", 600, "egg", "flour", "milk", "sugar")
	omelette := s.createRecipe(token, "Omelette", 350, "egg", "milk")

	// empty pantry serves the catalog unscored
	rec := s.do(http.MethodGet, "/api/users/me/recommended-recipes?take=1", nil, token)
	s.Require().Equal(http.StatusOK, rec.Code)
	var fallback []inbound.RecipeDTO
	s.decode(rec, &fallback)
	s.Require().Len(fallback, 1)
	s.Nil(fallback[0].Score)

	rec = s.do(http.MethodPut, "/api/users/me/pantry", handlers.PantryBody{Ingredients: &[]string{"milk", "egg"}}, token)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/users/me/pantry", nil, token)
	s.Require().Equal(http.StatusOK, rec.Code)
	var body struct {
		Ingredients []string `json:"ingredients"`
	}
	s.decode(rec, &body)
	s.ElementsMatch([]string{"egg", "milk"}, body.Ingredients)

	rec = s.do(http.MethodGet, "/api/users/me/recommended-recipes", nil, token)
	s.Require().Equal(http.StatusOK, rec.Code)
	var ranked []inbound.RecipeDTO
	s.decode(rec, &ranked)
	s.Require().Len(ranked, 2)
	s.Equal(omelette.ID, ranked[0].ID)
	s.Equal(pancakes.ID, ranked[1].ID)
	s.Require().NotNil(ranked[0].Score)
	s.InDelta(1.0, *ranked[0].Score, 1e-9)
	s.InDelta(0.5, *ranked[1].Score, 1e-9)

	rec = s.do(http.MethodGet, "/api/users/me/recommended-recipes?take=0", nil, token)
	s.requireError(rec, http.StatusBadRequest, errors.CodeValidationFailed)

	rec = s.do(http.MethodPut, "/api/users/me/pantry", `{"items":["egg"]}`, token)
	s.requireError(rec, http.StatusBadRequest, errors.CodeBadRequest)

	rec = s.do(http.MethodPut, "/api/users/me/pantry", `{"ingredients":"not-an-array"}`, token)
	s.requireError(rec, http.StatusBadRequest, errors.CodeBadRequest)

	rec = s.do(http.MethodGet, "/api/users/me/pantry", nil, token)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &body)
	s.ElementsMatch([]string{"egg", "milk"}, body.Ingredients, "a rejected body leaves the pantry as it was")

	rec = s.do(http.MethodPut, "/api/users/me/pantry", handlers.PantryBody{Ingredients: &[]string{}}, token)
	s.Require().Equal(http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/api/users/me/pantry", nil, token)
	s.JSONEq(`{"ingredients":[]}`, rec.Body.String())
}

func (s *APISuite) TestDailyPlan() {
	_, token := s.signUp("planner@example.com")
	recipe := s.createRecipe(token, "Salad", 250, "lettuce", "tomato")

	rec := s.do(http.MethodGet, "/api/users/me/first-entry-date", nil, token)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"date":null}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/users/me/plans/today", nil, token)
	s.Require().Equal(http.StatusOK, rec.Code)
	var first inbound.DailyPlanDTO
	s.decode(rec, &first)
	s.Empty(first.Entries)
	s.EqualValues(0, first.TotalCalories)

	rec = s.do(http.MethodGet, "/api/users/me/plans/today", nil, token)
	var again inbound.DailyPlanDTO
	s.decode(rec, &again)
	s.Equal(first.ID, again.ID)

	rec = s.do(http.MethodPost, "/api/users/me/plans/today/entries", handlers.AddEntryRequest{RecipeID: recipe.ID}, token)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var entry inbound.PlanEntryDTO
	s.decode(rec, &entry)
	s.Equal(first.ID, entry.PlanID)
	s.Equal(recipe.ID, entry.RecipeID)

	s.do(http.MethodPost, "/api/users/me/plans/today/entries", handlers.AddEntryRequest{RecipeID: recipe.ID}, token)

	rec = s.do(http.MethodGet, "/api/users/me/plans/today", nil, token)
	var today inbound.DailyPlanDTO
	s.decode(rec, &today)
	s.Len(today.Entries, 2)
	s.EqualValues(500, today.TotalCalories)

	rec = s.do(http.MethodPost, "/api/users/me/plans/today/entries", handlers.AddEntryRequest{RecipeID: 4242}, token)
	s.requireError(rec, http.StatusNotFound, errors.CodeRecipeNotFound)

	rec = s.do(http.MethodPost, "/api/users/me/plans/today/entries", `{}`, token)
	s.requireError(rec, http.StatusBadRequest, errors.CodeValidationFailed)

	_, stranger := s.signUp("stranger@example.com")
	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/users/me/plan-entries/%d", entry.ID), nil, stranger)
	s.requireError(rec, http.StatusNotFound, errors.CodePlanEntryNotFound)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/users/me/plan-entries/%d", entry.ID), nil, token)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/users/me/plan-entries/%d", entry.ID), nil, token)
	s.requireError(rec, http.StatusNotFound, errors.CodePlanEntryNotFound)

	rec = s.do(http.MethodGet, "/api/users/me/first-entry-date", nil, token)
	var firstDate struct {
		Date *string `json:"date"`
	}
	s.decode(rec, &firstDate)
	s.Require().NotNil(firstDate.Date)
	s.Equal(today.Date, *firstDate.Date)
}

func (s *APISuite) TestCalorieHistory() {
	_, token := s.signUp("history@example.com")
	recipe := s.createRecipe(token, "Soup", 400, "water", "onion")

	rec := s.do(http.MethodGet, "/api/users/me/full-calorie-history", nil, token)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/users/me/calorie-history?startDate=2024-04-01", nil, token)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var empty []plan.DayTotal
	s.decode(rec, &empty)
	s.Require().Len(empty, plan.WeekDays)
	s.Equal("2024-04-01", empty[0].Date)
	s.Equal("2024-04-07", empty[6].Date)

	rec = s.do(http.MethodPost, "/api/users/me/plans/today/entries", handlers.AddEntryRequest{RecipeID: recipe.ID}, token)
	s.Require().Equal(http.StatusCreated, rec.Code)

	today := plan.DayKey(time.Now().UTC())
	rec = s.do(http.MethodGet, "/api/users/me/calorie-history?startDate="+today+"&timezoneOffset=0", nil, token)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var week []plan.DayTotal
	s.decode(rec, &week)
	s.Require().Len(week, plan.WeekDays)
	s.Equal(plan.DayTotal{Date: today, TotalCalories: 400}, week[0])
	for _, day := range week[1:] {
		s.EqualValues(0, day.TotalCalories)
	}

	rec = s.do(http.MethodGet, "/api/users/me/full-calorie-history", nil, token)
	var full []plan.DayTotal
	s.decode(rec, &full)
	s.Equal([]plan.DayTotal{{Date: today, TotalCalories: 400}}, full)

	rec = s.do(http.MethodGet, "/api/users/me/calorie-history?startDate=yesterday", nil, token)
	s.requireError(rec, http.StatusBadRequest, errors.CodeValidationFailed)

	rec = s.do(http.MethodGet, "/api/users/me/calorie-history?startDate="+today+"&timezoneOffset=abc", nil, token)
	s.requireError(rec, http.StatusBadRequest, errors.CodeBadRequest)
}

func (s *APISuite) TestUnknownRoute() {
	rec := s.do(http.MethodGet, "/api/nothing-here", nil, "")
	s.requireError(rec, http.StatusNotFound, errors.CodeNotFound)
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func (s *APISuite) TestPlanEventsFeed() {
	userID, token := s.signUp("live@example.com")
	recipe := s.createRecipe(token, "Toast", 150, "bread")

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/users/me/plan-events"
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Authorization": {"Bearer " + token}})
	s.Require().NoError(err)
	defer conn.Close()

	s.Eventually(func() bool { return s.hub.Connections(userID) == 1 }, 2*time.Second, 10*time.Millisecond)

	rec := s.do(http.MethodPost, "/api/users/me/plans/today/entries", handlers.AddEntryRequest{RecipeID: recipe.ID}, token)
	s.Require().Equal(http.StatusCreated, rec.Code)

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	var msg realtime.Message
	s.Require().NoError(conn.ReadJSON(&msg))
	s.Equal(plan.EventEntryAdded, msg.Type)
	s.Equal(recipe.ID, msg.RecipeID)
}

func (s *APISuite) TestPlanEventsRequireIdentity() {
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/users/me/plan-events"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().Error(err)
	s.Require().NotNil(resp)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
