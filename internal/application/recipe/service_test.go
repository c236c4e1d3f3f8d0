package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/mealplan/internal/application/validation"
	recipeDomain "github.com/alchemorsel/mealplan/internal/domain/recipe"
	"github.com/alchemorsel/mealplan/internal/infrastructure/monitoring"
	"github.com/alchemorsel/mealplan/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/alchemorsel/mealplan/test/testutils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type RecipeServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	cache     *memory.CacheRepository
	events    *testutils.MockEventPublisher
	factory   *testutils.Factory
	service   *RecipeService
	authorID  uint
	visitorID uint
}

func (suite *RecipeServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.cache = memory.NewCacheRepository()
	suite.events = testutils.NewMockEventPublisher()
	suite.factory = testutils.NewFactory(42)

	suite.service = NewRecipeService(
		suite.store.Recipes(),
		suite.store.Pantries(),
		suite.cache,
		suite.events,
		monitoring.NewMetrics(prometheus.NewRegistry()),
		validation.New(),
		Config{CacheTTL: time.Minute},
		zaptest.NewLogger(suite.T()),
	)

	suite.authorID = suite.factory.SeedUser(suite.T(), suite.store.Users()).ID()
	suite.visitorID = suite.factory.SeedUser(suite.T(), suite.store.Users()).ID()
}

func (suite *RecipeServiceTestSuite) seed(title string, ingredients ...string) uint {
	r, err := recipeDomain.NewRecipe(suite.authorID, title, "", 100)
	suite.Require().NoError(err)
	for _, name := range ingredients {
		suite.Require().NoError(r.AddIngredient(name))
	}
	suite.Require().NoError(r.AddStep("Prepare the " + title))
	suite.Require().NoError(r.AddStep("Serve"))
	suite.Require().NoError(suite.store.Recipes().Create(suite.ctx, r))
	return r.ID()
}

func (suite *RecipeServiceTestSuite) stock(userID uint, names ...string) {
	suite.Require().NoError(suite.store.Pantries().Replace(suite.ctx, userID, names))
}

func titles(dtos []inbound.RecipeDTO) []string {
	out := make([]string, len(dtos))
	for i, d := range dtos {
		out[i] = d.Title
	}
	return out
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe() {
	cmd := suite.factory.RecipeCommand(suite.authorID, "Egg", " egg ", "Flour")

	dto, err := suite.service.CreateRecipe(suite.ctx, cmd)
	suite.Require().NoError(err)

	suite.NotZero(dto.ID)
	suite.Equal(cmd.Title, dto.Title)
	suite.Len(dto.Steps, 2)
	suite.Equal(1, dto.Steps[0].Order)
	suite.Equal([]inbound.IngredientDTO{{Name: "egg"}, {Name: "flour"}}, dto.Ingredients)
	suite.Equal([]string{recipeDomain.RecipeCreatedEvent{}.EventName()}, suite.events.Names())
}

func (suite *RecipeServiceTestSuite) TestCreateRecipeValidation() {
	cmd := suite.factory.RecipeCommand(suite.authorID, "egg")
	cmd.Title = ""

	_, err := suite.service.CreateRecipe(suite.ctx, cmd)
	suite.True(errors.Is(err, errors.CodeValidationFailed))

	cmd = suite.factory.RecipeCommand(suite.authorID, "   ")
	_, err = suite.service.CreateRecipe(suite.ctx, cmd)
	suite.True(errors.Is(err, errors.CodeValidationFailed))
}

func (suite *RecipeServiceTestSuite) TestCreateRecipeUnknownAuthor() {
	_, err := suite.service.CreateRecipe(suite.ctx, suite.factory.RecipeCommand(999, "egg"))
	suite.True(errors.Is(err, errors.CodeUserNotFound))
}

func (suite *RecipeServiceTestSuite) TestGetRecipeUsesCache() {
	id := suite.seed("Omelette", "egg")

	first, err := suite.service.GetRecipe(suite.ctx, id)
	suite.Require().NoError(err)

	cached, err := suite.cache.Exists(suite.ctx, cacheKey(id))
	suite.Require().NoError(err)
	suite.True(cached)

	second, err := suite.service.GetRecipe(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(first.Title, second.Title)
	suite.Equal(first.Ingredients, second.Ingredients)

	_, err = suite.service.GetRecipe(suite.ctx, 9999)
	suite.True(errors.Is(err, errors.CodeRecipeNotFound))
}

func (suite *RecipeServiceTestSuite) TestDeleteRecipe() {
	id := suite.seed("Omelette", "egg")
	_, err := suite.service.GetRecipe(suite.ctx, id)
	suite.Require().NoError(err)

	err = suite.service.DeleteRecipe(suite.ctx, id, suite.visitorID)
	suite.True(errors.Is(err, errors.CodeRecipeNotFound), "non-owner sees not found")

	suite.Require().NoError(suite.service.DeleteRecipe(suite.ctx, id, suite.authorID))

	cached, err := suite.cache.Exists(suite.ctx, cacheKey(id))
	suite.Require().NoError(err)
	suite.False(cached)

	_, err = suite.service.GetRecipe(suite.ctx, id)
	suite.True(errors.Is(err, errors.CodeRecipeNotFound))
	suite.Contains(suite.events.Names(), recipeDomain.RecipeDeletedEvent{}.EventName())
}

func (suite *RecipeServiceTestSuite) TestListRecipes() {
	for i := 0; i < 5; i++ {
		suite.seed(suite.factory.Faker().Sentence(2), "egg")
	}

	page, err := suite.service.ListRecipes(suite.ctx, inbound.PaginationParams{Offset: 3, Limit: 10})
	suite.Require().NoError(err)
	suite.Equal(int64(5), page.Total)
	suite.Len(page.Recipes, 2)

	page, err = suite.service.ListRecipes(suite.ctx, inbound.PaginationParams{})
	suite.Require().NoError(err)
	suite.Equal(defaultPageSize, page.Limit)

	_, err = suite.service.ListRecipes(suite.ctx, inbound.PaginationParams{Offset: -1})
	suite.True(errors.Is(err, errors.CodeValidationFailed))
}

func (suite *RecipeServiceTestSuite) TestRecommendRanksByPantryCoverage() {
	suite.seed("Omelette", "egg", "milk")
	suite.seed("Pancakes", "egg", "flour", "milk", "sugar")
	suite.seed("Toast", "bread")
	suite.stock(suite.visitorID, "egg", "milk", "flour")

	got, err := suite.service.RecommendRecipes(suite.ctx, suite.visitorID, 3)
	suite.Require().NoError(err)

	suite.Equal([]string{"Omelette", "Pancakes", "Toast"}, titles(got))
	suite.Require().NotNil(got[0].Score)
	suite.InDelta(1.0, *got[0].Score, 1e-9)
	suite.InDelta(0.75, *got[1].Score, 1e-9)
	suite.InDelta(0.0, *got[2].Score, 1e-9)
	suite.Require().Len(got[1].Steps, 2, "detail is loaded for ranked recipes")
	suite.Equal(1, got[1].Steps[0].Order)
	suite.Equal("Prepare the Pancakes", got[1].Steps[0].Description)
	suite.Equal(2, got[1].Steps[1].Order)
}

func (suite *RecipeServiceTestSuite) TestRecommendTieKeepsCatalogOrder() {
	suite.seed("A", "egg", "ham")
	suite.seed("B", "egg", "cheese")
	suite.seed("C", "egg")
	suite.stock(suite.visitorID, "egg")

	got, err := suite.service.RecommendRecipes(suite.ctx, suite.visitorID, 2)
	suite.Require().NoError(err)
	suite.Equal([]string{"C", "A"}, titles(got))
}

func (suite *RecipeServiceTestSuite) TestRecommendEmptyPantryFallsBack() {
	suite.seed("A", "egg")
	suite.seed("B", "ham")
	suite.seed("C", "rice")

	got, err := suite.service.RecommendRecipes(suite.ctx, suite.visitorID, 2)
	suite.Require().NoError(err)
	suite.Equal([]string{"A", "B"}, titles(got))
	suite.Nil(got[0].Score)
}

func (suite *RecipeServiceTestSuite) TestRecommendTakeBounds() {
	_, err := suite.service.RecommendRecipes(suite.ctx, suite.visitorID, 0)
	suite.True(errors.Is(err, errors.CodeValidationFailed))

	got, err := suite.service.RecommendRecipes(suite.ctx, suite.visitorID, 5)
	suite.Require().NoError(err)
	suite.Empty(got)
}

func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}

func TestRecommendDropsRecipesMissingFromDetailFetch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	factory := testutils.NewFactory(7)
	u := factory.SeedUser(t, store.Users())
	require.NoError(t, store.Pantries().Replace(ctx, u.ID(), []string{"egg"}))

	kept := factory.Recipe(u.ID(), 200, "egg")
	kept.AssignID(1)

	repo := new(testutils.MockRecipeRepository)
	repo.On("Candidates", mock.Anything).Return([]recipeDomain.Candidate{
		{RecipeID: 1, Ingredients: []string{"egg"}},
		{RecipeID: 2, Ingredients: []string{"egg"}},
	}, nil)
	repo.On("FindByIDs", mock.Anything, []uint{1, 2}).Return([]*recipeDomain.Recipe{kept}, nil)

	service := NewRecipeService(
		repo,
		store.Pantries(),
		memory.NewCacheRepository(),
		testutils.NewMockEventPublisher(),
		monitoring.NewMetrics(prometheus.NewRegistry()),
		validation.New(),
		Config{},
		zaptest.NewLogger(t),
	)

	got, err := service.RecommendRecipes(ctx, u.ID(), 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(1), got[0].ID)
	repo.AssertExpectations(t)
}

func TestGetRecipeSurvivesCacheFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	factory := testutils.NewFactory(9)
	u := factory.SeedUser(t, store.Users())
	r := factory.SeedRecipe(t, store.Recipes(), u.ID(), 300, "rice")

	cache := new(testutils.MockCacheRepository)
	cache.On("Get", mock.Anything, cacheKey(r.ID())).Return(nil, assert.AnError)
	cache.On("Set", mock.Anything, cacheKey(r.ID()), mock.Anything, time.Duration(0)).Return(assert.AnError)

	service := NewRecipeService(
		store.Recipes(),
		store.Pantries(),
		cache,
		testutils.NewMockEventPublisher(),
		monitoring.NewMetrics(prometheus.NewRegistry()),
		validation.New(),
		Config{},
		zaptest.NewLogger(t),
	)

	got, err := service.GetRecipe(ctx, r.ID())
	require.NoError(t, err)
	assert.Equal(t, r.Title(), got.Title)
	cache.AssertExpectations(t)
}
