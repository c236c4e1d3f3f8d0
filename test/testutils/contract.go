package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/mealplan/internal/domain/plan"
	"github.com/alchemorsel/mealplan/internal/domain/user"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"github.com/stretchr/testify/suite"
)

// Repositories groups one implementation of every outbound store
type Repositories struct {
	Users    outbound.UserRepository
	Recipes  outbound.RecipeRepository
	Plans    outbound.PlanRepository
	Pantries outbound.PantryRepository
}

// RepositoryContractSuite checks the behaviour every store implementation
// must share. Embed it and set Open to run it against a backend.
type RepositoryContractSuite struct {
	suite.Suite

	// Open returns fresh, empty repositories for each test
	Open func() Repositories

	repos   Repositories
	factory *Factory
	ctx     context.Context
}

func (s *RepositoryContractSuite) SetupTest() {
	s.Require().NotNil(s.Open, "Open must be set")
	s.repos = s.Open()
	s.factory = NewFactory(42)
	s.ctx = context.Background()
}

func day(value string) time.Time {
	t, err := time.Parse(plan.DayLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *RepositoryContractSuite) TestUserCreateAndFind() {
	u := s.factory.SeedUser(s.T(), s.repos.Users)
	s.NotZero(u.ID())

	byID, err := s.repos.Users.FindByID(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Equal(u.Email(), byID.Email())
	s.NoError(byID.CheckPassword(TestPassword))

	byEmail, err := s.repos.Users.FindByEmail(s.ctx, u.Email())
	s.Require().NoError(err)
	s.Equal(u.ID(), byEmail.ID())

	exists, err := s.repos.Users.Exists(s.ctx, u.ID())
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.repos.Users.Exists(s.ctx, u.ID()+1000)
	s.Require().NoError(err)
	s.False(exists)

	_, err = s.repos.Users.FindByID(s.ctx, u.ID()+1000)
	s.ErrorIs(err, outbound.ErrNotFound)
}

func (s *RepositoryContractSuite) TestUserDuplicateEmail() {
	u := s.factory.SeedUser(s.T(), s.repos.Users)

	dup, err := user.NewUser(u.Email(), "Someone Else", TestPassword, 1800)
	s.Require().NoError(err)
	s.ErrorIs(s.repos.Users.Create(s.ctx, dup), outbound.ErrDuplicate)
}

func (s *RepositoryContractSuite) TestUserUpdateProfile() {
	u := s.factory.SeedUser(s.T(), s.repos.Users)

	s.Require().NoError(u.UpdateProfile(user.Profile{CalorieGoal: 2400, Phone: "555-0100"}))
	s.Require().NoError(s.repos.Users.Update(s.ctx, u))

	found, err := s.repos.Users.FindByID(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Equal(2400, found.Profile().CalorieGoal)
	s.Equal("555-0100", found.Profile().Phone)
}

func (s *RepositoryContractSuite) TestRecipeRoundTrip() {
	author := s.factory.SeedUser(s.T(), s.repos.Users)
	r := s.factory.Recipe(author.ID(), 420, "egg", "flour", "milk")
	s.Require().NoError(r.AddStep("whisk"))
	s.Require().NoError(s.repos.Recipes.Create(s.ctx, r))
	s.NotZero(r.ID())

	found, err := s.repos.Recipes.FindByID(s.ctx, r.ID())
	s.Require().NoError(err)
	s.Equal(r.Title(), found.Title())
	s.Equal(420, found.Kcal())
	s.Equal(author.ID(), found.AuthorID())
	s.Equal([]string{"egg", "flour", "milk"}, found.IngredientNames())
	s.Require().Len(found.Steps(), 2)
	s.Equal(1, found.Steps()[0].Order)
	s.Equal("whisk", found.Steps()[1].Description)
}

func (s *RepositoryContractSuite) TestRecipeCreateUnknownAuthor() {
	r := s.factory.Recipe(9999, 100, "egg")
	s.ErrorIs(s.repos.Recipes.Create(s.ctx, r), outbound.ErrNotFound)
}

func (s *RepositoryContractSuite) TestRecipeListAndCandidates() {
	author := s.factory.SeedUser(s.T(), s.repos.Users)
	first := s.factory.SeedRecipe(s.T(), s.repos.Recipes, author.ID(), 100, "egg")
	second := s.factory.SeedRecipe(s.T(), s.repos.Recipes, author.ID(), 200, "rice", "bean")
	third := s.factory.SeedRecipe(s.T(), s.repos.Recipes, author.ID(), 300)

	page, total, err := s.repos.Recipes.List(s.ctx, 1, 1)
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Require().Len(page, 1)
	s.Equal(second.ID(), page[0].ID())

	page, total, err = s.repos.Recipes.List(s.ctx, 10, 5)
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Empty(page)

	candidates, err := s.repos.Recipes.Candidates(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(candidates, 3)
	s.Equal(first.ID(), candidates[0].RecipeID)
	s.Equal(second.ID(), candidates[1].RecipeID)
	s.ElementsMatch([]string{"rice", "bean"}, candidates[1].Ingredients)
	s.Equal(third.ID(), candidates[2].RecipeID)
	s.Empty(candidates[2].Ingredients)
}

func (s *RepositoryContractSuite) TestCandidatesGroupIngredientsPerRecipe() {
	author := s.factory.SeedUser(s.T(), s.repos.Users)
	bare := s.factory.SeedRecipe(s.T(), s.repos.Recipes, author.ID(), 50)
	stew := s.factory.SeedRecipe(s.T(), s.repos.Recipes, author.ID(), 400, "beef", "carrot", "onion", "potato")
	salad := s.factory.SeedRecipe(s.T(), s.repos.Recipes, author.ID(), 150, "lettuce", "tomato")

	candidates, err := s.repos.Recipes.Candidates(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(candidates, 3, "one candidate per recipe")

	s.Equal(bare.ID(), candidates[0].RecipeID)
	s.Empty(candidates[0].Ingredients)
	s.Equal(stew.ID(), candidates[1].RecipeID)
	s.Equal([]string{"beef", "carrot", "onion", "potato"}, candidates[1].Ingredients)
	s.Equal(salad.ID(), candidates[2].RecipeID)
	s.Equal([]string{"lettuce", "tomato"}, candidates[2].Ingredients)

	s.Require().NoError(s.repos.Recipes.Delete(s.ctx, stew.ID()))
	candidates, err = s.repos.Recipes.Candidates(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(candidates, 2)
	s.Equal([]string{"lettuce", "tomato"}, candidates[1].Ingredients)
}

func (s *RepositoryContractSuite) TestFindByIDsSkipsMissing() {
	author := s.factory.SeedUser(s.T(), s.repos.Users)
	a := s.factory.SeedRecipe(s.T(), s.repos.Recipes, author.ID(), 100, "egg")
	b := s.factory.SeedRecipe(s.T(), s.repos.Recipes, author.ID(), 200, "milk")

	found, err := s.repos.Recipes.FindByIDs(s.ctx, []uint{b.ID(), 9999, a.ID()})
	s.Require().NoError(err)
	ids := make([]uint, len(found))
	for i, r := range found {
		ids[i] = r.ID()
	}
	s.ElementsMatch([]uint{a.ID(), b.ID()}, ids)

	found, err = s.repos.Recipes.FindByIDs(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(found)
}

func (s *RepositoryContractSuite) TestRecipeDeleteRemovesPlanEntries() {
	u := s.factory.SeedUser(s.T(), s.repos.Users)
	doomed := s.factory.SeedRecipe(s.T(), s.repos.Recipes, u.ID(), 500, "egg")
	kept := s.factory.SeedRecipe(s.T(), s.repos.Recipes, u.ID(), 300, "rice")

	p, err := s.repos.Plans.GetOrCreate(s.ctx, u.ID(), day("2024-03-10"))
	s.Require().NoError(err)
	_, err = s.repos.Plans.AddEntry(s.ctx, p.ID, doomed.ID())
	s.Require().NoError(err)
	_, err = s.repos.Plans.AddEntry(s.ctx, p.ID, kept.ID())
	s.Require().NoError(err)

	s.Require().NoError(s.repos.Recipes.Delete(s.ctx, doomed.ID()))
	s.ErrorIs(s.repos.Recipes.Delete(s.ctx, doomed.ID()), outbound.ErrNotFound)

	_, err = s.repos.Recipes.FindByID(s.ctx, doomed.ID())
	s.ErrorIs(err, outbound.ErrNotFound)

	p, err = s.repos.Plans.GetOrCreate(s.ctx, u.ID(), day("2024-03-10"))
	s.Require().NoError(err)
	s.Require().Len(p.Entries, 1)
	s.Equal(kept.ID(), p.Entries[0].RecipeID)
	s.EqualValues(300, p.TotalCalories())
}

func (s *RepositoryContractSuite) TestGetOrCreateIsIdempotent() {
	u := s.factory.SeedUser(s.T(), s.repos.Users)
	date := day("2024-03-10")

	first, err := s.repos.Plans.GetOrCreate(s.ctx, u.ID(), date)
	s.Require().NoError(err)
	again, err := s.repos.Plans.GetOrCreate(s.ctx, u.ID(), date.Add(15*time.Hour))
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)
	s.True(again.Date.Equal(date))
	s.Empty(again.Entries)

	next, err := s.repos.Plans.GetOrCreate(s.ctx, u.ID(), day("2024-03-11"))
	s.Require().NoError(err)
	s.NotEqual(first.ID, next.ID)

	_, err = s.repos.Plans.GetOrCreate(s.ctx, u.ID()+1000, date)
	s.ErrorIs(err, outbound.ErrNotFound)
}

func (s *RepositoryContractSuite) TestGetOrCreateConcurrentCallers() {
	u := s.factory.SeedUser(s.T(), s.repos.Users)
	date := day("2024-03-10")

	const callers = 10
	ids := make([]uint, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.repos.Plans.GetOrCreate(s.ctx, u.ID(), date)
			errs[i] = err
			if err == nil {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		s.Require().NoError(errs[i])
		s.Equal(ids[0], ids[i])
	}
}

func (s *RepositoryContractSuite) TestEntries() {
	owner := s.factory.SeedUser(s.T(), s.repos.Users)
	other := s.factory.SeedUser(s.T(), s.repos.Users)
	r := s.factory.SeedRecipe(s.T(), s.repos.Recipes, owner.ID(), 650, "egg")

	p, err := s.repos.Plans.GetOrCreate(s.ctx, owner.ID(), day("2024-03-10"))
	s.Require().NoError(err)

	entry, err := s.repos.Plans.AddEntry(s.ctx, p.ID, r.ID())
	s.Require().NoError(err)
	s.NotZero(entry.ID)
	s.Equal(p.ID, entry.PlanID)
	s.Equal(r.Title(), entry.RecipeTitle)
	s.Equal(650, entry.Kcal)

	_, err = s.repos.Plans.AddEntry(s.ctx, p.ID, 9999)
	s.ErrorIs(err, outbound.ErrNotFound)

	found, err := s.repos.Plans.FindEntry(s.ctx, owner.ID(), entry.ID)
	s.Require().NoError(err)
	s.Equal(r.ID(), found.RecipeID)

	_, err = s.repos.Plans.FindEntry(s.ctx, other.ID(), entry.ID)
	s.ErrorIs(err, outbound.ErrNotFound)

	s.Require().NoError(s.repos.Plans.DeleteEntry(s.ctx, entry.ID))
	s.ErrorIs(s.repos.Plans.DeleteEntry(s.ctx, entry.ID), outbound.ErrNotFound)

	_, err = s.repos.Plans.FindEntry(s.ctx, owner.ID(), entry.ID)
	s.ErrorIs(err, outbound.ErrNotFound)
}

func (s *RepositoryContractSuite) TestFindInRangeAndFirstPlanDate() {
	u := s.factory.SeedUser(s.T(), s.repos.Users)
	other := s.factory.SeedUser(s.T(), s.repos.Users)
	r := s.factory.SeedRecipe(s.T(), s.repos.Recipes, u.ID(), 400, "egg")

	first, err := s.repos.Plans.FirstPlanDate(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Nil(first)

	for _, d := range []string{"2024-03-12", "2024-03-09", "2024-03-10"} {
		p, err := s.repos.Plans.GetOrCreate(s.ctx, u.ID(), day(d))
		s.Require().NoError(err)
		_, err = s.repos.Plans.AddEntry(s.ctx, p.ID, r.ID())
		s.Require().NoError(err)
	}
	_, err = s.repos.Plans.GetOrCreate(s.ctx, other.ID(), day("2024-03-01"))
	s.Require().NoError(err)

	plans, err := s.repos.Plans.FindInRange(s.ctx, u.ID(), day("2024-03-09"), day("2024-03-12"))
	s.Require().NoError(err)
	s.Require().Len(plans, 2)
	s.Equal("2024-03-09", plans[0].DayKey())
	s.Equal("2024-03-10", plans[1].DayKey())
	s.EqualValues(400, plans[0].TotalCalories())

	first, err = s.repos.Plans.FirstPlanDate(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Require().NotNil(first)
	s.Equal("2024-03-09", plan.DayKey(*first))
}

func (s *RepositoryContractSuite) TestPantryReplace() {
	u := s.factory.SeedUser(s.T(), s.repos.Users)

	items, err := s.repos.Pantries.List(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Empty(items)

	s.Require().NoError(s.repos.Pantries.Replace(s.ctx, u.ID(), []string{"milk", "egg"}))
	items, err = s.repos.Pantries.List(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("egg", items[0].Name)
	s.Equal(u.ID(), items[0].UserID)

	s.Require().NoError(s.repos.Pantries.Replace(s.ctx, u.ID(), []string{"rice"}))
	items, err = s.repos.Pantries.List(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("rice", items[0].Name)

	s.Require().NoError(s.repos.Pantries.Replace(s.ctx, u.ID(), nil))
	items, err = s.repos.Pantries.List(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Empty(items)

	s.ErrorIs(s.repos.Pantries.Replace(s.ctx, u.ID()+1000, []string{"egg"}), outbound.ErrNotFound)
}
