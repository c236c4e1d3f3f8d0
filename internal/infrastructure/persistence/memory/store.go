package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alchemorsel/mealplan/internal/domain/pantry"
	"github.com/alchemorsel/mealplan/internal/domain/plan"
	"github.com/alchemorsel/mealplan/internal/domain/recipe"
	"github.com/alchemorsel/mealplan/internal/domain/user"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
)

type planRow struct {
	id        uint
	userID    uint
	date      time.Time
	createdAt time.Time
}

type entryRow struct {
	id        uint
	planID    uint
	recipeID  uint
	createdAt time.Time
}

// Store keeps every table in process memory behind one lock, so each
// repository call is atomic. It backs the "memory" database driver and the
// application tests.
type Store struct {
	mu      sync.RWMutex
	nextID  uint
	users   map[uint]user.Snapshot
	recipes map[uint]recipe.Snapshot
	plans   map[uint]planRow
	entries map[uint]entryRow
	pantry  map[uint][]pantry.Item
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:   make(map[uint]user.Snapshot),
		recipes: make(map[uint]recipe.Snapshot),
		plans:   make(map[uint]planRow),
		entries: make(map[uint]entryRow),
		pantry:  make(map[uint][]pantry.Item),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// Users returns the user repository view of the store.
func (s *Store) Users() outbound.UserRepository { return &UserRepository{s} }

// Recipes returns the recipe repository view of the store.
func (s *Store) Recipes() outbound.RecipeRepository { return &RecipeRepository{s} }

// Plans returns the plan repository view of the store.
func (s *Store) Plans() outbound.PlanRepository { return &PlanRepository{s} }

// Pantries returns the pantry repository view of the store.
func (s *Store) Pantries() outbound.PantryRepository { return &PantryRepository{s} }

// UserRepository implements outbound.UserRepository
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email() {
			return outbound.ErrDuplicate
		}
	}
	u.AssignID(r.s.id())
	r.s.users[u.ID()] = u.Snapshot()
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID()]; !ok {
		return outbound.ErrNotFound
	}
	r.s.users[u.ID()] = u.Snapshot()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	snap, ok := r.s.users[id]
	if !ok {
		return nil, outbound.ErrNotFound
	}
	return user.Reconstitute(snap), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, snap := range r.s.users {
		if snap.Email == email {
			return user.Reconstitute(snap), nil
		}
	}
	return nil, outbound.ErrNotFound
}

func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.users[id]
	return ok, nil
}

// RecipeRepository implements outbound.RecipeRepository
type RecipeRepository struct{ s *Store }

func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[rec.AuthorID()]; !ok {
		return outbound.ErrNotFound
	}
	rec.AssignID(r.s.id())
	r.s.recipes[rec.ID()] = rec.Snapshot()
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.recipes[id]; !ok {
		return outbound.ErrNotFound
	}
	delete(r.s.recipes, id)
	for entryID, e := range r.s.entries {
		if e.recipeID == id {
			delete(r.s.entries, entryID)
		}
	}
	return nil
}

func (r *RecipeRepository) FindByID(ctx context.Context, id uint) (*recipe.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	snap, ok := r.s.recipes[id]
	if !ok {
		return nil, outbound.ErrNotFound
	}
	return recipe.Reconstitute(snap), nil
}

func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uint) ([]*recipe.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := make([]*recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		if snap, ok := r.s.recipes[id]; ok {
			found = append(found, recipe.Reconstitute(snap))
		}
	}
	// mimic a store that returns rows in arbitrary order
	sort.Slice(found, func(i, j int) bool { return found[i].ID() > found[j].ID() })
	return found, nil
}

func (r *RecipeRepository) List(ctx context.Context, offset, limit int) ([]*recipe.Recipe, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := r.orderedIDs()
	total := int64(len(ids))
	if offset >= len(ids) {
		return []*recipe.Recipe{}, total, nil
	}
	ids = ids[offset:]
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	page := make([]*recipe.Recipe, len(ids))
	for i, id := range ids {
		page[i] = recipe.Reconstitute(r.s.recipes[id])
	}
	return page, total, nil
}

func (r *RecipeRepository) Candidates(ctx context.Context) ([]recipe.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := r.orderedIDs()
	candidates := make([]recipe.Candidate, len(ids))
	for i, id := range ids {
		snap := r.s.recipes[id]
		names := make([]string, len(snap.Ingredients))
		for j, ing := range snap.Ingredients {
			names[j] = ing.Name
		}
		candidates[i] = recipe.Candidate{RecipeID: id, Ingredients: names}
	}
	return candidates, nil
}

func (r *RecipeRepository) orderedIDs() []uint {
	ids := make([]uint, 0, len(r.s.recipes))
	for id := range r.s.recipes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PlanRepository implements outbound.PlanRepository
type PlanRepository struct{ s *Store }

func (r *PlanRepository) GetOrCreate(ctx context.Context, userID uint, date time.Time) (*plan.DailyPlan, error) {
	date = plan.NormalizeDay(date)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return nil, outbound.ErrNotFound
	}
	for _, p := range r.s.plans {
		if p.userID == userID && p.date.Equal(date) {
			return r.load(p), nil
		}
	}

	row := planRow{id: r.s.id(), userID: userID, date: date, createdAt: time.Now().UTC()}
	r.s.plans[row.id] = row
	return r.load(row), nil
}

func (r *PlanRepository) AddEntry(ctx context.Context, planID, recipeID uint) (*plan.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.plans[planID]; !ok {
		return nil, outbound.ErrNotFound
	}
	rec, ok := r.s.recipes[recipeID]
	if !ok {
		return nil, outbound.ErrNotFound
	}

	row := entryRow{id: r.s.id(), planID: planID, recipeID: recipeID, createdAt: time.Now().UTC()}
	r.s.entries[row.id] = row
	return &plan.Entry{
		ID:          row.id,
		PlanID:      planID,
		RecipeID:    recipeID,
		RecipeTitle: rec.Title,
		Kcal:        rec.Kcal,
		CreatedAt:   row.createdAt,
	}, nil
}

func (r *PlanRepository) FindEntry(ctx context.Context, userID, entryID uint) (*plan.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.entries[entryID]
	if !ok || r.s.plans[row.planID].userID != userID {
		return nil, outbound.ErrNotFound
	}
	entry := r.entry(row)
	return &entry, nil
}

func (r *PlanRepository) DeleteEntry(ctx context.Context, entryID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.entries[entryID]; !ok {
		return outbound.ErrNotFound
	}
	delete(r.s.entries, entryID)
	return nil
}

func (r *PlanRepository) FindInRange(ctx context.Context, userID uint, from, until time.Time) ([]plan.DailyPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var plans []plan.DailyPlan
	for _, p := range r.s.plans {
		if p.userID == userID && !p.date.Before(from) && p.date.Before(until) {
			plans = append(plans, *r.load(p))
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Date.Before(plans[j].Date) })
	return plans, nil
}

func (r *PlanRepository) FirstPlanDate(ctx context.Context, userID uint) (*time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var first *time.Time
	for _, p := range r.s.plans {
		if p.userID != userID {
			continue
		}
		if first == nil || p.date.Before(*first) {
			d := p.date
			first = &d
		}
	}
	return first, nil
}

// load assembles a plan with its entries in insertion order. Callers hold the lock.
func (r *PlanRepository) load(p planRow) *plan.DailyPlan {
	dp := &plan.DailyPlan{ID: p.id, UserID: p.userID, Date: p.date, CreatedAt: p.createdAt}
	for _, e := range r.s.entries {
		if e.planID == p.id {
			dp.Entries = append(dp.Entries, r.entry(e))
		}
	}
	sort.Slice(dp.Entries, func(i, j int) bool { return dp.Entries[i].ID < dp.Entries[j].ID })
	return dp
}

func (r *PlanRepository) entry(e entryRow) plan.Entry {
	rec := r.s.recipes[e.recipeID]
	return plan.Entry{
		ID:          e.id,
		PlanID:      e.planID,
		RecipeID:    e.recipeID,
		RecipeTitle: rec.Title,
		Kcal:        rec.Kcal,
		CreatedAt:   e.createdAt,
	}
}

// PantryRepository implements outbound.PantryRepository
type PantryRepository struct{ s *Store }

func (r *PantryRepository) List(ctx context.Context, userID uint) ([]pantry.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]pantry.Item{}, r.s.pantry[userID]...), nil
}

func (r *PantryRepository) Replace(ctx context.Context, userID uint, names []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return outbound.ErrNotFound
	}
	items := make([]pantry.Item, len(names))
	for i, name := range names {
		items[i] = pantry.Item{ID: r.s.id(), UserID: userID, Name: name}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	r.s.pantry[userID] = items
	return nil
}
