// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"nutritrack/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu                sync.Mutex
	users             []*domain.User
	sessions          map[string]*domain.Session
	meals             []domain.Meal
	intakes           []domain.IntakeRecord
	individualIntakes []domain.IndividualIntake
	water             []domain.WaterIntake
	activities        []domain.Activity
	bmr               []domain.BMRCalculation
	activityTypes     []domain.ActivityType
	ingredients       []domain.Ingredient

	nextID map[string]int64
}

// New creates a new in-memory database with the default catalogs.
func New() *DB {
	return &DB{
		sessions:      make(map[string]*domain.Session),
		nextID:        make(map[string]int64),
		activityTypes: append([]domain.ActivityType(nil), defaultActivityTypes...),
		ingredients:   append([]domain.Ingredient(nil), defaultIngredients...),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.MealRepository = (*DB)(nil)
var _ domain.IntakeRepository = (*DB)(nil)
var _ domain.IngredientRepository = (*DB)(nil)
var _ domain.WaterRepository = (*DB)(nil)
var _ domain.ActivityRepository = (*DB)(nil)
var _ domain.BMRRepository = (*DB)(nil)
var _ domain.ReportRepository = (*DB)(nil)
var _ domain.OwnerLookup = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

var defaultActivityTypes = []domain.ActivityType{
	{Name: "Walking", CaloriesPerHour: 280},
	{Name: "Running", CaloriesPerHour: 600},
	{Name: "Cycling", CaloriesPerHour: 500},
	{Name: "Swimming", CaloriesPerHour: 480},
	{Name: "Yoga", CaloriesPerHour: 185},
	{Name: "Dancing", CaloriesPerHour: 330},
	{Name: "Hiking", CaloriesPerHour: 430},
	{Name: "Weight lifting", CaloriesPerHour: 220},
	{Name: "Rowing", CaloriesPerHour: 510},
	{Name: "Jumping rope", CaloriesPerHour: 720},
	{Name: "Football", CaloriesPerHour: 560},
	{Name: "Tennis", CaloriesPerHour: 450},
	{Name: "Basketball", CaloriesPerHour: 520},
	{Name: "Cleaning", CaloriesPerHour: 200},
	{Name: "Gardening", CaloriesPerHour: 250},
}

var defaultIngredients = []domain.Ingredient{
	{Name: "Apple", Protein: 0.3, Fat: 0.2, Fiber: 2.4, Calories: 52},
	{Name: "Banana", Protein: 1.1, Fat: 0.3, Fiber: 2.6, Calories: 89},
	{Name: "Oats", Protein: 16.9, Fat: 6.9, Fiber: 10.6, Calories: 389},
	{Name: "Rice", Protein: 2.7, Fat: 0.3, Fiber: 0.4, Calories: 130},
	{Name: "Egg", Protein: 12.6, Fat: 10.6, Fiber: 0, Calories: 155},
	{Name: "Milk", Protein: 3.4, Fat: 1, Fiber: 0, Calories: 42},
	{Name: "Chicken breast", Protein: 31, Fat: 3.6, Fiber: 0, Calories: 165},
	{Name: "Broccoli", Protein: 2.8, Fat: 0.4, Fiber: 2.6, Calories: 34},
	{Name: "Potato", Protein: 2, Fat: 0.1, Fiber: 2.2, Calories: 77},
	{Name: "Bread", Protein: 9, Fat: 3.2, Fiber: 2.7, Calories: 265},
}

// id returns the next id of a table. Callers hold mu.
func (db *DB) id(table string) int64 {
	db.nextID[table]++
	return db.nextID[table]
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == nu.Username {
			return nil, fmt.Errorf("username %q: %w", nu.Username, domain.ErrConflict)
		}
	}

	u := &domain.User{
		ID:           db.id("users"),
		Username:     nu.Username,
		PasswordHash: nu.PasswordHash,
		Email:        nu.Email,
		Age:          nu.Age,
		Weight:       nu.Weight,
		Gender:       nu.Gender,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	cp := *u
	return &cp, nil
}

// UpdateProfile sets the non-nil fields of p.
func (db *DB) UpdateProfile(ctx context.Context, id int64, p domain.ProfilePatch) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID != id {
			continue
		}
		if p.Age != nil {
			u.Age = *p.Age
		}
		if p.Weight != nil {
			u.Weight = *p.Weight
		}
		if p.Gender != nil {
			u.Gender = *p.Gender
		}
		return 1, nil
	}
	return 0, nil
}

// Delete removes a user and their sessions. Other rows are left in place.
func (db *DB) Delete(ctx context.Context, id int64) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, u := range db.users {
		if u.ID == id {
			db.users = append(db.users[:i], db.users[i+1:]...)
			for tok, s := range db.sessions {
				if s.UserID == id {
					delete(db.sessions, tok)
				}
			}
			return 1, nil
		}
	}
	return 0, nil
}

// --- MealRepository ---

// CreateMeal stores a meal.
func (db *DB) CreateMeal(ctx context.Context, m domain.Meal) (*domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	m.ID = db.id("meals")
	m.CreatedAt = time.Now().UTC()
	m.Ingredients = append([]domain.MealIngredient{}, m.Ingredients...)
	db.meals = append(db.meals, m)
	return &m, nil
}

// ListMeals returns a user's meals in creation order.
func (db *DB) ListMeals(ctx context.Context, userID int64) ([]domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.Meal{}
	for _, m := range db.meals {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

// DeleteMeal removes a meal by ID, scoped to a user.
func (db *DB) DeleteMeal(ctx context.Context, userID, id int64) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, m := range db.meals {
		if m.ID == id && m.UserID == userID {
			db.meals = append(db.meals[:i], db.meals[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// --- IntakeRepository ---

// RecordIntake derives nutrients from the referenced meal. It returns
// domain.ErrNotFound when the meal does not exist or is not the user's.
func (db *DB) RecordIntake(ctx context.Context, in domain.NewIntake) (*domain.IntakeRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var meal *domain.Meal
	for i := range db.meals {
		if db.meals[i].ID == in.MealID && db.meals[i].UserID == in.UserID {
			meal = &db.meals[i]
			break
		}
	}
	if meal == nil {
		return nil, domain.ErrNotFound
	}

	n := domain.ScaleMeal(*meal, in.MealWeight)
	name := in.MealName
	if name == "" {
		name = meal.Name
	}
	rec := domain.IntakeRecord{
		ID:              db.id("intakes"),
		UserID:          in.UserID,
		MealID:          meal.ID,
		MealName:        name,
		ConsumptionTime: in.ConsumptionTime,
		MealWeight:      in.MealWeight,
		Calories:        n.Calories,
		Protein:         n.Protein,
		Fat:             n.Fat,
		Fibers:          n.Fibers,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
	}
	db.intakes = append(db.intakes, rec)
	return &rec, nil
}

// ListIntakes returns a user's meal intakes, newest first.
func (db *DB) ListIntakes(ctx context.Context, userID int64) ([]domain.IntakeRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.IntakeRecord{}
	for _, r := range db.intakes {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ConsumptionTime.Equal(out[j].ConsumptionTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].ConsumptionTime.After(out[j].ConsumptionTime)
	})
	return out, nil
}

// UpdateIntake sets the non-nil fields of p. Stored nutrients are kept.
func (db *DB) UpdateIntake(ctx context.Context, userID, id int64, p domain.IntakePatch) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.intakes {
		r := &db.intakes[i]
		if r.ID != id || r.UserID != userID {
			continue
		}
		if p.MealWeight != nil {
			r.MealWeight = *p.MealWeight
		}
		if p.MealName != nil {
			r.MealName = *p.MealName
		}
		if p.ConsumptionTime != nil {
			r.ConsumptionTime = *p.ConsumptionTime
		}
		return 1, nil
	}
	return 0, nil
}

// DeleteIntake removes an intake by ID, scoped to a user.
func (db *DB) DeleteIntake(ctx context.Context, userID, id int64) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, r := range db.intakes {
		if r.ID == id && r.UserID == userID {
			db.intakes = append(db.intakes[:i], db.intakes[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// --- IngredientRepository ---

// IngredientByName looks up the ingredient catalog, ignoring case.
func (db *DB) IngredientByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, ing := range db.ingredients {
		if strings.EqualFold(ing.Name, name) {
			cp := ing
			return &cp, nil
		}
	}
	return nil, nil
}

// AddIndividualIntake stores an ingredient intake as given.
func (db *DB) AddIndividualIntake(ctx context.Context, in domain.IndividualIntake) (*domain.IndividualIntake, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	in.ID = db.id("individual_intakes")
	db.individualIntakes = append(db.individualIntakes, in)
	return &in, nil
}

// ListIndividualIntakes returns a user's ingredient intakes, newest first.
func (db *DB) ListIndividualIntakes(ctx context.Context, userID int64) ([]domain.IndividualIntake, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.IndividualIntake{}
	for _, r := range db.individualIntakes {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IntakeDateTime.Equal(out[j].IntakeDateTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].IntakeDateTime.After(out[j].IntakeDateTime)
	})
	return out, nil
}

// UpdateIndividualIntake sets the non-nil fields of p.
func (db *DB) UpdateIndividualIntake(ctx context.Context, userID, id int64, p domain.IndividualIntakePatch) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.individualIntakes {
		r := &db.individualIntakes[i]
		if r.ID != id || r.UserID != userID {
			continue
		}
		if p.Quantity != nil {
			r.Quantity = *p.Quantity
		}
		if p.IntakeDateTime != nil {
			r.IntakeDateTime = *p.IntakeDateTime
		}
		if p.IngredientName != nil {
			r.IngredientName = *p.IngredientName
		}
		return 1, nil
	}
	return 0, nil
}

// DeleteIndividualIntake removes an ingredient intake by ID, scoped to a user.
func (db *DB) DeleteIndividualIntake(ctx context.Context, userID, id int64) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, r := range db.individualIntakes {
		if r.ID == id && r.UserID == userID {
			db.individualIntakes = append(db.individualIntakes[:i], db.individualIntakes[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// --- WaterRepository ---

// AddWater stores a water intake.
func (db *DB) AddWater(ctx context.Context, w domain.WaterIntake) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	w.ID = db.id("water")
	db.water = append(db.water, w)
	return w.ID, nil
}

// ListWater returns a user's water intakes, newest first.
func (db *DB) ListWater(ctx context.Context, userID int64) ([]domain.WaterIntake, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.WaterIntake{}
	for _, w := range db.water {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].DateTime.After(out[j].DateTime)
	})
	return out, nil
}

// UpdateWater sets the non-nil fields of p.
func (db *DB) UpdateWater(ctx context.Context, userID, id int64, p domain.WaterPatch) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.water {
		w := &db.water[i]
		if w.ID != id || w.UserID != userID {
			continue
		}
		if p.Liters != nil {
			w.Liters = *p.Liters
		}
		if p.DateTime != nil {
			w.DateTime = *p.DateTime
		}
		return 1, nil
	}
	return 0, nil
}

// DeleteWater removes a water intake by ID, scoped to a user.
func (db *DB) DeleteWater(ctx context.Context, userID, id int64) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, w := range db.water {
		if w.ID == id && w.UserID == userID {
			db.water = append(db.water[:i], db.water[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// --- ActivityRepository / BMRRepository ---

// AddActivity logs an activity.
func (db *DB) AddActivity(ctx context.Context, a domain.Activity) (*domain.Activity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	a.ID = db.id("activities")
	db.activities = append(db.activities, a)
	return &a, nil
}

// ListActivities returns a user's activities, newest first.
func (db *DB) ListActivities(ctx context.Context, userID int64) ([]domain.Activity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.Activity{}
	for _, a := range db.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].DateTime.After(out[j].DateTime)
	})
	return out, nil
}

// ActivityTypeByName looks up the activity catalog, ignoring case.
func (db *DB) ActivityTypeByName(ctx context.Context, name string) (*domain.ActivityType, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, t := range db.activityTypes {
		if strings.EqualFold(t.Name, name) {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

// AddBMR stores a BMR calculation.
func (db *DB) AddBMR(ctx context.Context, b domain.BMRCalculation) (*domain.BMRCalculation, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	b.ID = db.id("bmr")
	b.CreatedAt = time.Now().UTC()
	db.bmr = append(db.bmr, b)
	return &b, nil
}

// ListBMR returns a user's BMR history, newest first.
func (db *DB) ListBMR(ctx context.Context, userID int64) ([]domain.BMRCalculation, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.BMRCalculation{}
	for i := len(db.bmr) - 1; i >= 0; i-- {
		if db.bmr[i].UserID == userID {
			out = append(out, db.bmr[i])
		}
	}
	return out, nil
}

// --- ReportRepository ---

// SumByBucket sums a metric per day or month within r, ordered by bucket.
func (db *DB) SumByBucket(ctx context.Context, m domain.Metric, userID int64, r domain.DateRange, v domain.ViewType) ([]domain.Bucket, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	totals := map[string]float64{}
	add := func(owner int64, at time.Time, value float64) {
		if owner == userID && r.Contains(at) {
			totals[domain.BucketKey(at, v)] += value
		}
	}

	switch m {
	case domain.MetricCaloriesIntake:
		for _, x := range db.intakes {
			add(x.UserID, x.ConsumptionTime, x.Calories)
		}
	case domain.MetricWaterLiters:
		for _, x := range db.water {
			add(x.UserID, x.DateTime, x.Liters)
		}
	case domain.MetricCaloriesBurned:
		for _, x := range db.activities {
			add(x.UserID, x.DateTime, x.CaloriesBurned)
		}
	default:
		return nil, fmt.Errorf("unknown metric %q", m)
	}

	out := make([]domain.Bucket, 0, len(totals))
	for k, total := range totals {
		out = append(out, domain.Bucket{Date: k, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// --- OwnerLookup ---

// OwnerOf returns the user that owns a record, or domain.ErrNotFound.
func (db *DB) OwnerOf(ctx context.Context, kind domain.Kind, id int64) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	switch kind {
	case domain.KindMeal:
		for _, x := range db.meals {
			if x.ID == id {
				return x.UserID, nil
			}
		}
	case domain.KindIntake:
		for _, x := range db.intakes {
			if x.ID == id {
				return x.UserID, nil
			}
		}
	case domain.KindIndividualIntake:
		for _, x := range db.individualIntakes {
			if x.ID == id {
				return x.UserID, nil
			}
		}
	case domain.KindWater:
		for _, x := range db.water {
			if x.ID == id {
				return x.UserID, nil
			}
		}
	case domain.KindUser:
		for _, u := range db.users {
			if u.ID == id {
				return u.ID, nil
			}
		}
	default:
		return 0, fmt.Errorf("unknown record kind %q", kind)
	}
	return 0, domain.ErrNotFound
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	var n int64
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
			n++
		}
	}
	return n, nil
}
