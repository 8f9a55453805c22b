package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	adapthttp "nutritrack/internal/adapter/http"
	"nutritrack/internal/adapter/memory"
	"nutritrack/internal/app"
	"nutritrack/internal/domain"
	"nutritrack/internal/metrics"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type mockFoodLookup struct {
	searchFn    func(ctx context.Context, productName string) ([]domain.FoodItem, error)
	compSpecsFn func(ctx context.Context, itemID int64, sortKey int) ([]domain.CompSpec, error)
}

func (m *mockFoodLookup) Search(ctx context.Context, productName string) ([]domain.FoodItem, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, productName)
	}
	return []domain.FoodItem{{FoodID: 1, FoodName: productName}}, nil
}

func (m *mockFoodLookup) CompSpecs(ctx context.Context, itemID int64, sortKey int) ([]domain.CompSpec, error) {
	if m.compSpecsFn != nil {
		return m.compSpecsFn(ctx, itemID, sortKey)
	}
	return []domain.CompSpec{{FoodID: itemID, SortKey: sortKey, ResVal: 100}}, nil
}

// ---------------------------------------------------------------------------
// Test-server helper
// ---------------------------------------------------------------------------

type testEnv struct {
	ts *httptest.Server
}

func newTestServer(t *testing.T, food domain.FoodLookup, opts adapthttp.Options) *testEnv {
	t.Helper()

	if food == nil {
		food = &mockFoodLookup{}
	}
	db := memory.New()
	policy := domain.NewOwnershipPolicy(db)
	auth := app.NewAuthService(db, db.NewSessionRepo(), time.Hour)

	if opts.WebDir == "" {
		webDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<html></html>"), 0o600); err != nil {
			t.Fatal(err)
		}
		opts.WebDir = webDir
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.LoginRatePerMin == 0 {
		opts.LoginRatePerMin = 1000
	}

	srv := adapthttp.New(adapthttp.Services{
		Auth:        auth,
		Users:       app.NewUserService(db, policy),
		Meals:       app.NewMealService(db, policy),
		Intakes:     app.NewIntakeService(db, policy),
		Ingredients: app.NewIngredientService(db, policy),
		Water:       app.NewWaterService(db, policy),
		Activities:  app.NewActivityService(db, db),
		Reports:     app.NewReportService(db),
		Food:        app.NewFoodService(food),
	}, opts)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{ts: ts}
}

// client is a browser-like session bound to one cookie jar.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func (e *testEnv) newClient(t *testing.T) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &client{t: t, base: e.ts.URL, http: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (c *client) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatal(err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rdr)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("request failed: %v", err)
	}
	c.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (c *client) register(username string) int64 {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/user/register", map[string]any{
		"username": username,
		"password": "pw1",
		"email":    username + "@example.com",
		"age":      30,
		"weight":   70.5,
		"gender":   "female",
	})
	expectStatus(c.t, resp, http.StatusCreated)
	body := decodeBody(c.t, resp)
	id, ok := body["userId"].(float64)
	if !ok {
		c.t.Fatalf("register response missing userId: %v", body)
	}
	return int64(id)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return m
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var l []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatalf("failed to decode response list: %v", err)
	}
	return l
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected %d, got %d; body: %s", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, b)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	resp := env.newClient(t).do(http.MethodGet, "/api/health", nil)
	expectStatus(t, resp, http.StatusOK)
	if body := decodeBody(t, resp); body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestHealthEndpoint_StorageDown(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{
		Ping: func(context.Context) error { return errors.New("connection refused") },
	})
	resp := env.newClient(t).do(http.MethodGet, "/api/health", nil)
	expectStatus(t, resp, http.StatusServiceUnavailable)
}

func TestRegisterLoginActivityScenario(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	alice := env.newClient(t)
	id := alice.register("alice")

	resp := alice.do(http.MethodPost, "/user/login", map[string]any{"username": "alice", "password": "pw1"})
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody(t, resp)["UserId"]; got != float64(id) {
		t.Fatalf("login UserId = %v, want %d", got, id)
	}

	before := time.Now().Add(-time.Second)
	resp = alice.do(http.MethodPost, "/activity/add", map[string]any{
		"ActivityType": "Run", "DurationMinutes": 30, "CaloriesBurned": 300,
	})
	expectStatus(t, resp, http.StatusCreated)
	act := decodeBody(t, resp)
	at, err := time.Parse(time.RFC3339Nano, act["ActivityDateTime"].(string))
	if err != nil {
		t.Fatalf("ActivityDateTime: %v", err)
	}
	if at.Before(before) || at.After(time.Now().Add(time.Second)) {
		t.Errorf("ActivityDateTime %v is not close to now", at)
	}

	resp = alice.do(http.MethodGet, "/activity/activities", nil)
	expectStatus(t, resp, http.StatusOK)
	list := decodeList(t, resp)
	if len(list) != 1 || list[0]["ActivityType"] != "Run" {
		t.Fatalf("activities = %v", list)
	}

	anon := env.newClient(t)
	resp = anon.do(http.MethodGet, "/activity/activities", nil)
	expectStatus(t, resp, http.StatusForbidden)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	c := env.newClient(t)

	tests := []struct {
		name    string
		payload map[string]any
		want    int
	}{
		{"missing email", map[string]any{"username": "bob", "password": "x", "age": 20, "weight": 60}, http.StatusBadRequest},
		{"zero age", map[string]any{"username": "bob", "password": "x", "email": "b@x.io", "age": 0, "weight": 60}, http.StatusBadRequest},
		{"negative weight", map[string]any{"username": "bob", "password": "x", "email": "b@x.io", "age": 20, "weight": -1}, http.StatusBadRequest},
		{"ok", map[string]any{"username": "bob", "password": "x", "email": "b@x.io", "age": 20, "weight": 60}, http.StatusCreated},
		{"taken", map[string]any{"username": "bob", "password": "y", "email": "c@x.io", "age": 21, "weight": 61}, http.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := c.do(http.MethodPost, "/user/register", tc.payload)
			expectStatus(t, resp, tc.want)
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	c := env.newClient(t)
	c.register("carol")

	resp := c.do(http.MethodPost, "/user/login", map[string]any{"username": "carol", "password": "wrong"})
	expectStatus(t, resp, http.StatusUnauthorized)

	resp = c.do(http.MethodPost, "/user/login", map[string]any{"username": "nobody", "password": "pw1"})
	expectStatus(t, resp, http.StatusNotFound)
}

func TestLogoutEndsSession(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	c := env.newClient(t)
	c.register("dave")

	expectStatus(t, c.do(http.MethodGet, "/bmr", nil), http.StatusOK)
	expectStatus(t, c.do(http.MethodPost, "/user/logout", nil), http.StatusOK)
	expectStatus(t, c.do(http.MethodGet, "/bmr", nil), http.StatusForbidden)

	// Logging out without a session still succeeds.
	expectStatus(t, env.newClient(t).do(http.MethodPost, "/user/logout", nil), http.StatusOK)
}

func TestGatedRoutesWithoutSession(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	anon := env.newClient(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/user/details/1"},
		{http.MethodPut, "/user/update/1"},
		{http.MethodDelete, "/user/1"},
		{http.MethodPost, "/meals/create"},
		{http.MethodGet, "/meals/save"},
		{http.MethodGet, "/saveMeals/save"},
		{http.MethodDelete, "/meals/delete/1"},
		{http.MethodPost, "/intakes/record"},
		{http.MethodGet, "/intakes/mealIntakes"},
		{http.MethodPut, "/intakes/update/1"},
		{http.MethodDelete, "/intakes/delete/1"},
		{http.MethodGet, "/ingredient/ingredientDetails?IngredientName=Apple"},
		{http.MethodPost, "/ingredient/registerIngredient"},
		{http.MethodPost, "/water/addWater"},
		{http.MethodPut, "/water/updateWater/1"},
		{http.MethodGet, "/activity?activityName=Running"},
		{http.MethodPost, "/activity/add"},
		{http.MethodPost, "/bmr/add"},
		{http.MethodGet, "/nutrition/calories?startDate=2024-01-01&endDate=2024-01-31"},
		{http.MethodGet, "/nutrition/water/intake?startDate=2024-01-01&endDate=2024-01-31"},
		{http.MethodGet, "/nutrition/calories-burned?startDate=2024-01-01&endDate=2024-01-31"},
		{http.MethodGet, "/search?productName=apple"},
		{http.MethodGet, "/food/nutrients?itemID=1&weight=50"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			resp := anon.do(rt.method, rt.path, map[string]any{"MealName": "x", "Liter": 1})
			expectStatus(t, resp, http.StatusForbidden)
		})
	}

	// Nothing was written by the rejected requests.
	c := env.newClient(t)
	c.register("erin")
	expectStatus(t, c.do(http.MethodGet, "/meals/save", nil), http.StatusNotFound)
}

func TestMealIntakeScaling(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	c := env.newClient(t)
	c.register("frank")

	resp := c.do(http.MethodPost, "/meals/create", map[string]any{
		"MealName":     "Porridge",
		"totalKcal":    500,
		"totalProtein": 20,
		"Ingredients":  `[{"name":"Oats","weight":80}]`,
	})
	expectStatus(t, resp, http.StatusCreated)
	meal := decodeBody(t, resp)
	mealID := int64(meal["MealID"].(float64))

	resp = c.do(http.MethodPost, "/intakes/record", map[string]any{
		"MealID": mealID, "MealWeight": 50, "ConsumptionTime": "2024-05-01T08:00",
	})
	expectStatus(t, resp, http.StatusCreated)
	rec := decodeBody(t, resp)
	if rec["Calories"] != 250.0 || rec["Protein"] != 10.0 {
		t.Fatalf("intake nutrients = %v/%v, want 250/10", rec["Calories"], rec["Protein"])
	}

	resp = c.do(http.MethodGet, "/saveMeals/save", nil)
	expectStatus(t, resp, http.StatusOK)
	meals := decodeList(t, resp)
	if len(meals) != 1 {
		t.Fatalf("meals = %v", meals)
	}
	if ings, ok := meals[0]["Ingredients"].([]any); !ok || len(ings) != 1 {
		t.Fatalf("ingredients = %v", meals[0]["Ingredients"])
	}

	resp = c.do(http.MethodPost, "/intakes/record", map[string]any{
		"MealID": 9999, "MealWeight": 50, "ConsumptionTime": "2024-05-01T08:00",
	})
	expectStatus(t, resp, http.StatusNotFound)
}

func TestCrossUserMutationsAreNotFound(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	owner := env.newClient(t)
	ownerID := owner.register("grace")
	other := env.newClient(t)
	other.register("heidi")

	resp := owner.do(http.MethodPost, "/water/addWater", map[string]any{"WaterDateTime": "2024-05-01T09:00", "Liter": 0.5})
	expectStatus(t, resp, http.StatusCreated)
	waterID := int64(decodeBody(t, resp)["WaterIntakeID"].(float64))

	resp = owner.do(http.MethodPost, "/meals/create", map[string]any{"MealName": "Soup", "totalKcal": 100})
	expectStatus(t, resp, http.StatusCreated)
	mealID := int64(decodeBody(t, resp)["MealID"].(float64))

	expectStatus(t, other.do(http.MethodPut, fmt.Sprintf("/water/updateWater/%d", waterID), map[string]any{"Liter": 2}), http.StatusNotFound)
	expectStatus(t, other.do(http.MethodDelete, fmt.Sprintf("/water/deleteWater/%d", waterID), nil), http.StatusNotFound)
	expectStatus(t, other.do(http.MethodDelete, fmt.Sprintf("/meals/delete/%d", mealID), nil), http.StatusNotFound)
	expectStatus(t, other.do(http.MethodGet, fmt.Sprintf("/user/details/%d", ownerID), nil), http.StatusNotFound)
	expectStatus(t, other.do(http.MethodDelete, fmt.Sprintf("/user/%d", ownerID), nil), http.StatusNotFound)

	resp = owner.do(http.MethodGet, "/water/waterIntakes", nil)
	expectStatus(t, resp, http.StatusOK)
	list := decodeList(t, resp)
	if len(list) != 1 || list[0]["Liter"] != 0.5 {
		t.Fatalf("owner's water intake changed: %v", list)
	}

	expectStatus(t, owner.do(http.MethodDelete, fmt.Sprintf("/meals/delete/%d", mealID), nil), http.StatusOK)
	expectStatus(t, owner.do(http.MethodDelete, "/meals/delete/0", nil), http.StatusBadRequest)
}

func TestIntakeRecord_OtherUsersMealIsNotFound(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	owner := env.newClient(t)
	owner.register("ivan")
	other := env.newClient(t)
	other.register("judy")

	resp := owner.do(http.MethodPost, "/meals/create", map[string]any{"MealName": "Private plan", "totalKcal": 1234})
	expectStatus(t, resp, http.StatusCreated)
	mealID := int64(decodeBody(t, resp)["MealID"].(float64))

	resp = other.do(http.MethodPost, "/intakes/record", map[string]any{
		"MealID": mealID, "MealWeight": 100, "ConsumptionTime": "2024-05-01T08:00",
	})
	expectStatus(t, resp, http.StatusNotFound)
	if body, _ := io.ReadAll(resp.Body); bytes.Contains(body, []byte("Private plan")) {
		t.Fatalf("response leaks meal name: %s", body)
	}

	resp = other.do(http.MethodGet, "/intakes/mealIntakes", nil)
	expectStatus(t, resp, http.StatusOK)
	if list := decodeList(t, resp); len(list) != 0 {
		t.Fatalf("intake stored against another user's meal: %v", list)
	}
}

func TestIntakeMutations_OwnershipAndFrozenNutrients(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	owner := env.newClient(t)
	owner.register("ken")
	other := env.newClient(t)
	other.register("lena")

	resp := owner.do(http.MethodPost, "/meals/create", map[string]any{"MealName": "Porridge", "totalKcal": 500})
	expectStatus(t, resp, http.StatusCreated)
	mealID := int64(decodeBody(t, resp)["MealID"].(float64))

	resp = owner.do(http.MethodPost, "/intakes/record", map[string]any{
		"MealID": mealID, "MealWeight": 50, "ConsumptionTime": "2024-05-01T08:00",
	})
	expectStatus(t, resp, http.StatusCreated)
	intakeID := int64(decodeBody(t, resp)["IntakeID"].(float64))

	expectStatus(t, other.do(http.MethodPut, fmt.Sprintf("/intakes/update/%d", intakeID), map[string]any{"MealWeight": 999}), http.StatusNotFound)
	expectStatus(t, other.do(http.MethodDelete, fmt.Sprintf("/intakes/delete/%d", intakeID), nil), http.StatusNotFound)

	resp = owner.do(http.MethodGet, "/intakes/mealIntakes", nil)
	expectStatus(t, resp, http.StatusOK)
	list := decodeList(t, resp)
	if len(list) != 1 || list[0]["MealWeight"] != 50.0 {
		t.Fatalf("intake changed by another user: %v", list)
	}

	expectStatus(t, owner.do(http.MethodPut, fmt.Sprintf("/intakes/update/%d", intakeID), map[string]any{"MealWeight": 200}), http.StatusOK)

	resp = owner.do(http.MethodGet, "/intakes/mealIntakes", nil)
	expectStatus(t, resp, http.StatusOK)
	list = decodeList(t, resp)
	if len(list) != 1 || list[0]["MealWeight"] != 200.0 || list[0]["Calories"] != 250.0 {
		t.Fatalf("after weight edit got %v, want MealWeight 200 and Calories 250", list)
	}

	expectStatus(t, owner.do(http.MethodDelete, fmt.Sprintf("/intakes/delete/%d", intakeID), nil), http.StatusOK)
	resp = owner.do(http.MethodGet, "/intakes/mealIntakes", nil)
	expectStatus(t, resp, http.StatusOK)
	if list := decodeList(t, resp); len(list) != 0 {
		t.Fatalf("intake not deleted: %v", list)
	}
}

func TestWaterAdd_Validation(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	c := env.newClient(t)
	c.register("ivan")

	tests := []struct {
		name    string
		payload map[string]any
		want    int
	}{
		{"missing liter", map[string]any{"WaterDateTime": "2024-05-01T09:00"}, http.StatusBadRequest},
		{"missing time", map[string]any{"Liter": 1}, http.StatusBadRequest},
		{"too much", map[string]any{"WaterDateTime": "2024-05-01T09:00", "Liter": 11}, http.StatusBadRequest},
		{"zero liters", map[string]any{"WaterDateTime": "2024-05-01T09:00", "Liter": 0}, http.StatusCreated},
		{"ok", map[string]any{"WaterDateTime": "2024-05-01T09:00", "Liter": 1.5}, http.StatusCreated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expectStatus(t, c.do(http.MethodPost, "/water/addWater", tc.payload), tc.want)
		})
	}
}

func TestReports(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	c := env.newClient(t)
	c.register("judy")

	for _, w := range []map[string]any{
		{"WaterDateTime": "2024-05-01T09:00", "Liter": 0.5},
		{"WaterDateTime": "2024-05-01T18:00", "Liter": 1.0},
		{"WaterDateTime": "2024-06-02T09:00", "Liter": 2.0},
	} {
		expectStatus(t, c.do(http.MethodPost, "/water/addWater", w), http.StatusCreated)
	}

	t.Run("daily", func(t *testing.T) {
		resp := c.do(http.MethodGet, "/nutrition/water/intake?startDate=2024-05-01&endDate=2024-06-30&viewType=daily", nil)
		expectStatus(t, resp, http.StatusOK)
		body := decodeBody(t, resp)
		buckets := body["waterIntake"].([]any)
		if len(buckets) != 2 {
			t.Fatalf("buckets = %v", buckets)
		}
		first := buckets[0].(map[string]any)
		if first["date"] != "2024-05-01" || first["total"] != 1.5 {
			t.Errorf("first bucket = %v", first)
		}
		if body["viewType"] != "daily" {
			t.Errorf("viewType = %v", body["viewType"])
		}
	})

	t.Run("monthly is idempotent", func(t *testing.T) {
		path := "/nutrition/water/intake?startDate=2024-01-01&endDate=2024-12-31&viewType=monthly"
		a, _ := io.ReadAll(c.do(http.MethodGet, path, nil).Body)
		b, _ := io.ReadAll(c.do(http.MethodGet, path, nil).Body)
		if !bytes.Equal(a, b) {
			t.Fatalf("responses differ:\n%s\n%s", a, b)
		}
		if !bytes.Contains(a, []byte(`"date":"2024-06"`)) {
			t.Errorf("expected monthly bucket key in %s", a)
		}
	})

	t.Run("empty range yields zero record", func(t *testing.T) {
		resp := c.do(http.MethodGet, "/nutrition/calories?startDate=2020-01-01&endDate=2020-01-31", nil)
		expectStatus(t, resp, http.StatusOK)
		buckets := decodeBody(t, resp)["caloriesData"].([]any)
		if len(buckets) != 1 || buckets[0].(map[string]any)["total"] != 0.0 {
			t.Fatalf("buckets = %v", buckets)
		}
	})

	t.Run("missing dates", func(t *testing.T) {
		expectStatus(t, c.do(http.MethodGet, "/nutrition/calories-burned", nil), http.StatusBadRequest)
	})
}

func TestActivityCatalog(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	c := env.newClient(t)
	c.register("ken")

	resp := c.do(http.MethodGet, "/activity/calculate?activityName=Running&durationMinutes=30", nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody(t, resp)["caloriesBurned"]; got != 300.0 {
		t.Errorf("caloriesBurned = %v, want 300", got)
	}

	expectStatus(t, c.do(http.MethodGet, "/activity?activityName=Teleporting", nil), http.StatusNotFound)
	expectStatus(t, c.do(http.MethodGet, "/activity/calculate?activityName=Running", nil), http.StatusBadRequest)
	expectStatus(t, c.do(http.MethodGet, "/activity/activities", nil), http.StatusNotFound)
}

func TestFoodRoutes(t *testing.T) {
	food := &mockFoodLookup{
		compSpecsFn: func(_ context.Context, itemID int64, sortKey int) ([]domain.CompSpec, error) {
			if sortKey == 1030 {
				return []domain.CompSpec{{ResVal: 52}, {ResVal: 99}}, nil
			}
			return nil, nil
		},
	}
	env := newTestServer(t, food, adapthttp.Options{})
	c := env.newClient(t)
	c.register("liam")

	resp := c.do(http.MethodGet, "/food/nutrients?itemID=7&weight=200", nil)
	expectStatus(t, resp, http.StatusOK)
	nutrients := decodeBody(t, resp)["nutrients"].(map[string]any)
	if nutrients["Kcal"] != 104.0 || nutrients["Fat"] != 0.0 {
		t.Fatalf("nutrients = %v", nutrients)
	}

	expectStatus(t, c.do(http.MethodGet, "/search?productName=", nil), http.StatusBadRequest)
	expectStatus(t, c.do(http.MethodGet, "/FoodCompSpecs?itemID=7", nil), http.StatusBadRequest)

	food.searchFn = func(context.Context, string) ([]domain.FoodItem, error) {
		return nil, errors.New("upstream timeout")
	}
	resp = c.do(http.MethodGet, "/search?productName=apple", nil)
	expectStatus(t, resp, http.StatusInternalServerError)
	if body := decodeBody(t, resp); body["error"] != "internal error" {
		t.Errorf("500 body leaks details: %v", body)
	}
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{LoginRatePerMin: 2})
	c := env.newClient(t)

	creds := map[string]any{"username": "nobody", "password": "x"}
	expectStatus(t, c.do(http.MethodPost, "/user/login", creds), http.StatusNotFound)
	expectStatus(t, c.do(http.MethodPost, "/user/login", creds), http.StatusNotFound)
	expectStatus(t, c.do(http.MethodPost, "/user/login", creds), http.StatusTooManyRequests)
}

func TestSSODisabled(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	c := env.newClient(t)

	resp := c.do(http.MethodGet, "/api/config", nil)
	expectStatus(t, resp, http.StatusOK)
	if decodeBody(t, resp)["sso_enabled"] != false {
		t.Error("expected sso_enabled=false")
	}
	expectStatus(t, c.do(http.MethodGet, "/auth/sso/login", nil), http.StatusNotFound)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	c := env.newClient(t)
	expectStatus(t, c.do(http.MethodGet, "/api/health", nil), http.StatusOK)

	resp := c.do(http.MethodGet, "/metrics", nil)
	expectStatus(t, resp, http.StatusOK)
	b, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(b, []byte(`nutritrack_http_requests_total{method="GET",route="/api/health",status="200"} 1`)) {
		t.Errorf("metrics output missing health request counter:\n%s", b)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestServer(t, nil, adapthttp.Options{})
	c := env.newClient(t)

	tests := []struct{ method, path string }{
		{http.MethodGet, "/user/login"},
		{http.MethodPut, "/user/register"},
		{http.MethodDelete, "/api/health"},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			expectStatus(t, c.do(tc.method, tc.path, nil), http.StatusMethodNotAllowed)
		})
	}
}
