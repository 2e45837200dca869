package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/waste3d/lootshop-api/internal/application"
	"github.com/waste3d/lootshop-api/internal/domain"
	"github.com/waste3d/lootshop-api/internal/infrastructure/cache"
	"github.com/waste3d/lootshop-api/internal/infrastructure/events"
	"github.com/waste3d/lootshop-api/internal/infrastructure/repository"
	"github.com/waste3d/lootshop-api/internal/infrastructure/security"
	"github.com/waste3d/lootshop-api/internal/middleware"
	"github.com/waste3d/lootshop-api/internal/testdb"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testAPI struct {
	router *gin.Engine
	uc     *application.UseCases
	broker *events.RedisBroker
	tokens *security.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.Open(t, repository.AutoMigrate)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := zap.NewNop()
	broker := events.NewRedisBroker(rdb, log)
	uc := application.NewUseCases(repository.NewStore(db), cache.NewProfileCache(rdb), broker, log, nil)
	tokens := security.NewTokenManager("test-secret")

	return &testAPI{
		router: NewRouter(NewHandler(uc, broker, log), middleware.NewRateLimiter(rdb, log), tokens, "", log),
		uc:     uc,
		broker: broker,
		tokens: tokens,
	}
}

func (a *testAPI) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := a.tokens.GenerateAccess(userID, time.Hour)
	require.NoError(t, err)
	return tok
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) seed(t *testing.T, slug, price string) *domain.Product {
	t.Helper()
	_, err := a.uc.Catalog.Seed(context.Background(), []domain.Product{{
		Slug:       slug,
		Title:      slug,
		Price:      decimal.RequireFromString(price),
		RarityTier: domain.RarityEpic,
	}})
	require.NoError(t, err)
	p, err := a.uc.Catalog.GetProduct(context.Background(), slug)
	require.NoError(t, err)
	return p
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPublicRoutes(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t, "spirit-fox-plushie", "29.99")

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/healthz", "", nil).Code)

	w := api.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Products []domain.Product `json:"products"`
	}](t, w)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "29.99", list.Products[0].Price.StringFixed(2))

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/v1/products/spirit-fox-plushie", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/v1/products/nope", "", nil).Code)

	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/v1/progress", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/v1/cart", "garbage", nil).Code)
}

func TestCatalogRoutes(t *testing.T) {
	api := newTestAPI(t)
	_, err := api.uc.Catalog.Seed(context.Background(), []domain.Product{
		{Slug: "spirit-fox-plushie", Title: "Spirit Fox Plushie", Description: "Soft nine-tailed fox", Price: decimal.RequireFromString("29.99"), RarityTier: domain.RarityRare, Category: "plushies"},
		{Slug: "ronin-hoodie", Title: "Ronin Hoodie", Description: "Heavyweight cotton", Price: decimal.RequireFromString("64"), RarityTier: domain.RarityEpic, Category: "apparel"},
		{Slug: "shadow-katana", Title: "Shadow Katana Replica", Description: "Display piece with fox engraving", Price: decimal.RequireFromString("249.5"), RarityTier: domain.RarityLegendary, Category: "collectibles"},
	})
	require.NoError(t, err)

	type productList struct {
		Products []struct {
			Slug  string `json:"slug"`
			Price string `json:"price"`
		} `json:"products"`
	}
	slugs := func(l productList) []string {
		out := make([]string, 0, len(l.Products))
		for _, p := range l.Products {
			out = append(out, p.Slug)
		}
		return out
	}

	w := api.do(t, http.MethodGet, "/api/v1/products?category=apparel", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[productList](t, w)
	assert.Equal(t, []string{"ronin-hoodie"}, slugs(list))
	assert.Equal(t, "64.00", list.Products[0].Price)

	w = api.do(t, http.MethodGet, "/api/v1/products?rarity=legendary", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"shadow-katana"}, slugs(decode[productList](t, w)))

	w = api.do(t, http.MethodGet, "/api/v1/products?category=plushies&rarity=EPIC", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[productList](t, w).Products)

	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/v1/products?rarity=mythic", "", nil).Code)

	w = api.do(t, http.MethodGet, "/api/v1/products/search?q=FOX", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"shadow-katana", "spirit-fox-plushie"}, slugs(decode[productList](t, w)))

	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/v1/products/search?q=+", "", nil).Code)

	w = api.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cats := decode[struct {
		Categories []string `json:"categories"`
	}](t, w)
	assert.Equal(t, []string{"apparel", "collectibles", "plushies"}, cats.Categories)

	w = api.do(t, http.MethodGet, "/api/v1/products/ronin-hoodie", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":"64.00"`)
}

func TestProgressionRoutes(t *testing.T) {
	api := newTestAPI(t)
	tok := api.token(t, uuid.New())

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/v1/progress", tok, nil).Code)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/v1/profile", tok, nil).Code)

	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, "/api/v1/progress/xp", tok, gin.H{}).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, "/api/v1/progress/xp", tok, gin.H{"amount": -5}).Code)

	w := api.do(t, http.MethodPost, "/api/v1/progress/xp", tok, gin.H{"amount": 150})
	require.Equal(t, http.StatusOK, w.Code)
	award := decode[domain.XPAward](t, w)
	assert.Equal(t, 2, award.NewLevel)
	assert.True(t, award.LeveledUp)

	w = api.do(t, http.MethodGet, "/api/v1/progress", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	progress := decode[domain.Progress](t, w)
	assert.Equal(t, int64(150), progress.XP)
	assert.Equal(t, int64(100), progress.XPNeeded)
	assert.InDelta(t, 100.0/3, progress.Progress, 1e-9)
}

func TestCartAndOrderRoutes(t *testing.T) {
	api := newTestAPI(t)
	tok := api.token(t, uuid.New())
	a := api.seed(t, "a", "10")
	b := api.seed(t, "b", "5")
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/v1/profile", tok, nil).Code)

	assert.Equal(t, http.StatusBadRequest,
		api.do(t, http.MethodPost, "/api/v1/cart/items", tok, gin.H{"product_id": "x"}).Code)
	assert.Equal(t, http.StatusNotFound,
		api.do(t, http.MethodPost, "/api/v1/cart/items", tok, gin.H{"product_id": uuid.NewString()}).Code)
	assert.Equal(t, http.StatusBadRequest,
		api.do(t, http.MethodPost, "/api/v1/cart/items", tok, gin.H{"product_id": a.ID, "quantity": 0}).Code)

	require.Equal(t, http.StatusOK,
		api.do(t, http.MethodPost, "/api/v1/cart/items", tok, gin.H{"product_id": a.ID, "quantity": 2}).Code)
	w := api.do(t, http.MethodPost, "/api/v1/cart/items", tok, gin.H{"product_id": b.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	added := decode[struct {
		Item domain.CartItem `json:"item"`
	}](t, w)

	require.Equal(t, http.StatusOK,
		api.do(t, http.MethodPatch, "/api/v1/cart/items/"+added.Item.ID.String(), tok, gin.H{"quantity": 3}).Code)
	assert.Equal(t, http.StatusNotFound,
		api.do(t, http.MethodDelete, "/api/v1/cart/items/"+uuid.NewString(), tok, nil).Code)

	w = api.do(t, http.MethodPost, "/api/v1/orders", tok, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total":"35.00"`)
	assert.Contains(t, w.Body.String(), `"unit_price":"10.00"`)
	res := decode[struct {
		Order struct {
			ID    uuid.UUID       `json:"id"`
			Total decimal.Decimal `json:"total"`
		} `json:"order"`
		XP domain.XPAward `json:"xp"`
	}](t, w)
	assert.Equal(t, "35.00", res.Order.Total.StringFixed(2))
	assert.Equal(t, int64(100), res.XP.NewXP)

	assert.Equal(t, http.StatusUnprocessableEntity, api.do(t, http.MethodPost, "/api/v1/orders", tok, nil).Code)

	w = api.do(t, http.MethodGet, "/api/v1/orders/"+res.Order.ID.String(), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"line_total":"20.00"`)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/v1/orders/abc", tok, nil).Code)
	other := api.token(t, uuid.New())
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/v1/orders/"+res.Order.ID.String(), other, nil).Code)

	w = api.do(t, http.MethodGet, "/api/v1/unlocks", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	unlocks := decode[struct {
		UnlockedIDs []string `json:"unlocked_ids"`
		TotalSpent  string   `json:"total_spent"`
	}](t, w)
	assert.Equal(t, []string{"luffy", "naruto", "goku"}, unlocks.UnlockedIDs)
	assert.Equal(t, "35.00", unlocks.TotalSpent)
}

func TestStreamEvents(t *testing.T) {
	api := newTestAPI(t)
	userID := uuid.New()

	srv := httptest.NewServer(api.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+api.token(t, userID))

	// Headers only arrive with the first event, so keep publishing until the
	// subscription is live.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		award := domain.XPAward{NewXP: 100, NewLevel: 2, LeveledUp: true, NewTitle: "Apprentice Collector"}
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = api.broker.Publish(context.Background(), domain.LevelUpEvent(userID, award, time.Now()))
			}
		}
	}()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	scanner := bufio.NewScanner(resp.Body)
	var sawEvent, sawData bool
	for scanner.Scan() && !(sawEvent && sawData) {
		line := scanner.Text()
		if line == "event:level_up" {
			sawEvent = true
		}
		if strings.HasPrefix(line, "data:") && strings.Contains(line, `"title":"Apprentice Collector"`) {
			sawData = true
		}
	}
	assert.True(t, sawEvent)
	assert.True(t, sawData)
}
