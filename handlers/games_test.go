package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bggapi/cache"
	"bggapi/models"
	"bggapi/monitoring"

	"github.com/gin-gonic/gin"
)

type fakeGames struct {
	rows        map[int64][]models.Game
	err         error
	calls       int
	hadDeadline bool
}

func (f *fakeGames) FindByID(ctx context.Context, id int64) ([]models.Game, error) {
	f.calls++
	_, f.hadDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[id], nil
}

type stubReview struct {
	id     string
	rating *float64
}

// fakeReviews mirrors the $match/$group stages over in-memory reviews.
type fakeReviews struct {
	byGame map[int64][]stubReview
	err    error
	calls  int
}

func (f *fakeReviews) Summarize(_ context.Context, gameID int64) ([]models.ReviewSummary, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	reviews := f.byGame[gameID]
	if len(reviews) == 0 {
		return []models.ReviewSummary{}, nil
	}

	summary := models.ReviewSummary{GameID: gameID}
	var sum float64
	var n int
	for _, r := range reviews {
		summary.CommentIDs = append(summary.CommentIDs, r.id)
		if r.rating != nil {
			sum += *r.rating
			n++
		}
	}
	if n > 0 {
		avg := sum / float64(n)
		summary.AvgRating = &avg
	}
	return []models.ReviewSummary{summary}, nil
}

type fakeCache struct {
	items  map[int64]models.GameResponse
	getErr error
	sets   int
}

func (f *fakeCache) GetGame(_ context.Context, id int64) (*models.GameResponse, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	resp, ok := f.items[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &resp, nil
}

func (f *fakeCache) SetGame(_ context.Context, id int64, resp models.GameResponse) error {
	f.sets++
	if f.items == nil {
		f.items = map[int64]models.GameResponse{}
	}
	f.items[id] = resp
	return nil
}

func rating(v float64) *float64 { return &v }

var catan = models.Game{GID: 13, Name: "Catan", Year: 1995, URL: "https://boardgamegeek.com/boardgame/13", Image: "catan.jpg"}

func newFixtures() (*fakeGames, *fakeReviews) {
	games := &fakeGames{rows: map[int64][]models.Game{
		13: {catan},
		50: {{GID: 50, Name: "Lost Cities", Year: 1999, URL: "https://boardgamegeek.com/boardgame/50", Image: "lc.jpg"}},
	}}
	reviews := &fakeReviews{byGame: map[int64][]stubReview{
		13: {{id: "r1", rating: rating(6)}, {id: "r2", rating: rating(7)}, {id: "r3", rating: rating(9.5)}},
	}}
	return games, reviews
}

func serve(h *GameHandler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/game/:id", h.GetGame)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetGameMergesBothStores(t *testing.T) {
	games, reviews := newFixtures()
	rec := serve(NewGameHandler(games, reviews, GameHandlerOptions{}), "/game/13")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 6 {
		t.Errorf("body has %d fields, want 6: %v", len(body), body)
	}
	if body["name"] != "Catan" || body["year"] != float64(1995) ||
		body["url"] != catan.URL || body["image"] != "catan.jpg" {
		t.Errorf("game fields = %v", body)
	}
	ids, _ := body["reviews"].([]interface{})
	if len(ids) != 3 || ids[0] != "r1" || ids[2] != "r3" {
		t.Errorf("reviews = %v, want [r1 r2 r3]", body["reviews"])
	}
	if body["average_rating"] != 7.5 {
		t.Errorf("average_rating = %v, want 7.5", body["average_rating"])
	}
}

func TestGetGameNotFound(t *testing.T) {
	games, reviews := newFixtures()
	rec := serve(NewGameHandler(games, reviews, GameHandlerOptions{}), "/game/999")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := rec.Body.String(); got != `{"status":"Error 404. No record found."}` {
		t.Errorf("body = %s", got)
	}
	if reviews.calls != 0 {
		t.Errorf("review store called %d times for a missing game", reviews.calls)
	}
}

func TestGetGameWithoutReviews(t *testing.T) {
	games, reviews := newFixtures()
	rec := serve(NewGameHandler(games, reviews, GameHandlerOptions{}), "/game/50")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := `{"name":"Lost Cities","year":1999,"url":"https://boardgamegeek.com/boardgame/50","image":"lc.jpg","reviews":[],"average_rating":null}`
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestGetGameInvalidID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-3", "12abc", "1.5"} {
		t.Run(id, func(t *testing.T) {
			games, reviews := newFixtures()
			rec := serve(NewGameHandler(games, reviews, GameHandlerOptions{}), "/game/"+id)

			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
			if games.calls != 0 {
				t.Errorf("game store called for id %q", id)
			}
		})
	}
}

func TestGetGameStoreErrors(t *testing.T) {
	tests := []struct {
		name       string
		gamesErr   error
		reviewsErr error
		wantBody   string
	}{
		{
			name:     "relational failure",
			gamesErr: errors.New("connection lost"),
			wantBody: `{"status":"Error 500. Failed to fetch record."}`,
		},
		{
			name:       "document failure",
			reviewsErr: errors.New("server selection timeout"),
			wantBody:   `{"status":"Error 500. Failed to fetch reviews."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games, reviews := newFixtures()
			games.err = tt.gamesErr
			reviews.err = tt.reviewsErr

			rec := serve(NewGameHandler(games, reviews, GameHandlerOptions{Metrics: monitoring.NewMetrics()}), "/game/13")

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			if got := rec.Body.String(); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
		})
	}
}

func TestGetGameRelationalErrorSkipsReviews(t *testing.T) {
	games, reviews := newFixtures()
	games.err = errors.New("connection lost")

	serve(NewGameHandler(games, reviews, GameHandlerOptions{}), "/game/13")

	if reviews.calls != 0 {
		t.Errorf("review store called %d times after relational failure", reviews.calls)
	}
}

func TestGetGameCache(t *testing.T) {
	games, reviews := newFixtures()
	c := &fakeCache{}
	h := NewGameHandler(games, reviews, GameHandlerOptions{Cache: c})

	first := serve(h, "/game/13")
	second := serve(h, "/game/13")

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("cached body differs:\n%s\n%s", first.Body, second.Body)
	}
	if games.calls != 1 || reviews.calls != 1 {
		t.Errorf("store calls = %d/%d, want 1/1", games.calls, reviews.calls)
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want 1", c.sets)
	}
}

func TestGetGameCacheSkipsNotFound(t *testing.T) {
	games, reviews := newFixtures()
	c := &fakeCache{}

	serve(NewGameHandler(games, reviews, GameHandlerOptions{Cache: c}), "/game/999")

	if c.sets != 0 {
		t.Errorf("cache sets = %d, want 0", c.sets)
	}
}

func TestGetGameCacheFailureFallsThrough(t *testing.T) {
	games, reviews := newFixtures()
	c := &fakeCache{getErr: errors.New("redis down")}

	rec := serve(NewGameHandler(games, reviews, GameHandlerOptions{Cache: c}), "/game/13")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if games.calls != 1 {
		t.Errorf("game store calls = %d, want 1", games.calls)
	}
}

func TestGetGameTimeout(t *testing.T) {
	games, reviews := newFixtures()
	serve(NewGameHandler(games, reviews, GameHandlerOptions{Timeout: 5 * time.Second}), "/game/13")
	if !games.hadDeadline {
		t.Error("expected a deadline on the datastore context")
	}

	games, reviews = newFixtures()
	serve(NewGameHandler(games, reviews, GameHandlerOptions{}), "/game/13")
	if games.hadDeadline {
		t.Error("unexpected deadline with timeout disabled")
	}
}
