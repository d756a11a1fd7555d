package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bggapi/cache"
	"bggapi/models"
	"bggapi/monitoring"
	"bggapi/utils"

	"github.com/gin-gonic/gin"
)

const (
	msgNotFound      = "Error 404. No record found."
	msgGameFailed    = "Error 500. Failed to fetch record."
	msgReviewsFailed = "Error 500. Failed to fetch reviews."
)

// GameFinder looks up game rows by id.
type GameFinder interface {
	FindByID(ctx context.Context, id int64) ([]models.Game, error)
}

// ReviewSummarizer aggregates the reviews of a game.
type ReviewSummarizer interface {
	Summarize(ctx context.Context, gameID int64) ([]models.ReviewSummary, error)
}

// GameCache stores merged responses. GetGame returns cache.ErrCacheMiss
// for unknown ids.
type GameCache interface {
	GetGame(ctx context.Context, gameID int64) (*models.GameResponse, error)
	SetGame(ctx context.Context, gameID int64, resp models.GameResponse) error
}

type GameHandlerOptions struct {
	Cache   GameCache           // nil disables caching
	Metrics *monitoring.Metrics // nil disables datastore metrics
	Timeout time.Duration       // per datastore call, 0 means none
}

// GameHandler serves GET /game/:id by joining the relational game row
// with the review summary from the document store.
type GameHandler struct {
	games   GameFinder
	reviews ReviewSummarizer
	cache   GameCache
	metrics *monitoring.Metrics
	timeout time.Duration
}

func NewGameHandler(games GameFinder, reviews ReviewSummarizer, opts GameHandlerOptions) *GameHandler {
	return &GameHandler{
		games:   games,
		reviews: reviews,
		cache:   opts.Cache,
		metrics: opts.Metrics,
		timeout: opts.Timeout,
	}
}

// GetGame handles GET /game/:id.
func (h *GameHandler) GetGame(c *gin.Context) {
	// Ids that are not positive integers cannot match a row.
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || utils.ValidateVar(id, "gte=1") != nil {
		c.JSON(http.StatusNotFound, models.StatusResponse{Status: msgNotFound})
		return
	}
	ctx := c.Request.Context()

	if cached := h.cachedGame(ctx, id); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	games, err := h.findGame(ctx, id)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.StatusResponse{Status: msgGameFailed})
		return
	}
	if len(games) == 0 {
		c.JSON(http.StatusNotFound, models.StatusResponse{Status: msgNotFound})
		return
	}

	summaries, err := h.summarize(ctx, id)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.StatusResponse{Status: msgReviewsFailed})
		return
	}

	var summary *models.ReviewSummary
	if len(summaries) > 0 {
		summary = &summaries[0]
	}
	resp := models.NewGameResponse(games[0], summary)

	h.storeGame(ctx, id, resp)
	c.JSON(http.StatusOK, resp)
}

func (h *GameHandler) findGame(ctx context.Context, id int64) ([]models.Game, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	games, err := h.games.FindByID(ctx, id)
	h.metrics.ObserveQuery("sql", start, err)
	return games, err
}

func (h *GameHandler) summarize(ctx context.Context, id int64) ([]models.ReviewSummary, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	summaries, err := h.reviews.Summarize(ctx, id)
	h.metrics.ObserveQuery("mongo", start, err)
	return summaries, err
}

func (h *GameHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

// cachedGame returns nil on a miss or when caching is off. Cache errors
// only cost a datastore round trip, so they are logged and skipped.
func (h *GameHandler) cachedGame(ctx context.Context, id int64) *models.GameResponse {
	if h.cache == nil {
		return nil
	}

	start := time.Now()
	resp, err := h.cache.GetGame(ctx, id)
	switch {
	case err == nil:
		h.metrics.ObserveQuery("redis", start, nil)
		utils.LogDebug("Cache HIT", map[string]interface{}{"game_id": id})
		return resp
	case errors.Is(err, cache.ErrCacheMiss):
		h.metrics.ObserveQuery("redis", start, nil)
		utils.LogDebug("Cache MISS", map[string]interface{}{"game_id": id})
	default:
		h.metrics.ObserveQuery("redis", start, err)
		utils.LogWarn("Cache read failed", map[string]interface{}{"game_id": id, "error": err.Error()})
	}
	return nil
}

func (h *GameHandler) storeGame(ctx context.Context, id int64, resp models.GameResponse) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetGame(ctx, id, resp); err != nil {
		utils.LogWarn("Cache write failed", map[string]interface{}{"game_id": id, "error": err.Error()})
	}
}
