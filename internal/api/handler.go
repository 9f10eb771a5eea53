package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cookcart/internal/config"
	"cookcart/internal/converter"
	"cookcart/internal/logger"
	"cookcart/internal/recipe"
	"cookcart/internal/render"
	"cookcart/internal/shopping"
	"cookcart/internal/shoppinglist"
	"cookcart/internal/units"
)

// RecipeSource defines the recipe lookups the API needs.
type RecipeSource interface {
	List(ctx context.Context) ([]recipe.Entry, error)
	Get(ctx context.Context, path string) (*recipe.Recipe, error)
	Search(ctx context.Context, query string) ([]recipe.Entry, error)
}

// ShoppingListStore defines the interface for saved shopping lists.
type ShoppingListStore interface {
	Save(ctx context.Context, rec *shoppinglist.Record) error
	Get(ctx context.Context, id string) (*shoppinglist.Record, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Recipes   RecipeSource
	Lists     ShoppingListStore   // nil when no database is configured
	Converter converter.Converter // nil when no model is configured
	Units     *units.Table
	Config    *config.Config
	Log       *logger.Logger
}

// NewHandler creates a new Handler.
func NewHandler(recipes RecipeSource, lists ShoppingListStore, conv converter.Converter, table *units.Table, cfg *config.Config, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{Recipes: recipes, Lists: lists, Converter: conv, Units: table, Config: cfg, Log: log}
}

func (h *Handler) timeout() time.Duration {
	if h.Config != nil && h.Config.RequestTimeout > 0 {
		return h.Config.RequestTimeout
	}
	return 30 * time.Second
}

// requestLog returns the per-request entry set by RequestLogger.
func (h *Handler) requestLog(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(logKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return h.Log
}

// aisleMapping loads the aisle file for this request. A missing or broken
// file degrades to an empty mapping.
func (h *Handler) aisleMapping(c *gin.Context) *shopping.AisleMapping {
	if h.Config == nil {
		return shopping.NewAisleMapping()
	}
	m, err := h.Config.AisleMapping()
	if err != nil {
		h.requestLog(c).WithError(err).Warn("aisle mapping unavailable, list will be uncategorized")
	}
	return m
}

// statusFor maps recipe and storage errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	case errors.Is(err, recipe.ErrInvalidPath):
		return http.StatusBadRequest
	case errors.Is(err, recipe.ErrNotFound), errors.Is(err, shoppinglist.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, converter.ErrNoRecipe):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, what string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.requestLog(c).WithError(err).Error(what)
	}
	if status == http.StatusRequestTimeout {
		c.String(status, fmt.Sprintf("%s timed out after %s", what, h.timeout()))
		return
	}
	c.String(status, fmt.Sprintf("%s: %s", what, err.Error()))
}

// ListRecipes returns every recipe in the collection.
func (h *Handler) ListRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout())
	defer cancel()

	entries, err := h.Recipes.List(ctx)
	if err != nil {
		h.fail(c, "list recipes", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetRecipe returns one recipe with its ingredients grouped and scaled.
func (h *Handler) GetRecipe(c *gin.Context) {
	p := strings.TrimPrefix(c.Param("path"), "/")
	scale := 1.0
	if s := c.Query("scale"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || !recipe.ValidScale(v) {
			c.String(http.StatusBadRequest, fmt.Sprintf("invalid scale: %q", s))
			return
		}
		scale = v
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout())
	defer cancel()

	r, err := h.Recipes.Get(ctx, p)
	if err != nil {
		h.fail(c, "get recipe", err)
		return
	}

	resp := recipe.NewScaled(p, r, scale, h.Units)
	if resp.Image != "" {
		resp.Image = "/api/static/" + resp.Image
	}
	c.JSON(http.StatusOK, resp)
}

// Search returns recipes matching the q parameter.
func (h *Handler) Search(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout())
	defer cancel()

	entries, err := h.Recipes.Search(ctx, c.Query("q"))
	if err != nil {
		h.fail(c, "search recipes", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ShoppingList builds a categorized list from the posted selections.
func (h *Handler) ShoppingList(c *gin.Context) {
	format, err := render.ParseFormat(c.DefaultQuery("format", string(render.FormatJSON)))
	if err != nil || format == render.FormatPretty {
		c.String(http.StatusBadRequest, fmt.Sprintf("unsupported format: %q", c.Query("format")))
		return
	}
	save := c.Query("save") == "true"
	if save && h.Lists == nil {
		c.String(http.StatusServiceUnavailable, "shopping list storage is not configured")
		return
	}

	var selections []recipe.Selection
	if err := c.ShouldBindJSON(&selections); err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("invalid body: %s", err.Error()))
		return
	}
	for i, sel := range selections {
		clean, err := recipe.CheckPath(sel.Path)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		if sel.Scale < 0 {
			c.String(http.StatusBadRequest, fmt.Sprintf("invalid scale for %s", clean))
			return
		}
		if sel.Scale == 0 {
			sel.Scale = 1
		}
		sel.Path = clean
		selections[i] = sel
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout())
	defer cancel()

	limit := 0
	if h.Config != nil {
		limit = h.Config.LoadConcurrency
	}
	recipes, err := recipe.LoadSelections(ctx, h.Recipes, selections, limit)
	if err != nil {
		h.fail(c, "load recipes", err)
		return
	}
	list := shopping.Build(recipes, h.Units, h.aisleMapping(c))

	if save {
		rec := &shoppinglist.Record{Recipes: selections, List: list}
		if err := h.Lists.Save(ctx, rec); err != nil {
			h.fail(c, "save shopping list", err)
			return
		}
		c.Header("Location", "/api/shopping_lists/"+rec.ID)
		c.Header(ListIDHeader, rec.ID)
	}

	if format == render.FormatJSON {
		c.JSON(http.StatusOK, list)
		return
	}
	var buf bytes.Buffer
	if err := render.Write(&buf, format, list, 0); err != nil {
		h.fail(c, "render shopping list", err)
		return
	}
	if format == render.FormatXLSX {
		c.Header("Content-Disposition", `attachment; filename="shopping-list.xlsx"`)
	}
	c.Data(http.StatusOK, render.ContentType(format), buf.Bytes())
}

// GetShoppingList returns a saved list.
func (h *Handler) GetShoppingList(c *gin.Context) {
	if h.Lists == nil {
		c.String(http.StatusServiceUnavailable, "shopping list storage is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout())
	defer cancel()

	rec, err := h.Lists.Get(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, "get shopping list", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type convertRequest struct {
	Text string `json:"text"`
}

// Convert turns posted recipe text into a structured recipe. With
// ?format=yaml the recipe is returned as a recipe file.
func (h *Handler) Convert(c *gin.Context) {
	if h.Converter == nil {
		c.String(http.StatusServiceUnavailable, "recipe conversion is not configured")
		return
	}

	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.String(http.StatusBadRequest, "text is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout())
	defer cancel()

	r, err := h.Converter.ConvertRecipe(ctx, req.Text)
	if err != nil {
		h.fail(c, "convert recipe", err)
		return
	}

	if c.Query("format") == "yaml" {
		data, err := recipe.Encode(r)
		if err != nil {
			h.fail(c, "encode recipe", err)
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", data)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Reload acknowledges a reload request. Recipes are read from disk on every
// request, so there is nothing to refresh.
func (h *Handler) Reload(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
