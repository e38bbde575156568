package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/kitchen"
	"github.com/aretw0/kitchen/internal/logging"
	"github.com/aretw0/kitchen/internal/sanitize"
	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodySize bounds a single turn request.
const maxBodySize = 64 << 10

type apiSpec struct {
	doc  *openapi3.T
	turn *routers.Route
}

var loadSpec = sync.OnceValues(func() (*apiSpec, error) {
	doc, err := Spec()
	if err != nil {
		return nil, err
	}
	turn, err := turnRoute(doc)
	if err != nil {
		return nil, err
	}
	return &apiSpec{doc: doc, turn: turn}, nil
})

// Engine defines the interface for the kitchen dialogue core.
type Engine interface {
	HandleTurn(ctx context.Context, req kitchen.TurnRequest) (*kitchen.TurnResult, error)
}

// RecipeLister exposes the catalog for GET /recipes.
type RecipeLister interface {
	Recipes() []*domain.Recipe
}

// Server serves the turn API over chi.
type Server struct {
	engine  Engine
	recipes RecipeLister
	metrics http.Handler
	logger  *slog.Logger
	spec    *apiSpec
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts a handler (usually promhttp.Handler()) at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// TurnResponse is the JSON body returned by POST /turn.
type TurnResponse struct {
	Response   domain.Response      `json:"response"`
	EndSession bool                 `json:"end_session"`
	State      domain.DialogueState `json:"state"`
	RecipeID   string               `json:"recipe_id,omitempty"`
	Step       int                  `json:"step,omitempty"`
	Desired    *domain.DesiredState `json:"desired,omitempty"`
	Failed     bool                 `json:"failed,omitempty"`
}

// RecipeSummary is one entry of GET /recipes.
type RecipeSummary struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Slots []string `json:"slots"`
	Steps int      `json:"steps"`
}

// NewHandler creates a new HTTP handler for the engine.
// It panics if the embedded OpenAPI document is invalid.
func NewHandler(engine Engine, recipes RecipeLister, opts ...Option) http.Handler {
	spec, err := loadSpec()
	if err != nil {
		panic(err)
	}
	s := &Server{
		engine:  engine,
		recipes: recipes,
		logger:  logging.NewNop(),
		spec:    spec,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/turn", s.Turn)
	r.Get("/recipes", s.GetRecipes)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.json", s.GetSpec)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// Turn handles the POST /turn request.
func (s *Server) Turn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
		Request: r,
		Route:   s.spec.turn,
		Options: &openapi3filter.Options{MultiError: false},
	}); err != nil {
		s.logger.Warn("Turn: Request does not match schema", "err", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var req kitchen.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Turn: Invalid request body", "err", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	slots, err := sanitize.Slots(req.Slots)
	if err != nil {
		s.logger.Warn("Turn: Slots rejected", "err", err, "user_id", req.UserID)
		http.Error(w, "Invalid slot value", http.StatusBadRequest)
		return
	}
	req.Slots = slots
	req.Intent = domain.Intent(strings.TrimSpace(string(req.Intent)))

	result, err := s.engine.HandleTurn(r.Context(), req)
	if err != nil {
		if errors.Is(err, kitchen.ErrInvalidRequest) {
			s.logger.Warn("Turn: Request rejected", "err", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("Turn failed", "err", err, "user_id", req.UserID)
		http.Error(w, "Turn failed", http.StatusInternalServerError)
		return
	}

	resp := TurnResponse{
		Response:   result.Response,
		EndSession: result.Response.EndsSession(),
		State:      domain.StateStart,
		Desired:    result.Desired,
		Failed:     result.Failed,
	}
	if result.Session != nil {
		resp.State = result.Session.DialogueState()
		if result.Session.Active != nil {
			resp.RecipeID = result.Session.Active.RecipeID
			resp.Step = result.Session.Active.Step
		}
	}
	if result.Failed {
		s.logger.Warn("Turn answered with apology", "user_id", req.UserID, "intent", req.Intent)
	}

	writeJSON(w, s.logger, resp)
}

// GetRecipes handles the GET /recipes request.
func (s *Server) GetRecipes(w http.ResponseWriter, r *http.Request) {
	list := make([]RecipeSummary, 0)
	if s.recipes != nil {
		for _, rec := range s.recipes.Recipes() {
			list = append(list, RecipeSummary{
				ID:    rec.ID,
				Title: rec.Title,
				Slots: rec.Slots,
				Steps: len(rec.Steps),
			})
		}
	}
	writeJSON(w, s.logger, list)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "kitchen-http",
		"version": strings.TrimSpace(kitchen.Version),
	})
}

// GetSpec serves the OpenAPI document.
func (s *Server) GetSpec(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, s.spec.doc)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
