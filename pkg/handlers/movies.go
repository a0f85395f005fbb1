package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bingeclub/bingeclub-engine/pkg/apperrors"
	"github.com/bingeclub/bingeclub-engine/pkg/auth"
	"github.com/bingeclub/bingeclub-engine/pkg/logging"
	"github.com/bingeclub/bingeclub-engine/pkg/models"
	"github.com/bingeclub/bingeclub-engine/pkg/services"
)

// MoviesHandler handles the movie search and watchlist HTTP requests.
type MoviesHandler struct {
	movieService services.MovieService
	logger       *zap.Logger
}

// NewMoviesHandler creates a new movies handler.
func NewMoviesHandler(movieService services.MovieService, logger *zap.Logger) *MoviesHandler {
	return &MoviesHandler{
		movieService: movieService,
		logger:       logger,
	}
}

// RegisterRoutes registers the movie routes on the given mux. Every route is
// protected: the auth middleware attaches the caller identity or rejects the
// request before these handlers run.
func (h *MoviesHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/movies/search", authMiddleware.RequireAuth(h.Search))
	mux.HandleFunc("POST /api/movies/save", authMiddleware.RequireAuth(h.Save))
	mux.HandleFunc("GET /api/movies/saved", authMiddleware.RequireAuth(h.Saved))
	mux.HandleFunc("GET /api/movies/history", authMiddleware.RequireAuth(h.History))
	mux.HandleFunc("GET /api/movies/check/{imdbID}", authMiddleware.RequireAuth(h.Check))
	mux.HandleFunc("DELETE /api/movies/{id}", authMiddleware.RequireAuth(h.Delete))
}

// Search handles GET /api/movies/search?title=...
// Looks the title up with the metadata oracle and returns the normalized
// record.
func (h *MoviesHandler) Search(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.GetIdentity(r.Context())
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		h.writeError(w, http.StatusBadRequest, "missing_title", "Title parameter is required")
		return
	}

	meta, err := h.movieService.Search(r.Context(), identity, title)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", oracleMessage(err))
			return
		}
		// Transport errors echo the lookup URL, API key included.
		h.logger.Error("Failed to search movie",
			zap.String("user_id", identity.UserID),
			zap.String("title", title),
			zap.String("error", logging.SanitizeError(err)))
		h.writeError(w, http.StatusInternalServerError, "search_failed", logging.SanitizeError(err))
		return
	}

	if err := WriteJSON(w, http.StatusOK, meta); err != nil {
		h.logger.Error("Failed to encode search response", zap.Error(err))
	}
}

// Save handles POST /api/movies/save
// Persists the posted metadata record for the caller. Saving an already
// saved title is reported as success with an "already exists" message.
func (h *MoviesHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.GetIdentity(r.Context())
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	var meta models.MovieMetadata
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if meta.Title == "" || meta.IMDbID == "" {
		h.writeError(w, http.StatusBadRequest, "missing_fields", "Title and IMDB ID are required")
		return
	}

	result, err := h.movieService.Save(r.Context(), identity, &meta)
	if err != nil {
		h.logger.Error("Failed to save movie",
			zap.String("user_id", identity.UserID),
			zap.String("imdb_id", meta.IMDbID),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "save_failed", err.Error())
		return
	}

	message := "Movie saved successfully"
	if !result.Created {
		message = "Movie already exists"
	}

	response := SuccessResponse{
		Success: true,
		Message: message,
		Data:    result.Movie,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode save response", zap.Error(err))
	}
}

// Saved handles GET /api/movies/saved
// Returns the caller's saved movies, newest first.
func (h *MoviesHandler) Saved(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.GetIdentity(r.Context())
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	movies, err := h.movieService.List(r.Context(), identity)
	if err != nil {
		h.logger.Error("Failed to list saved movies",
			zap.String("user_id", identity.UserID),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}

	response := SuccessResponse{
		Success: true,
		Data:    movies,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode saved movies response", zap.Error(err))
	}
}

// Delete handles DELETE /api/movies/{id}
// Removes one of the caller's saved movies. Deleting an id the caller does
// not own matches zero rows and still succeeds.
func (h *MoviesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.GetIdentity(r.Context())
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	movieID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_movie_id", "Invalid movie ID format")
		return
	}

	if err := h.movieService.Delete(r.Context(), identity, movieID); err != nil {
		h.logger.Error("Failed to delete movie",
			zap.String("user_id", identity.UserID),
			zap.String("movie_id", movieID.String()),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "delete_failed", err.Error())
		return
	}

	response := SuccessResponse{
		Success: true,
		Message: "Movie deleted successfully",
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode delete response", zap.Error(err))
	}
}

// Check handles GET /api/movies/check/{imdbID}
// Reports whether the caller has saved the title. Absence is the normal
// false case, never an error.
func (h *MoviesHandler) Check(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.GetIdentity(r.Context())
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	imdbID := r.PathValue("imdbID")

	exists, err := h.movieService.Exists(r.Context(), identity, imdbID)
	if err != nil {
		h.logger.Error("Failed to check movie existence",
			zap.String("user_id", identity.UserID),
			zap.String("imdb_id", imdbID),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "check_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"exists":  exists,
	}); err != nil {
		h.logger.Error("Failed to encode check response", zap.Error(err))
	}
}

// History handles GET /api/movies/history?limit=N
// Returns the caller's recent searches, newest first.
func (h *MoviesHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.GetIdentity(r.Context())
	if !ok {
		h.writeUnauthenticated(w)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "invalid_limit", "Limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	entries, err := h.movieService.History(r.Context(), identity, limit)
	if err != nil {
		h.logger.Error("Failed to fetch search history",
			zap.String("user_id", identity.UserID),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "history_failed", err.Error())
		return
	}

	response := SuccessResponse{
		Success: true,
		Data:    entries,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode history response", zap.Error(err))
	}
}

// writeError writes an error response, logging any encoding failure.
func (h *MoviesHandler) writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

// writeUnauthenticated rejects a request that reached a protected handler
// without an identity in context.
func (h *MoviesHandler) writeUnauthenticated(w http.ResponseWriter) {
	h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
}

// oracleMessage strips the wrapped not-found sentinel so the response body
// carries the oracle's own message.
func oracleMessage(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+apperrors.ErrNotFound.Error())
}
