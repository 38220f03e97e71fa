// internal/app/features/setup/handler.go
package setup

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/gatehouse/internal/app/store/users"
	"github.com/dalemusser/gatehouse/internal/app/system/respond"
	"github.com/dalemusser/gatehouse/internal/app/system/timeouts"
)

// Handler serves the unauthenticated first-run probe. The client uses it to
// decide whether to show the initial principal signup screen.
type Handler struct {
	Log   *zap.Logger
	Users *userstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Users: userstore.New(db)}
}

// HandleCheck reports whether the system still needs its first principal.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Users.CountPrincipals(ctx)
	if err != nil {
		respond.ServerError(w, h.Log, "setup: principal count failed", err, "Could not check the setup state.")
		return
	}
	respond.OK(w, respond.Payload{"setupNeeded": n == 0})
}

// Routes mounts the setup probe.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/check", h.HandleCheck)
	return r
}
