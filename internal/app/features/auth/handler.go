// internal/app/features/auth/handler.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"unicode"

	userstore "github.com/dalemusser/gatehouse/internal/app/store/users"
	sysauth "github.com/dalemusser/gatehouse/internal/app/system/auth"
	"github.com/dalemusser/gatehouse/internal/app/system/normalize"
	"github.com/dalemusser/gatehouse/internal/app/system/ratelimit"
	"github.com/dalemusser/gatehouse/internal/app/system/respond"
	"github.com/dalemusser/gatehouse/internal/app/system/timeouts"
	"github.com/dalemusser/gatehouse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Input length floors, matching the account records already in the wild.
const (
	minUsernameLen = 3
	minPasswordLen = 6
	minPINLen      = 4
)

// Handler serves the /api/auth endpoints.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *sysauth.SessionManager
	Users      *userstore.Store
	Limiter    *ratelimit.LoginLimiter
}

// NewHandler builds the auth Handler and its login rate limiter.
func NewHandler(db *mongo.Database, sessionMgr *sysauth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Users:      userstore.New(db),
		Limiter:    ratelimit.NewLoginLimiter(),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/auth/signup                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

type signupRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	PIN          string `json:"pin"`
	FullName     string `json:"fullName"`
	Role         string `json:"role"`
	DepartmentID string `json:"departmentId"`
}

// HandleSignup creates an account. The first account ever created
// self-approves when it is a principal; every later signup waits in the
// approval queue.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Invalid request body")
		return
	}

	req.Username = normalize.Name(req.Username)
	req.FullName = normalize.Name(req.FullName)
	req.Role = normalize.Role(req.Role)

	if req.Username == "" || req.Password == "" || req.PIN == "" || req.FullName == "" || req.Role == "" {
		respond.BadRequest(w, "Please provide all required fields")
		return
	}
	if len(req.Username) < minUsernameLen {
		respond.BadRequest(w, "Username must be at least 3 characters")
		return
	}
	if len(req.Password) < minPasswordLen {
		respond.BadRequest(w, "Password must be at least 6 characters")
		return
	}
	if !validPIN(req.PIN) {
		respond.BadRequest(w, "PIN must be at least 4 digits")
		return
	}
	if req.Role != models.RoleGuard && req.Role != models.RolePrincipal {
		respond.BadRequest(w, "Role must be guard or principal")
		return
	}

	var deptID *primitive.ObjectID
	if req.DepartmentID != "" {
		oid, err := primitive.ObjectIDFromHex(req.DepartmentID)
		if err != nil {
			respond.BadRequest(w, "Invalid department id")
			return
		}
		deptID = &oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, userstore.CreateParams{
		Username:     req.Username,
		Password:     req.Password,
		PIN:          req.PIN,
		FullName:     req.FullName,
		Role:         req.Role,
		DepartmentID: deptID,
	})
	switch {
	case err == userstore.ErrDuplicateUsername:
		respond.Conflict(w, "Username already exists")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "signup: create user failed", err, "Could not create the account.")
		return
	}

	message := "Account created. Waiting for admin approval"
	if u.IsApproved {
		message = "Admin account created successfully"
	}

	respond.Created(w, respond.Payload{
		"message": message,
		"user": map[string]any{
			"id":         u.ID.Hex(),
			"username":   u.Username,
			"role":       u.Role,
			"isApproved": u.IsApproved,
		},
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/auth/login                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials, enforces the approval gate, and
// establishes the session cookie on success.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respond.BadRequest(w, "Please provide username and password")
		return
	}

	if allowed, reason := h.Limiter.Check(r, req.Username); !allowed {
		respond.Fail(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Username, req.Password)
	switch {
	case err == userstore.ErrInvalidCredentials:
		respond.Unauthorized(w, "Invalid credentials")
		return
	case err == userstore.ErrPendingApproval:
		respond.Forbidden(w, "Your account is pending approval")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "login failed", err, "Could not log in.")
		return
	}

	if err := h.SessionMgr.Establish(w, r, &sysauth.SessionUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}); err != nil {
		respond.ServerError(w, h.Log, "login: establish session failed", err, "Could not log in.")
		return
	}

	h.Limiter.ResetUsername(req.Username)
	h.Log.Info("user logged in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))

	respond.OK(w, respond.Payload{
		"message": "Login successful",
		"user": map[string]any{
			"id":       u.ID.Hex(),
			"username": u.Username,
			"fullName": u.FullName,
			"role":     u.Role,
		},
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/auth/logout                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleLogout expires the session cookie.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.Clear(w, r); err != nil {
		h.Log.Error("logout: clear session", zap.Error(err))
	}
	respond.OK(w, respond.Payload{"message": "Logout successful"})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/auth/me                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleMe returns the current session's account, hashes excluded.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	su, ok := sysauth.CurrentUser(r)
	if !ok {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}
	oid, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		respond.Unauthorized(w, "Not authorized, no token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.FindByID(ctx, oid)
	switch {
	case err == userstore.ErrNotFound:
		respond.Unauthorized(w, "Account no longer exists")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "me: fetch user failed", err, "Could not load the account.")
		return
	}

	respond.OK(w, respond.Payload{"user": u})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/auth/reset-password                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type resetPasswordRequest struct {
	Username    string `json:"username"`
	PIN         string `json:"pin"`
	NewPassword string `json:"newPassword"`
}

// HandleResetPassword replaces the password hash after a PIN check. The PIN
// itself is never echoed back.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Invalid request body")
		return
	}
	if req.Username == "" || req.PIN == "" || req.NewPassword == "" {
		respond.BadRequest(w, "Please provide all required fields")
		return
	}
	if len(req.NewPassword) < minPasswordLen {
		respond.BadRequest(w, "Password must be at least 6 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Users.ResetPassword(ctx, req.Username, req.PIN, req.NewPassword)
	switch {
	case err == userstore.ErrNotFound:
		respond.NotFound(w, "User not found")
		return
	case err == userstore.ErrInvalidPIN:
		respond.Unauthorized(w, "Invalid PIN")
		return
	case err != nil:
		respond.ServerError(w, h.Log, "reset password failed", err, "Could not reset the password.")
		return
	}

	respond.OK(w, respond.Payload{"message": "Password reset successful"})
}

// validPIN requires at least minPINLen characters, digits only.
func validPIN(pin string) bool {
	if len(pin) < minPINLen {
		return false
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
