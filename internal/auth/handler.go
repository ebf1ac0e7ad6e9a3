package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/arvind/media-vault/backend/internal/models"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, hashedPw string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, hashedPw string) error
}

// OtpRepo defines the interface for one-time-code persistence.
type OtpRepo interface {
	Issue(ctx context.Context, email string) (string, error)
	Get(ctx context.Context, email string) (*OtpRecord, error)
	Delete(ctx context.Context, email string) error
}

// Mailer dispatches a reset code out-of-band.
type Mailer interface {
	SendPasswordResetOTP(to, code string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	otps   OtpRepo
	mailer Mailer
	tokens *TokenManager
}

func NewHandler(users UserStore, otps OtpRepo, mailer Mailer, tokens *TokenManager) *Handler {
	return &Handler{users: users, otps: otps, mailer: mailer, tokens: tokens}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Register creates a new user and returns a bearer token for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"username, email, and password are required"}`, http.StatusBadRequest)
		return
	}

	existing, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		// Kept at 400 rather than 409: the mobile client matches on it.
		http.Error(w, `{"error":"User with this email already exists"}`, http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Username, req.Email, string(hashed))
	if err != nil {
		http.Error(w, `{"error":"user already exists or database error"}`, http.StatusBadRequest)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

// Login authenticates by email or username and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByIdentifier(r.Context(), req.EmailOrUsername)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	// One message for both unknown identifier and bad password.
	if user == nil {
		http.Error(w, `{"error":"Invalid email/username or password"}`, http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		http.Error(w, `{"error":"Invalid email/username or password"}`, http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: user})
}

// ForgotPassword issues a fresh OTP for the email and mails it. A repeat
// request overwrites the prior record, invalidating the earlier code.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"User not found"}`, http.StatusNotFound)
		return
	}

	code, err := h.otps.Issue(r.Context(), req.Email)
	if err != nil {
		log.Printf("otp issue error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.mailer.SendPasswordResetOTP(req.Email, code); err != nil {
		log.Printf("otp mail error: %v", err)
		http.Error(w, `{"error":"Failed to send OTP email"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to your email"})
}

// VerifyOtp checks the submitted code against the live record. Advisory
// only: verification mutates nothing and may be repeated.
func (h *Handler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	rec, err := h.otps.Get(r.Context(), req.Email)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if rec == nil || rec.Expired(time.Now()) {
		http.Error(w, `{"error":"OTP expired or invalid"}`, http.StatusBadRequest)
		return
	}
	if rec.Code != req.Otp {
		http.Error(w, `{"error":"Incorrect OTP"}`, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP verified"})
}

// ResetPassword sets a new password (hashed) and consumes the OTP record,
// terminating the reset flow for the email.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	rec, err := h.otps.Get(r.Context(), req.Email)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, `{"error":"Invalid email"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"User not found"}`, http.StatusNotFound)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, string(hashed)); err != nil {
		log.Printf("password update error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.otps.Delete(r.Context(), req.Email); err != nil {
		log.Printf("otp delete error: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful"})
}
