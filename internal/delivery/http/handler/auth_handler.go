package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go-disaster-management/internal/delivery/dto"
	"go-disaster-management/internal/delivery/http/middleware"
	"go-disaster-management/internal/infrastructure/oauth"
	"go-disaster-management/internal/usecase"
	"go-disaster-management/pkg/jwt"
	"go-disaster-management/pkg/response"
	"go-disaster-management/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	maxSignupFormSize = 10 << 20 // 10 MiB, bounds the uploaded document
	oauthStateCookie  = "oauth_state"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
	jwtService  *jwt.JWTService
	google      *oauth.GoogleProvider
	log         *logrus.Logger
	uploadDir   string
	frontendURL string
}

func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	validator *validator.CustomValidator,
	jwtService *jwt.JWTService,
	google *oauth.GoogleProvider,
	log *logrus.Logger,
	uploadDir string,
	frontendURL string,
) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		jwtService:  jwtService,
		google:      google,
		log:         log,
		uploadDir:   uploadDir,
		frontendURL: frontendURL,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSignupFormSize); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	req := dto.SignupRequest{
		Email:      r.FormValue("email"),
		Password:   r.FormValue("password"),
		Name:       r.FormValue("name"),
		Role:       r.FormValue("role"),
		DistrictID: r.FormValue("district_id"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	documentPath, err := h.saveDocument(r)
	if err != nil {
		h.log.Warnf("Failed to store uploaded document: %+v", err)
		response.InternalServerError(w, "Failed to store document")
		return
	}

	user, err := h.authUsecase.Register(r.Context(), &req, documentPath)
	if err != nil {
		// The document was stored before registration; don't leave it orphaned.
		if documentPath != "" {
			os.Remove(documentPath)
		}
		switch err {
		case usecase.ErrEmailAlreadyExists:
			response.BadRequest(w, "Email already registered")
		case usecase.ErrInvalidRole:
			response.BadRequest(w, "Unknown role")
		case usecase.ErrDocumentRequired:
			response.BadRequest(w, "A verification document is required for this role")
		case usecase.ErrDistrictRequired:
			response.BadRequest(w, "A district is required for this role")
		case usecase.ErrDistrictNotFound:
			response.BadRequest(w, "District not found")
		default:
			response.InternalServerError(w, "Failed to register")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Account created successfully", user)
}

// saveDocument writes the optional signup document to the upload dir and
// returns its path, or "" when no document was attached.
func (h *AuthHandler) saveDocument(r *http.Request) (string, error) {
	file, header, err := r.FormFile("document")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}

	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), hex.EncodeToString(suffix), filepath.Ext(header.Filename))
	path := filepath.Join(h.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		if err == usecase.ErrInvalidCredentials {
			response.BadRequest(w, "Invalid email or password")
			return
		}
		response.InternalServerError(w, "Failed to login")
		return
	}

	h.setSessionCookie(w, result.Token)
	response.Success(w, http.StatusOK, "Logged in successfully", result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	tokenID, ok2 := middleware.GetTokenIDFromContext(r.Context())
	if !ok || !ok2 {
		response.Unauthorized(w, "")
		return
	}

	if err := h.authUsecase.Logout(r.Context(), userID, tokenID); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	h.clearSessionCookie(w)
	response.Success(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if err == usecase.ErrUserNotFound {
			response.Unauthorized(w, "Account no longer exists")
			return
		}
		response.InternalServerError(w, "Failed to load account")
		return
	}

	response.Success(w, http.StatusOK, "Authenticated", user)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.VerifyEmail(r.Context(), &req); err != nil {
		if err == usecase.ErrInvalidOrExpiredCode {
			response.BadRequest(w, "Invalid or expired verification code")
			return
		}
		response.InternalServerError(w, "Failed to verify email")
		return
	}

	response.Success(w, http.StatusOK, "Email verified successfully", nil)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.ForgotPassword(r.Context(), &req); err != nil {
		response.InternalServerError(w, "Failed to process request")
		return
	}

	// Same response whether or not the address is registered.
	response.Success(w, http.StatusOK, "If the email is registered, a reset link has been sent", nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.ResetPassword(r.Context(), token, req.Password); err != nil {
		if err == usecase.ErrInvalidOrExpiredToken {
			response.BadRequest(w, "Invalid or expired reset token")
			return
		}
		response.InternalServerError(w, "Failed to reset password")
		return
	}

	response.Success(w, http.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		response.InternalServerError(w, "Failed to start login")
		return
	}
	state := hex.EncodeToString(raw)

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((5 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		response.BadRequest(w, "Invalid OAuth state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		response.BadRequest(w, "Missing authorization code")
		return
	}

	info, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.log.Warnf("Google code exchange failed: %+v", err)
		response.BadRequest(w, "Federated login failed")
		return
	}

	result, err := h.authUsecase.FederatedLogin(r.Context(), info.Email, info.Name)
	if err != nil {
		response.InternalServerError(w, "Failed to login")
		return
	}

	h.setSessionCookie(w, result.Token)
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.jwtService.GetSessionExpiry().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
