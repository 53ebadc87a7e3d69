package http

import (
	"net/http"

	"go-disaster-management/internal/delivery/http/handler"
	"go-disaster-management/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	districtHandler     *handler.DistrictHandler
	shelterHandler      *handler.ShelterHandler
	reviewHandler       *handler.ShelterReviewHandler
	disasterHandler     *handler.DisasterHandler
	userHandler         *handler.UserHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	districtHandler *handler.DistrictHandler,
	shelterHandler *handler.ShelterHandler,
	reviewHandler *handler.ShelterReviewHandler,
	disasterHandler *handler.DisasterHandler,
	userHandler *handler.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		districtHandler:     districtHandler,
		shelterHandler:      shelterHandler,
		reviewHandler:       reviewHandler,
		disasterHandler:     disasterHandler,
		userHandler:         userHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Health check
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := r.router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", r.authHandler.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/verify-email", r.authHandler.VerifyEmail).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", r.authHandler.ForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password/{token}", r.authHandler.ResetPassword).Methods(http.MethodPost)
	auth.HandleFunc("/google", r.authHandler.GoogleLogin).Methods(http.MethodGet)
	auth.HandleFunc("/google/callback", r.authHandler.GoogleCallback).Methods(http.MethodGet)

	// Auth routes (protected)
	authProtected := r.router.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/check-auth", r.authHandler.CheckAuth).Methods(http.MethodGet)

	// District routes (reads for any authenticated identity, mutations for authorities)
	district := r.router.PathPrefix("/district").Subrouter()
	district.Use(r.authMiddleware.Authenticate)
	district.HandleFunc("/all", r.districtHandler.GetAllDistricts).Methods(http.MethodGet)
	district.HandleFunc("/getDistrictById", r.districtHandler.GetDistrictByID).Methods(http.MethodPost)
	district.Handle("/create", authority(r.districtHandler.CreateDistrict)).Methods(http.MethodPost)
	district.Handle("/update", authority(r.districtHandler.UpdateDistrict)).Methods(http.MethodPost)
	district.Handle("/delete", authority(r.districtHandler.DeleteDistrict)).Methods(http.MethodPost)

	// Shelter routes
	shelters := r.router.PathPrefix("/shelters").Subrouter()
	shelters.Use(r.authMiddleware.Authenticate)
	shelters.HandleFunc("/all", r.shelterHandler.GetAllShelters).Methods(http.MethodGet)
	shelters.HandleFunc("/allWithRatings", r.shelterHandler.GetAllSheltersWithRatings).Methods(http.MethodGet)
	shelters.Handle("/all", authority(r.shelterHandler.BulkSaveShelters)).Methods(http.MethodPost)
	shelters.Handle("/create", authority(r.shelterHandler.CreateShelter)).Methods(http.MethodPost)
	shelters.Handle("/update", authority(r.shelterHandler.UpdateShelter)).Methods(http.MethodPost)
	shelters.Handle("/delete", authority(r.shelterHandler.DeleteShelter)).Methods(http.MethodPost)

	// Shelter review routes
	reviews := r.router.PathPrefix("/shelterReviews").Subrouter()
	reviews.Use(r.authMiddleware.Authenticate)
	reviews.HandleFunc("/all", r.reviewHandler.GetAllReviews).Methods(http.MethodGet)
	reviews.HandleFunc("/create", r.reviewHandler.CreateReview).Methods(http.MethodPost)
	reviews.HandleFunc("/update", r.reviewHandler.UpdateReview).Methods(http.MethodPost)
	reviews.HandleFunc("/delete", r.reviewHandler.DeleteReview).Methods(http.MethodPost)
	reviews.HandleFunc("/getReviewsByShelterId/{shelterId}", r.reviewHandler.GetReviewsByShelter).Methods(http.MethodGet)
	reviews.HandleFunc("/average/{shelterId}", r.reviewHandler.GetAverageRating).Methods(http.MethodGet)
	reviews.HandleFunc("/user/{userId}/shelter/{shelterId}", r.reviewHandler.GetReviewByUserAndShelter).Methods(http.MethodGet)

	// Disaster routes
	disasters := r.router.PathPrefix("/disasters").Subrouter()
	disasters.Use(r.authMiddleware.Authenticate)
	disasters.HandleFunc("/all", r.disasterHandler.GetAllDisasters).Methods(http.MethodGet)
	disasters.Handle("/all", authority(r.disasterHandler.SaveDisasters)).Methods(http.MethodPost)

	// User routes
	user := r.router.PathPrefix("/user").Subrouter()
	user.Use(r.authMiddleware.Authenticate)
	user.HandleFunc("/all", r.userHandler.GetAllUsers).Methods(http.MethodGet)
	user.HandleFunc("/addFriend", r.userHandler.AddFriend).Methods(http.MethodPost)
	user.HandleFunc("/deleteFriend", r.userHandler.DeleteFriend).Methods(http.MethodPost)
	user.HandleFunc("/checkFriendship", r.userHandler.CheckFriendship).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := r.router.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/users", r.userHandler.GetAllUsers).Methods(http.MethodGet)
	admin.HandleFunc("/approve", r.userHandler.ApproveUser).Methods(http.MethodPost)

	// Authority routes (admins included)
	authorityGroup := r.router.PathPrefix("/authority").Subrouter()
	authorityGroup.Use(r.authMiddleware.Authenticate)
	authorityGroup.Use(middleware.RequireAuthority)
	authorityGroup.HandleFunc("/users", r.userHandler.GetAllUsers).Methods(http.MethodGet)

	// Volunteer routes (admins and authorities included)
	volunteer := r.router.PathPrefix("/volunteer").Subrouter()
	volunteer.Use(r.authMiddleware.Authenticate)
	volunteer.Use(middleware.RequireVolunteer)
	volunteer.HandleFunc("/shelters", r.shelterHandler.GetAllShelters).Methods(http.MethodGet)

	// Global middleware: CORS first, then the per-IP request budget
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.rateLimitMiddleware.Handle)

	return r.router
}

// authority wraps a handler func with the {admin, authority} role gate for
// routes that live outside the /authority path group.
func authority(h http.HandlerFunc) http.Handler {
	return middleware.RequireAuthority(h)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
