package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	authsvc "github.com/ivankudzin/truecompanions/backend/internal/services/auth"
	favoritessvc "github.com/ivankudzin/truecompanions/backend/internal/services/favorites"
	mediasvc "github.com/ivankudzin/truecompanions/backend/internal/services/media"
	paymentsvc "github.com/ivankudzin/truecompanions/backend/internal/services/payments"
	premiumsvc "github.com/ivankudzin/truecompanions/backend/internal/services/premium"
	profilesvc "github.com/ivankudzin/truecompanions/backend/internal/services/profiles"
	statssvc "github.com/ivankudzin/truecompanions/backend/internal/services/stats"
	storiessvc "github.com/ivankudzin/truecompanions/backend/internal/services/stories"
	unlocksvc "github.com/ivankudzin/truecompanions/backend/internal/services/unlock"
	userssvc "github.com/ivankudzin/truecompanions/backend/internal/services/users"
	"github.com/ivankudzin/truecompanions/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService      *authsvc.Service
	UserService      *userssvc.Service
	ProfileService   *profilesvc.Service
	PremiumService   *premiumsvc.Service
	UnlockService    *unlocksvc.Service
	PaymentService   *paymentsvc.Service
	FavoritesService *favoritessvc.Service
	StoriesService   *storiessvc.Service
	StatsService     *statssvc.Service
	MediaService     *mediasvc.Service
	Logger           *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	usersHandler := handlers.NewUsersHandler(deps.UserService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService, deps.UnlockService)
	premiumHandler := handlers.NewPremiumHandler(deps.PremiumService)
	favoritesHandler := handlers.NewFavoritesHandler(deps.FavoritesService)
	paymentsHandler := handlers.NewPaymentsHandler(deps.PaymentService)
	unlockHandler := handlers.NewUnlockHandler(deps.UnlockService)
	storiesHandler := handlers.NewStoriesHandler(deps.StoriesService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	adminHandler := handlers.NewAdminHandler(deps.StatsService)

	var roles RoleResolver
	if deps.UserService != nil {
		roles = deps.UserService
	}
	authMW := AuthMiddleware(deps.AuthService, roles, deps.Logger)
	operatorMW := RequireCapability(enums.CapOperate)

	r.Get("/healthz", healthHandler.Get)
	r.Post("/jwt", authHandler.Token)
	r.With(authMW).Post("/auth/logout", authHandler.Logout)
	r.With(authMW).Post("/auth/logout-all", authHandler.LogoutAll)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", usersHandler.Register)
		r.With(authMW, operatorMW).Get("/", usersHandler.List)
		r.With(authMW).Get("/admin/{email}", usersHandler.IsAdmin)
		r.With(authMW, operatorMW).Patch("/admin/{id}", usersHandler.MakeAdmin)
		r.With(authMW, operatorMW).Patch("/premium/{id}", usersHandler.MakePremium)
		r.With(authMW, operatorMW).Delete("/{id}", usersHandler.Delete)
	})

	r.Route("/biodatas", func(r chi.Router) {
		r.Get("/", profileHandler.Search)
		r.With(authMW).Post("/", profileHandler.Create)
		r.With(authMW).Get("/me", profileHandler.GetMine)
		r.With(authMW).Put("/me", profileHandler.UpdateMine)
		r.With(authMW).Get("/is-premium", profileHandler.IsPremium)
		r.With(authMW).Post("/premium-request", premiumHandler.Request)
		r.With(authMW, operatorMW).Patch("/premium-approve/{sequenceId}", premiumHandler.Approve)
		r.With(authMW, operatorMW).Patch("/premium-reject/{sequenceId}", premiumHandler.Reject)
		r.With(authMW).Get("/{sequenceId}", profileHandler.Get)
	})
	r.Get("/premium-profiles", profileHandler.ListPremium)

	r.Route("/favorites", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", favoritesHandler.Add)
		r.Get("/", favoritesHandler.List)
		r.Get("/{profileId}/exists", favoritesHandler.Exists)
		r.Delete("/{id}", favoritesHandler.Remove)
	})

	r.With(authMW).Post("/create-payment-intent", paymentsHandler.CreateIntent)
	r.With(authMW).Get("/payments/me", paymentsHandler.ListMine)
	r.With(authMW, operatorMW).Get("/payments", paymentsHandler.ListAll)

	r.Route("/contact-requests", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", unlockHandler.Create)
		r.Get("/me", unlockHandler.ListMine)
		r.Delete("/{id}", unlockHandler.DeleteMine)
	})

	r.Get("/success-stories", storiesHandler.List)
	r.With(authMW).Post("/success-stories", storiesHandler.Create)

	r.With(authMW).Post("/media/profile-image", mediaHandler.ProfileImage)

	r.Route("/admin", func(r chi.Router) {
		r.Use(authMW, operatorMW)
		r.Get("/premium-requests", premiumHandler.ListPending)
		r.Get("/biodatas", profileHandler.AdminList)
		r.Get("/contact-requests", unlockHandler.ListAll)
		r.Patch("/contact-requests/{id}/approve", unlockHandler.Approve)
	})
	r.With(authMW, operatorMW).Get("/admin-stats", adminHandler.Stats)
}
