package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/silverbeer/swimcuttimes/handlers"
	"github.com/silverbeer/swimcuttimes/middleware"
	"github.com/silverbeer/swimcuttimes/models"
)

// SetupRoutes wires every handler into the router. Reads are public;
// roster, meet and time mutations need a coach or admin token; time
// standards are admin territory.
func SetupRoutes(
	router *chi.Mux,
	authenticator *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	swimmerHandler *handlers.SwimmerHandler,
	teamHandler *handlers.TeamHandler,
	meetHandler *handlers.MeetHandler,
	eventHandler *handlers.EventHandler,
	swimTimeHandler *handlers.SwimTimeHandler,
	standardHandler *handlers.StandardHandler,
	importHandler *handlers.ImportHandler,
	suitHandler *handlers.SuitHandler,
	followHandler *handlers.FollowHandler,
	healthHandler *handlers.HealthHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", healthHandler.Health)
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	coachOrAdmin := func(r chi.Router) {
		r.Use(authenticator.Authenticate)
		r.Use(middleware.Authorize(models.RoleCoach, models.RoleAdmin))
	}

	router.Route("/swimmers", func(r chi.Router) {
		r.Get("/", swimmerHandler.Search)
		r.Get("/{swimmerID}", swimmerHandler.GetByID)
		r.Get("/{swimmerID}/times", swimmerHandler.ListTimes)
		r.Get("/{swimmerID}/best-times", swimmerHandler.BestTimes)
		r.Get("/{swimmerID}/suits", suitHandler.Inventory)

		r.Group(func(r chi.Router) {
			coachOrAdmin(r)
			r.Post("/", swimmerHandler.Create)
			r.Put("/{swimmerID}", swimmerHandler.Update)
			r.Delete("/{swimmerID}", swimmerHandler.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)
			r.Post("/{swimmerID}/follow", followHandler.Follow)
			r.Delete("/{swimmerID}/follow", followHandler.Unfollow)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{teamID}", teamHandler.GetByID)

		r.Group(func(r chi.Router) {
			coachOrAdmin(r)
			r.Post("/", teamHandler.Create)
			r.Put("/{teamID}", teamHandler.Update)
			r.Delete("/{teamID}", teamHandler.Delete)
		})
	})

	router.Route("/meets", func(r chi.Router) {
		r.Get("/", meetHandler.List)
		r.Get("/{meetID}", meetHandler.GetByID)
		r.Get("/{meetID}/times", meetHandler.ListTimes)

		r.Group(func(r chi.Router) {
			coachOrAdmin(r)
			r.Post("/", meetHandler.Create)
			r.Put("/{meetID}", meetHandler.Update)
			r.Delete("/{meetID}", meetHandler.Delete)
		})
	})

	router.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.List)
		r.Get("/{eventID}", eventHandler.GetByID)
	})

	router.Route("/times", func(r chi.Router) {
		r.Get("/{swimTimeID}", swimTimeHandler.GetByID)
		r.Get("/{swimTimeID}/standards", swimTimeHandler.StandardsCheck)

		r.Group(func(r chi.Router) {
			coachOrAdmin(r)
			r.Post("/", swimTimeHandler.Create)
			r.Delete("/{swimTimeID}", swimTimeHandler.Delete)
		})
	})

	router.Route("/standards", func(r chi.Router) {
		r.Get("/", standardHandler.List)
		r.Get("/{standardID}", standardHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))
			r.Post("/", standardHandler.Create)
			r.Delete("/{standardID}", standardHandler.Delete)
			r.Post("/seed-from-sheet", standardHandler.SeedFromSheet)
		})
	})

	router.Route("/suits", func(r chi.Router) {
		r.Get("/models", suitHandler.ListModels)
		r.Get("/models/{modelID}", suitHandler.GetModel)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))
			r.Post("/models", suitHandler.CreateModel)
			r.Put("/models/{modelID}", suitHandler.UpdateModel)
			r.Delete("/models/{modelID}", suitHandler.DeleteModel)
		})

		r.Get("/{suitID}", suitHandler.GetSuit)

		r.Group(func(r chi.Router) {
			coachOrAdmin(r)
			r.Post("/", suitHandler.AddToInventory)
			r.Put("/{suitID}", suitHandler.UpdateSuit)
			r.Delete("/{suitID}", suitHandler.DeleteSuit)
			r.Post("/{suitID}/wear", suitHandler.RecordWear)
			r.Post("/{suitID}/retire", suitHandler.Retire)
		})
	})

	router.Route("/import", func(r chi.Router) {
		coachOrAdmin(r)
		r.Post("/roster", importHandler.ImportRoster)
		r.Post("/meets", importHandler.ImportMeets)
		r.Post("/times", importHandler.ImportTimes)
		r.Post("/times/validate", importHandler.ValidateTimes)
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticator.Authenticate)
		r.Get("/me/following", followHandler.Following)
	})

	router.Get("/ws/imports/{runID}", webSocketHandler.WatchImport)
}
