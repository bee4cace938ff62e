package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/manojmanivannan/MealPlanner/internal/config"
	"github.com/manojmanivannan/MealPlanner/internal/handlers"
	"github.com/manojmanivannan/MealPlanner/internal/middleware"
	"github.com/manojmanivannan/MealPlanner/internal/services"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config) *Server {
	authService := services.NewAuthService(database, cfg)
	ingredientService := services.NewIngredientService(database)
	recipeService := services.NewRecipeService(database)
	planService := services.NewPlanService(database)

	authHandler := handlers.NewAuthHandler(authService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	planHandler := handlers.NewPlanHandler(planService)
	utilityHandler := handlers.NewUtilityHandler(authService, planService, recipeService)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	})

	router.Post("/auth/signup", authHandler.Signup)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/utilities/list-serving-units", utilityHandler.ListServingUnits)
	router.Get("/utilities/calendar.ics", utilityHandler.CalendarFeed)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authService))

		r.Get("/auth/me", authHandler.Me)

		r.Get("/ingredients", ingredientHandler.List)
		r.Post("/ingredients", ingredientHandler.Create)
		r.Put("/ingredients/{id}", ingredientHandler.Update)
		r.Delete("/ingredients/{id}", ingredientHandler.Delete)

		r.Get("/recipes", recipeHandler.List)
		r.Post("/recipes", recipeHandler.Create)
		r.Get("/recipes/{id}", recipeHandler.Get)
		r.Put("/recipes/{id}", recipeHandler.Update)
		r.Delete("/recipes/{id}", recipeHandler.Delete)

		r.Get("/weekly-plan", planHandler.Grid)
		r.Put("/weekly-plan", planHandler.SetSlot)

		r.Get("/utilities/nutrition/{day}", utilityHandler.Nutrition)
		r.Get("/utilities/nutrition/{day}/{mealType}", utilityHandler.Nutrition)
		r.Get("/utilities/shopping-list", utilityHandler.ShoppingList)
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

func (server *Server) Router() http.Handler {
	return server.router
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
