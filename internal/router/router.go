package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/konveksio/api/internal/config"
	"github.com/konveksio/api/internal/database"
	"github.com/konveksio/api/internal/enum"
	"github.com/konveksio/api/internal/handler"
	mw "github.com/konveksio/api/internal/middleware"
	"github.com/konveksio/api/internal/service"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",          // SvelteKit dev server
			"https://app.konveksio.com",      // Production dashboard
			"https://stg-app.konveksio.com",  // Staging dashboard
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// Public order tracking: customers follow production by invoice number,
	// no account required.
	trackingHandler := handler.NewTrackingHandler(queries)
	trackingHandler.RegisterRoutes(r)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Orders: every authenticated role participates in the workflow.
		// Per-transition authorization lives in the service; the handler
		// scopes reseller reads. Delete is super_admin only.
		newOrderStore := func(db database.DBTX) service.OrderStore {
			return database.New(db)
		}
		orderService := service.NewOrderService(pool, newOrderStore)
		orderHandler := handler.NewOrderHandler(orderService, queries)
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.Create)
			r.Get("/", orderHandler.List)
			r.Get("/{id}", orderHandler.Get)
			r.Put("/{id}", orderHandler.Update)
			r.Patch("/{id}/status", orderHandler.UpdateStatus)
			r.Post("/{id}/settlement", orderHandler.Settle)
			r.With(mw.RequireRole(enum.RoleSuperAdmin)).Delete("/{id}", orderHandler.Delete)
		})

		// Master data and learning resources: lists readable by every
		// authenticated role (resellers need size ids and bahan/jenis codes
		// to place an order), writes admin-and-up.
		adminWrites := mw.RequireRole(enum.RoleAdmin, enum.RoleSuperAdmin)
		registerSplit := func(path string, read, write func(chi.Router)) {
			r.Route(path, func(r chi.Router) {
				read(r)
				r.Group(func(r chi.Router) {
					r.Use(adminWrites)
					write(r)
				})
			})
		}

		learningHandler := handler.NewLearningHandler(queries)
		registerSplit("/learnings", learningHandler.RegisterReadRoutes, learningHandler.RegisterWriteRoutes)

		materialHandler := handler.NewMaterialHandler(queries)
		registerSplit("/materials", materialHandler.RegisterReadRoutes, materialHandler.RegisterWriteRoutes)

		garmentTypeHandler := handler.NewGarmentTypeHandler(queries)
		registerSplit("/garment-types", garmentTypeHandler.RegisterReadRoutes, garmentTypeHandler.RegisterWriteRoutes)

		sizeHandler := handler.NewSizeHandler(queries)
		registerSplit("/sizes", sizeHandler.RegisterReadRoutes, sizeHandler.RegisterWriteRoutes)

		courierHandler := handler.NewCourierHandler(queries)
		registerSplit("/couriers", courierHandler.RegisterReadRoutes, courierHandler.RegisterWriteRoutes)

		designerHandler := handler.NewDesignerHandler(queries)
		registerSplit("/designers", designerHandler.RegisterReadRoutes, designerHandler.RegisterWriteRoutes)

		// Users: admin-and-up manage accounts; deletion stays with
		// super_admin, as does minting super_admin (checked in handler).
		userHandler := handler.NewUserHandler(queries)
		r.Route("/users", func(r chi.Router) {
			r.Use(adminWrites)
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Put("/{id}", userHandler.Update)
			r.Put("/{id}/password", userHandler.UpdatePassword)
			r.With(mw.RequireRole(enum.RoleSuperAdmin)).Delete("/{id}", userHandler.Delete)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
