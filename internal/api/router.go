package api

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/kelvinmwangi/pitchhub/docs"
	"github.com/kelvinmwangi/pitchhub/internal/api/handlers"
	"github.com/kelvinmwangi/pitchhub/internal/api/middleware"
	"github.com/kelvinmwangi/pitchhub/internal/config"
	"github.com/kelvinmwangi/pitchhub/internal/service"
	"github.com/rs/cors"
)

// SetupRouter wires every route. Reads over pitches are public; mutation and
// account routes sit behind the session-cookie middleware.
func SetupRouter(
	authSvc *service.AuthService,
	pitchSvc *service.PitchService,
	accountSvc *service.AccountService,
	resetSvc *service.ResetService,
) http.Handler {
	authH := handlers.NewAuthHandler(authSvc)
	oauthH := handlers.NewOAuthHandler(authSvc)
	pitchH := handlers.NewPitchHandler(pitchSvc)
	accountH := handlers.NewAccountHandler(accountSvc)
	resetH := handlers.NewResetHandler(resetSvc)

	mux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mux.HandleFunc("POST /api/v1/auth/sign-up", authH.SignUp)
	mux.HandleFunc("POST /api/v1/auth/login", authH.Login)
	mux.HandleFunc("GET /api/v1/auth/google/login", oauthH.GoogleLogin)
	mux.HandleFunc("GET /api/v1/auth/google/callback", oauthH.GoogleCallback)
	mux.HandleFunc("POST /api/v1/auth/reset-password", resetH.Request)
	mux.HandleFunc("POST /api/v1/auth/reset-password/{token}", resetH.Redeem)

	mux.HandleFunc("GET /api/v1/pitches", pitchH.Feed)
	mux.HandleFunc("GET /api/v1/pitches/{id}", pitchH.Get)
	mux.HandleFunc("GET /api/v1/users/{username}/pitches", pitchH.ByUser)

	// ---------- PROTECTED ROUTES ----------
	mux.Handle("POST /api/v1/auth/logout", middleware.Auth(http.HandlerFunc(authH.Logout)))

	mux.Handle("POST /api/v1/pitches", middleware.Auth(http.HandlerFunc(pitchH.Create)))
	mux.Handle("PUT /api/v1/pitches/{id}", middleware.Auth(http.HandlerFunc(pitchH.Update)))
	mux.Handle("DELETE /api/v1/pitches/{id}", middleware.Auth(http.HandlerFunc(pitchH.Delete)))

	mux.Handle("GET /api/v1/account", middleware.Auth(http.HandlerFunc(accountH.Profile)))
	mux.Handle("PATCH /api/v1/account", middleware.Auth(http.HandlerFunc(accountH.Update)))

	log.Println("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
