package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coursemate-engine/internal/config"
)

// NewMux wires every route. Protected routes are wrapped per handler so
// public and private paths can share a prefix.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()
	cfg := d.CfgVal.Load().(config.Config)
	db := d.Store.Pool

	authn := Authenticator{JWT: d.JWT}
	user := authn.RequireUser
	admin := authn.RequireAdmin

	// Health and metrics
	mux.HandleFunc("GET /health", HealthHandler{DB: db}.Health)
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, promhttp.Handler())
	}

	// Auth
	ah := AuthHandler{DB: db, JWT: d.JWT, Limiter: d.LoginLimiter, Lockout: d.Lockout, CfgVal: d.CfgVal}
	mux.HandleFunc("POST /api/auth/signup", ah.Signup)
	mux.HandleFunc("POST /api/auth/login", ah.Login)
	mux.HandleFunc("POST /api/auth/find-id", ah.FindID)
	mux.HandleFunc("POST /api/auth/reset-password", ah.ResetPassword)

	// Places and reviews
	ph := PlacesHandler{DB: db}
	mux.HandleFunc("GET /api/places", ph.List)
	mux.HandleFunc("GET /api/places/{id}", ph.Detail)
	mux.HandleFunc("GET /api/places/{id}/photos", ph.Photos)

	rh := ReviewsHandler{DB: db, Hub: d.Hub}
	mux.HandleFunc("GET /api/places/{id}/reviews", rh.ListBySpot)
	mux.HandleFunc("POST /api/places/{id}/reviews", user(rh.Create))
	mux.HandleFunc("PUT /api/reviews/{reviewId}", user(rh.Update))
	mux.HandleFunc("DELETE /api/reviews/{reviewId}", user(rh.Delete))

	// Users
	uh := UsersHandler{DB: db}
	mux.HandleFunc("GET /api/users/tags", uh.Tags)
	mux.HandleFunc("GET /api/users/me/preferences", user(uh.Preferences))
	mux.HandleFunc("POST /api/users/me/preferences", user(uh.SetPreferences))
	mux.HandleFunc("GET /api/users/me/settings", user(uh.Settings))
	mux.HandleFunc("PUT /api/users/me", user(uh.UpdateMe))
	mux.HandleFunc("DELETE /api/users/me", user(uh.DeleteMe))
	mux.HandleFunc("GET /api/users/me/reviews", user(uh.MyReviews))
	mux.HandleFunc("GET /api/users/me/wishlist", user(uh.Wishlist))
	mux.HandleFunc("POST /api/users/me/wishlist", user(uh.ToggleWishlist))
	mux.HandleFunc("DELETE /api/users/me/wishlist/{placeId}", user(uh.RemoveWishlist))

	// Recommendations
	rec := RecommendHandler{DB: db}
	mux.HandleFunc("GET /api/recommendations", user(rec.Recommend))
	mux.HandleFunc("GET /api/recommendations/retry", user(rec.Recommend))

	// Community
	ch := CommunityHandler{DB: db, Hub: d.Hub}
	mux.HandleFunc("GET /api/community/notices", ch.Notices)
	mux.HandleFunc("GET /api/community/notices/{id}", ch.Notice)
	mux.HandleFunc("POST /api/community/feedback", user(ch.CreateFeedback))
	mux.HandleFunc("GET /api/community/feedback/me", user(ch.MyFeedback))

	// Admin console
	mux.HandleFunc("POST /api/admin/login", ah.AdminLogin)

	adm := AdminHandler{DB: db, Hub: d.Hub}
	mux.HandleFunc("GET /api/admin/dashboard", admin(adm.Dashboard))
	mux.HandleFunc("GET /api/admin/users", admin(adm.Users))
	mux.HandleFunc("PUT /api/admin/users/{userId}/status", admin(adm.SetUserStatus))
	mux.HandleFunc("GET /api/admin/places", admin(adm.Places))
	mux.HandleFunc("POST /api/admin/places", admin(adm.CreatePlace))
	mux.HandleFunc("DELETE /api/admin/places/{id}", admin(adm.DeletePlace))
	mux.HandleFunc("GET /api/admin/reviews", admin(adm.Reviews))
	mux.HandleFunc("DELETE /api/admin/reviews/{reviewId}", admin(adm.DeleteReview))
	mux.HandleFunc("GET /api/admin/feedbacks", admin(adm.Feedbacks))
	mux.HandleFunc("GET /api/admin/inquiries/{id}", admin(adm.Inquiry))
	mux.HandleFunc("POST /api/admin/inquiries/{id}/answer", admin(adm.AnswerInquiry))
	mux.HandleFunc("POST /api/admin/notice", admin(adm.CreateNotice))
	mux.HandleFunc("DELETE /api/admin/notices/{id}", admin(adm.DeleteNotice))

	ih := NewImportHandler(db, d.Hub)
	mux.HandleFunc("POST /api/admin/crawled-reviews", admin(ih.Run))
	mux.HandleFunc("GET /api/admin/crawled-reviews/status", admin(ih.Status))

	mux.HandleFunc("POST /api/admin/db/checkpoint", admin(DBHandler{DB: d.Store}.Checkpoint))

	sh := SettingsHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		OnChange:    d.OnConfigChange,
		Hub:         d.Hub,
	}
	mux.HandleFunc("GET /api/admin/settings", admin(sh.Get))
	mux.HandleFunc("PUT /api/admin/settings", admin(sh.Put))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("GET /api/admin/events", admin(eh.ServeSSE))

	return mux
}

// NewHandler is the mux behind the standard middleware chain.
func NewHandler(d Deps) http.Handler {
	cfg := d.CfgVal.Load().(config.Config)
	return Chain(NewMux(d),
		RequestID,
		Recover,
		AccessLog,
		Cors(cfg.Cors.AllowedOrigins),
		Metrics,
	)
}
