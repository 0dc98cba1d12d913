package server

import "net/http"

func (s *Server) initRoutes() {
	// Auth routes
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// KV API routes (require valid bearer token)
	s.RegisterRouteHandler("GET "+RouteGetKVs, ChainMiddleware(s.GetKVsHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteAddKV, ChainMiddleware(s.AddKVHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteUpdateKV, ChainMiddleware(s.UpdateKVHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteDeleteKV, ChainMiddleware(s.DeleteKVHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Discussions routes
	s.RegisterRouteHandler("POST "+RouteDiscussions, ChainMiddleware(s.AdvertiseDiscussionHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteDiscussions, ChainMiddleware(s.ListDiscussionsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteDiscussions, ChainMiddleware(s.RemoveDiscussionHandler(), s.APIMiddleware()...))

	// Debug / observability
	s.RegisterRouteFunc("GET "+RouteRoutes, s.RoutesHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, s.MetricsHandler())

	// Preflight requests for any API path
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(s.preflightHandler(), s.APIMiddleware()...))
}

func (s *Server) preflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}
