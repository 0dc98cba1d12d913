package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthRegister = "/auth/register"
	RouteAuthLogin    = "/auth/login"
	RouteAuthLogout   = "/auth/logout"

	// KV API Routes (tenant-scoped, bearer token required)
	RouteGetKVs   = "/get_kvs/"
	RouteAddKV    = "/add_kv/"
	RouteUpdateKV = "/update_kv/"
	RouteDeleteKV = "/delete_kv/"

	// Discussions Routes
	RouteDiscussions = "/api/discussions"

	// Debug / Observability Routes
	RouteRoutes  = "/routes/"
	RouteMetrics = "/metrics"
)
