package devserver

// Route path constants, relative to the API prefix.
const (
	// Auth routes
	RouteAuthLogin    = "/auth/login"
	RouteAuthRegister = "/auth/register"
	RouteAuthRefresh  = "/auth/refresh"
	RouteAuthLogout   = "/auth/logout"
	RouteAuthValidate = "/auth/validate"

	// User routes
	RouteUserProfile = "/user/profile"

	// Reward routes
	RouteRewards           = "/rewards"
	RouteRewardsActive     = "/rewards/active"
	RouteRewardsAvailable  = "/rewards/available"
	RouteRewardsStatistics = "/rewards/statistics"
	RouteRewardsByCategory = "/rewards/category/:category"
	RouteReward            = "/rewards/:id"

	// Tree routes
	RouteTrees       = "/trees"
	RouteTree        = "/trees/:id"
	RouteTreesByUser = "/trees/user/:userID"

	RouteHealth = "/health"
)

const refreshCookieName = "refresh_token"
