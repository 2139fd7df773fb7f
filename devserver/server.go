// Package devserver is a local implementation of the Green Pulse REST API:
// auth, profile, rewards and trees, kept in memory.
package devserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/pulse-client/internal/config"
	"github.com/greenpulse/pulse-client/token/jwt"
	"github.com/greenpulse/pulse-client/token/refresh"
	refreshrepofake "github.com/greenpulse/pulse-client/token/refresh/repofake"
	"github.com/greenpulse/pulse-client/users"
	fakeuserrepo "github.com/greenpulse/pulse-client/users/repofake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const issuer = "green-pulse-dev"

type Server struct {
	env      string
	engine   *gin.Engine
	config   config.Config
	logger   zerolog.Logger
	accounts users.AccountRepo
	tokens   *jwt.Creator
	refresh  *refresh.Manager
	rewards  *rewardCatalog
	trees    *treeStore
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(cfg config.Config, options ...ServerOption) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[devserver.New] config is required")
	}

	creator, err := jwt.NewCreator(cfg.GetSigningKey(), issuer, cfg.GetAccessTokenExpiry())
	if err != nil {
		return nil, fmt.Errorf("[devserver.New] %w", err)
	}

	s := &Server{
		env:      cfg.GetEnv(),
		config:   cfg,
		logger:   log.Logger,
		accounts: fakeuserrepo.NewFakeUserRepo(),
		tokens:   creator,
		refresh:  refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), cfg.GetRefreshTokenLength(), cfg.GetRefreshTokenExpiry()),
		rewards:  newRewardCatalog(),
		trees:    newTreeStore(),
	}
	for _, opt := range options {
		opt(s)
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.LoggingMiddleware(), s.CorsMiddleware())
	s.initRoutes(s.engine.Group(cfg.GetAPIPrefix()))
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) initRoutes(api *gin.RouterGroup) {
	api.GET(RouteHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.POST(RouteAuthLogin, s.LoginHandler())
	api.POST(RouteAuthRegister, s.RegisterHandler())
	api.POST(RouteAuthRefresh, s.RefreshHandler())
	api.POST(RouteAuthLogout, s.LogoutHandler())
	api.POST(RouteAuthValidate, s.ValidateHandler())

	api.GET(RouteUserProfile, s.RequireAuth(), s.ProfileHandler())

	api.GET(RouteRewards, s.ListRewardsHandler(rewardsAll))
	api.GET(RouteRewardsActive, s.ListRewardsHandler(rewardsActive))
	api.GET(RouteRewardsAvailable, s.ListRewardsHandler(rewardsAvailable))
	api.GET(RouteRewardsStatistics, s.RewardStatisticsHandler())
	api.GET(RouteRewardsByCategory, s.RewardsByCategoryHandler())
	api.GET(RouteReward, s.GetRewardHandler())
	api.POST(RouteRewards, s.RequireAuth(), s.CreateRewardHandler())
	api.PUT(RouteReward, s.RequireAuth(), s.UpdateRewardHandler())
	api.DELETE(RouteReward, s.RequireAuth(), s.DeleteRewardHandler())

	api.GET(RouteTrees, s.ListTreesHandler())
	api.GET(RouteTreesByUser, s.TreesByUserHandler())
	api.GET(RouteTree, s.GetTreeHandler())
	api.POST(RouteTrees, s.RequireAuth(), s.CreateTreeHandler())
	api.PUT(RouteTree, s.RequireAuth(), s.UpdateTreeHandler())
	api.DELETE(RouteTree, s.RequireAuth(), s.DeleteTreeHandler())
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.engine.Routes() {
		logRoute(s.logger, route.Method, route.Path)
	}
}

func logRoute(logger zerolog.Logger, method, path string) {
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	logger.Debug().Msgf("[%s %-7s%s] %s", color, method, ResetColor, path)
}

// abort ends the request with a {"message": ...} body.
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
