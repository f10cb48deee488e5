package webapi

import (
	"context"

	"github.com/gin-gonic/gin"

	"gameshelf-server-go/internal/domain/auth"
	"gameshelf-server-go/internal/domain/image"
	"gameshelf-server-go/internal/domain/notify"
	"gameshelf-server-go/internal/platform/config"
	"gameshelf-server-go/internal/platform/errors"
	"gameshelf-server-go/internal/platform/logging"
	"gameshelf-server-go/internal/platform/storage"
)

// Options carries everything the web API needs to serve requests.
type Options struct {
	Config        *config.Config
	Logger        *logging.Logger
	Auth          *auth.Service
	Users         *storage.UserRepository
	Boardgames    *storage.BoardgameRepository
	Publishers    *storage.PublisherRepository
	Reservations  *storage.ReservationRepository
	Reviews       *storage.ReviewRepository
	Analytics     *storage.AnalyticsRepository
	Notifications *notify.Service
	Covers        *image.Pipeline
}

// Service is the HTTP transport layer of the web API.
type Service struct {
	config        *config.Config
	logger        *logging.Logger
	auth          *auth.Service
	users         *storage.UserRepository
	boardgames    *storage.BoardgameRepository
	publishers    *storage.PublisherRepository
	reservations  *storage.ReservationRepository
	reviews       *storage.ReviewRepository
	analytics     *storage.AnalyticsRepository
	notifications *notify.Service
	covers        *image.Pipeline
}

func NewService(opts Options) (*Service, error) {
	if opts.Config == nil {
		return nil, errors.New(errors.KindConfig, "webapi.new", "config is required")
	}
	if opts.Logger == nil {
		return nil, errors.New(errors.KindConfig, "webapi.new", "logger is required")
	}
	if opts.Auth == nil {
		return nil, errors.New(errors.KindConfig, "webapi.new", "auth service is required")
	}

	return &Service{
		config:        opts.Config,
		logger:        opts.Logger,
		auth:          opts.Auth,
		users:         opts.Users,
		boardgames:    opts.Boardgames,
		publishers:    opts.Publishers,
		reservations:  opts.Reservations,
		reviews:       opts.Reviews,
		analytics:     opts.Analytics,
		notifications: opts.Notifications,
		covers:        opts.Covers,
	}, nil
}

// Register wires the web API routes onto the /api group. Access control is
// enforced upstream by the authentication filter and policy guard; handlers
// only apply ownership checks the rule table cannot express.
func (s *Service) Register(ctx context.Context, router *gin.RouterGroup) error {
	router.POST("/auth/login", s.handleLogin)

	router.GET("/boardgames", s.handleBoardgameList)
	router.GET("/boardgames/:id", s.handleBoardgameGet)
	router.POST("/boardgames", s.handleBoardgameCreate)
	router.PUT("/boardgames/:id", s.handleBoardgameUpdate)
	router.DELETE("/boardgames/:id", s.handleBoardgameDelete)
	router.POST("/boardgames/:id/cover", s.handleCoverUpload)
	router.GET("/boardgames/:id/reviews", s.handleReviewList)

	router.POST("/reviews", s.handleReviewCreate)
	router.DELETE("/reviews/:id", s.handleReviewDelete)

	router.GET("/publishers", s.handlePublisherList)
	router.GET("/publishers/:id", s.handlePublisherGet)
	router.POST("/publishers", s.handlePublisherCreate)
	router.PUT("/publishers/:id", s.handlePublisherUpdate)
	router.DELETE("/publishers/:id", s.handlePublisherDelete)

	router.POST("/reservations", s.handleReservationCreate)
	router.GET("/reservations", s.handleReservationListMine)
	router.GET("/reservations/all", s.handleReservationListAll)
	router.POST("/reservations/:id/activate", s.handleReservationActivate)
	router.POST("/reservations/:id/return", s.handleReservationReturn)
	router.POST("/reservations/:id/cancel", s.handleReservationCancel)

	router.GET("/users", s.handleUserList)
	router.POST("/users", s.handleUserCreate)
	router.GET("/users/:id", s.handleUserGet)
	router.PUT("/users/:id", s.handleUserUpdate)
	router.DELETE("/users/:id", s.handleUserDelete)

	router.GET("/notifications", s.handleNotificationList)
	router.POST("/notifications/:id/read", s.handleNotificationRead)
	router.DELETE("/notifications/:id", s.handleNotificationDelete)

	router.GET("/analytics/summary", s.handleAnalyticsSummary)
	router.GET("/analytics/system", s.handleAnalyticsSystem)

	s.logger.InfoTag("HTTP", "web API routes registered")
	return nil
}

// Policy returns the ordered rule table guarding the web API. First match
// wins; requests no rule matches are denied.
func Policy() *auth.Policy {
	staff := []string{"EMPLOYEE", "ADMIN"}
	return auth.NewPolicy(
		auth.Public("POST", "/api/auth/login"),

		auth.Public("GET", "/api/boardgames/*"),
		auth.Public("GET", "/api/publishers/*"),

		auth.Authenticated("POST", "/api/reviews"),
		auth.RequireAnyRole("DELETE", "/api/reviews/*", staff...),

		auth.RequireAnyRole("*", "/api/boardgames/*", staff...),
		auth.RequireAnyRole("*", "/api/publishers/*", staff...),

		auth.RequireAnyRole("GET", "/api/reservations/all", staff...),
		auth.Authenticated("*", "/api/reservations/*"),

		auth.RequireAnyRole("*", "/api/users/*", "ADMIN"),

		auth.Authenticated("*", "/api/notifications/*"),

		auth.RequireAnyRole("GET", "/api/analytics/*", staff...),
	)
}
