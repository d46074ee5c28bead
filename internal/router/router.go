// Package router assembles the HTTP surface.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-connect-api/internal/handler"
	"github.com/noah-isme/campus-connect-api/internal/middleware"
	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/internal/repository"
	"github.com/noah-isme/campus-connect-api/internal/service"
	"github.com/noah-isme/campus-connect-api/pkg/config"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	"github.com/noah-isme/campus-connect-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-connect-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-connect-api/pkg/middleware/requestid"
	"github.com/noah-isme/campus-connect-api/pkg/response"
)

// Deps are the collaborators shared by every route.
type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Gateway *database.Gateway
	Metrics *service.MetricsService
	Cache   *service.CacheService
}

type resource[T any] struct {
	table   *repository.Table[T]
	service *service.CRUDService[T]
	handler *handler.ResourceHandler[T]
}

func newResource[T any](d Deps, table string, spec service.ResourceSpec, keys ...string) resource[T] {
	t := repository.NewTable[T](d.Gateway, table, keys...)
	svc := service.NewCRUDService[T](t, spec, nil, d.Cache, d.Logger)
	return resource[T]{table: t, service: svc, handler: handler.NewResourceHandler[T](svc)}
}

// crud mounts list, get, update and delete of a single-key resource.
// Creation is mounted separately because its roles differ per resource.
func (r resource[T]) crud(g gin.IRoutes, base, key string, write ...gin.HandlerFunc) {
	g.GET(base, r.handler.List)
	g.GET(base+"/:"+key, r.handler.Get)
	g.POST(base, append(write, r.handler.Create)...)
	g.PATCH(base+"/:"+key, append(write, r.handler.Update)...)
	g.DELETE(base+"/:"+key, append(write, r.handler.Delete)...)
}

// New builds the gin engine with every route registered.
func New(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(response.Debug(cfg.Debug))

	metricsHandler := handler.NewMetricsHandler(d.Metrics, d.Gateway)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authService := service.NewAuthService(repository.NewAccountRepository(d.Gateway), nil, d.Logger, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", handler.NewAuthHandler(authService).Login)

	// public lookups, written by admins
	campuses := newResource[models.Campus](d, "campuses", campusSpec, "campus_id")
	programs := newResource[models.Program](d, "programs", programSpec, "program_id")
	hobbies := newResource[models.Hobby](d, "hobbies", hobbySpec, "hobby_id")
	reactionTypes := newResource[models.ReactionType](d, "reaction_types", reactionTypeSpec, "reaction_type_id")
	api.GET("/campuses", campuses.handler.List)
	api.GET("/campuses/:campus_id", campuses.handler.Get)
	api.GET("/programs", programs.handler.List)
	api.GET("/programs/:program_id", programs.handler.Get)
	api.GET("/hobbies", hobbies.handler.List)
	api.GET("/hobbies/:hobby_id", hobbies.handler.Get)
	api.GET("/reaction-types", reactionTypes.handler.List)
	api.GET("/reaction-types/:reaction_type_id", reactionTypes.handler.Get)

	authed := api.Group("", middleware.JWT(authService))
	admin := authed.Group("", adminOnly)
	for _, lookup := range []struct {
		base, key              string
		create, update, remove gin.HandlerFunc
	}{
		{"/campuses", "campus_id", campuses.handler.Create, campuses.handler.Update, campuses.handler.Delete},
		{"/programs", "program_id", programs.handler.Create, programs.handler.Update, programs.handler.Delete},
		{"/hobbies", "hobby_id", hobbies.handler.Create, hobbies.handler.Update, hobbies.handler.Delete},
		{"/reaction-types", "reaction_type_id", reactionTypes.handler.Create, reactionTypes.handler.Update, reactionTypes.handler.Delete},
	} {
		admin.POST(lookup.base, lookup.create)
		admin.PATCH(lookup.base+"/:"+lookup.key, lookup.update)
		admin.DELETE(lookup.base+"/:"+lookup.key, lookup.remove)
	}

	// students and their profile relations
	students := newResource[models.Student](d, "students", studentSpec, "erp")
	authed.GET("/students", students.handler.List)
	authed.GET("/students/:erp", students.handler.Get)
	authed.PATCH("/students/:erp", students.handler.Update)
	admin.POST("/students", students.handler.Create)
	admin.DELETE("/students/:erp", students.handler.Delete)

	studentHobbies := newResource[models.StudentHobby](d, "student_hobbies", studentHobbySpec, "erp", "hobby_id")
	authed.GET("/students/:erp/hobbies", studentHobbies.handler.List)
	authed.POST("/students/:erp/hobbies", studentHobbies.handler.Create)
	authed.DELETE("/students/:erp/hobbies/:hobby_id", studentHobbies.handler.Delete)

	friends := newResource[models.Friend](d, "friends", friendSpec, "erp", "friend_erp")
	authed.GET("/students/:erp/friends", friends.handler.List)

	// activities
	activities := newResource[models.Activity](d, "activities", activitySpec, "activity_id")
	activities.crud(authed, "/activities", "activity_id")
	attendees := newResource[models.ActivityAttendee](d, "activity_attendees", attendeeSpec, "activity_id", "student_erp")
	authed.GET("/activities/:activity_id/attendees", attendees.handler.List)
	authed.POST("/activities/:activity_id/attendees", attendees.handler.Create)
	authed.DELETE("/activities/:activity_id/attendees/:student_erp", attendees.handler.Delete)

	// posts
	postRepo := repository.NewPostRepository(d.Gateway)
	posts := service.NewCRUDService[models.Post](postRepo.Posts(), postSpec, nil, d.Cache, d.Logger)
	postsGeneric := handler.NewResourceHandler[models.Post](posts)
	postHandler := handler.NewPostHandler(service.NewPostService(postRepo, nil, d.Logger), posts)
	authed.GET("/posts", postHandler.List)
	authed.GET("/posts/:post_id", postHandler.Get)
	authed.POST("/posts", postHandler.Create)
	authed.PATCH("/posts/:post_id", postsGeneric.Update)
	authed.DELETE("/posts/:post_id", postsGeneric.Delete)

	reactions := newResource[models.PostReaction](d, "post_reactions", postReactionSpec, "post_id", "reactor_erp")
	authed.GET("/posts/:post_id/reactions", reactions.handler.List)
	authed.POST("/posts/:post_id/reactions", reactions.handler.Create)
	authed.PATCH("/posts/:post_id/reactions/:reactor_erp", reactions.handler.Update)
	authed.DELETE("/posts/:post_id/reactions/:reactor_erp", reactions.handler.Delete)

	// friend and hangout requests
	friendRequests := newResource[models.FriendRequest](d, "friend_requests", friendRequestSpec, "friend_request_id")
	authed.GET("/friend-requests", friendRequests.handler.List)
	authed.GET("/friend-requests/:friend_request_id", friendRequests.handler.Get)
	authed.POST("/friend-requests", friendRequests.handler.Create)
	authed.DELETE("/friend-requests/:friend_request_id", friendRequests.handler.Delete)
	friendHandler := handler.NewFriendRequestHandler(service.NewFriendRequestService(repository.NewFriendRepository(d.Gateway), d.Logger))
	authed.POST("/friend-requests/:friend_request_id/accept", friendHandler.Accept)

	hangouts := newResource[models.HangoutRequest](d, "hangout_requests", hangoutRequestSpec, "hangout_request_id")
	hangouts.crud(authed, "/hangout-requests", "hangout_request_id")

	// subjects, teachers and reviews
	subjects := newResource[models.Subject](d, "subjects", subjectSpec, "subject_code")
	authed.GET("/subjects", subjects.handler.List)
	authed.GET("/subjects/:subject_code", subjects.handler.Get)
	admin.POST("/subjects", subjects.handler.Create)
	admin.PATCH("/subjects/:subject_code", subjects.handler.Update)
	admin.DELETE("/subjects/:subject_code", subjects.handler.Delete)

	teachers := newResource[models.Teacher](d, "teachers", teacherSpec, "teacher_id")
	teachers.crud(authed, "/teachers", "teacher_id", adminOnly)

	reviewHandler := handler.NewTeacherReviewHandler(service.NewTeacherReviewService(
		repository.NewTeacherReviewRepository(d.Gateway), nil, d.Metrics, d.Logger))
	authed.GET("/teachers/:teacher_id/reviews", reviewHandler.List)
	authed.POST("/teacher-reviews", reviewHandler.Create)
	authed.DELETE("/teacher-reviews/:review_id", reviewHandler.Delete)

	// classes and timetables
	classes := newResource[models.Class](d, "classes", classSpec, "class_nbr")
	classes.crud(authed, "/classes", "class_nbr", adminOnly)

	timetables := newResource[models.Timetable](d, "timetables", timetableSpec, "timetable_id")
	timetableHandler := handler.NewTimetableHandler(service.NewTimetableService(
		repository.NewTimetableRepository(d.Gateway), nil, d.Metrics, d.Logger,
		service.TimetableConfig{MaxGenerated: cfg.Timetable.MaxGenerated}))
	authed.GET("/timetables", timetables.handler.List)
	authed.POST("/timetables", timetables.handler.Create)
	authed.POST("/timetables/generate", timetableHandler.Generate)
	authed.GET("/timetables/:timetable_id", timetableHandler.Get)
	authed.PATCH("/timetables/:timetable_id", timetables.handler.Update)
	authed.DELETE("/timetables/:timetable_id", timetables.handler.Delete)
	authed.GET("/timetables/:timetable_id/export", timetableHandler.Export)
	authed.POST("/timetables/:timetable_id/classes", timetableHandler.AddClass)
	authed.DELETE("/timetables/:timetable_id/classes/:class_nbr", timetableHandler.RemoveClass)

	return r
}
