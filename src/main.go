package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"tourbook/src/admin"
	"tourbook/src/boot"
	"tourbook/src/cart"
	"tourbook/src/catalog"
	"tourbook/src/cms"
	"tourbook/src/common"
	"tourbook/src/config"
	"tourbook/src/lib"
	awslib "tourbook/src/lib/aws"
	"tourbook/src/lib/mailer"
	"tourbook/src/middlewares"
	"tourbook/src/session"
	"tourbook/src/types"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var timeTagValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	v, ok := fl.Field().Interface().(string)
	return ok && types.TimeTag(v).IsValid()
}

var specialValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	v, ok := fl.Field().Interface().(string)
	return ok && types.Special(v).IsValid()
}

var paymentStatusValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	v, ok := fl.Field().Interface().(string)
	return ok && types.PaymentStatus(v).IsValid()
}

var pickupValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	v, ok := fl.Field().Interface().(string)
	return ok && types.PickupOption(v).IsValid()
}

// sortstrategy accepts the key or the display label
var sortStrategyValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	v, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return types.SortStrategy(v).IsValid() || types.ParseSortStrategy(v).Label() == v
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("timetag", timeTagValidatorFunc)
		v.RegisterValidation("special", specialValidatorFunc)
		v.RegisterValidation("paymentstatus", paymentStatusValidatorFunc)
		v.RegisterValidation("pickup", pickupValidatorFunc)
		v.RegisterValidation("sortstrategy", sortStrategyValidatorFunc)
	}
}

// services is everything the handlers reach for.
type services struct {
	cms      *cms.Client
	cache    *lib.CatalogCache
	feed     *catalog.Feed
	sessions *session.Registry
	carts    *cart.Registry
	boards   *admin.Boards
	mailer   lib.Mailer
	archive  common.Archiver
}

func newServices(client *cms.Client, slot lib.Slot, cache *lib.CatalogCache) *services {
	svc := &services{
		cms:      client,
		cache:    cache,
		feed:     catalog.NewFeed(cache),
		sessions: session.NewRegistry(slot, client),
		carts:    cart.NewRegistry(slot),
		boards:   admin.NewBoards(),
		mailer:   lib.LogMailer{},
	}
	return svc
}

// client returns the CMS client acting for the session of ctx.
func (s *services) client(ctx *gin.Context) *cms.Client {
	return s.cms.WithToken(middlewares.GetSession(ctx))
}

func (s *services) tours(ctx *gin.Context) *admin.Tours {
	return admin.NewTours(s.client(ctx), s.catalogChanged)
}

// catalogChanged drops cached catalog pages after an admin edit.
func (s *services) catalogChanged(ctx context.Context) {
	s.cache.Invalidate(ctx)
	if _, err := s.feed.Refresh(ctx); err != nil {
		log.Printf("[catalog] Refresh after edit failed: %s\n", err.Error())
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		if mm == "" {
			return
		}
		on, err := strconv.ParseBool(mm)
		if err != nil || on {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func setupRoutes(router *gin.Engine, svc *services) {
	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.RequestID, middlewares.Sessions(svc.sessions, svc.carts))

	catalogHandlers(apiv1, svc)
	authHandlers(apiv1, svc)
	cartHandlers(apiv1, svc)

	authorized := apiv1.Group("")
	authorized.Use(middlewares.RequireAuth)
	paymentHandlers(authorized, svc)

	adminGroup := apiv1.Group("/admin")
	adminGroup.Use(middlewares.RequireAdmin)
	adminHandlers(adminGroup, svc)
}

func initLogger() {
	cwd, _ := os.Getwd()
	logsDir := path.Join(cwd, "logs")
	os.MkdirAll(logsDir, 0o755)
	serverLogs := path.Join(logsDir, "server.log")
	apiLogs := path.Join(logsDir, "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func useCORS(router *gin.Engine) {
	if config.IsLocal() {
		router.Use(cors.Default())
		return
	}
	appHost := os.Getenv("APP_HOST")
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization", middlewares.SessionHeader)
	cc.ExposeHeaders = append(cc.ExposeHeaders, middlewares.SessionHeader, middlewares.RequestIDHeader)
	cc.AllowOriginFunc = func(origin string) bool {
		if appHost == "" {
			return false
		}
		match, _ := regexp.MatchString(appHost, origin)
		return match
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	router.Use(cors.New(cc))
}

func main() {
	if config.IsLocal() {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			log.Printf("No .env loaded: %s\n", err.Error())
		}
	}
	initLogger()
	boot.InitRedis()

	client := cms.NewDefaultClient()
	slot := lib.DefaultSlot(config.SessionTTL())
	cache := lib.NewCatalogCache(lib.GetRedisClient(), client, config.CatalogCacheTTL())
	svc := newServices(client, slot, cache)
	svc.mailer = mailer.New()
	if archive := awslib.NewSlipArchive(config.SlipBucket()); archive != nil {
		svc.archive = archive
	}

	boot.InitScheduler(&boot.Jobs{
		Feed:     svc.feed,
		Cache:    cache,
		Sessions: svc.sessions,
		Carts:    svc.carts,
	})
	defer boot.StopScheduler()

	router := setupRouter()
	useCORS(router)
	registerValidators()
	router = maintenanceModeMiddleware(router)
	setupRoutes(router, svc)

	if err := router.Run(":" + config.ServerPort()); err != nil {
		log.Fatalf("server stopped: %s", err.Error())
	}
}
