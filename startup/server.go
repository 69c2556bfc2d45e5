package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casbin/casbin"
	"github.com/go-redis/redis"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"openspace_backend/casbinAuthorization"
	"openspace_backend/domain"
	"openspace_backend/handlers"
	application "openspace_backend/service"
	"openspace_backend/startup/config"
	store2 "openspace_backend/store"
)

var logger = logrus.New()

type Server struct {
	config *config.Config
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

func (server *Server) Start() {

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("openspace_backend")

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		err := mongoClient.Disconnect(ctx)
		if err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}(mongoClient, context.Background())

	redisClient := server.initRedisClient()

	userStore := server.initUserStore(mongoClient)
	roomStore := server.initRoomStore(mongoClient)
	bookingStore := server.initBookingStore(mongoClient, tracer)
	earningStore := server.initEarningStore(mongoClient, tracer)
	verificationCache := server.initVerificationCache(redisClient, tracer)

	authService := application.NewAuthService(userStore, verificationCache)
	adminService := application.NewAdminService(userStore)
	roomService := application.NewRoomService(roomStore)
	bookingService := application.NewBookingService(bookingStore, roomStore, earningStore, tracer)
	earningService := application.NewEarningService(earningStore, application.NewHTTPSettlementClient(), tracer)

	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(adminService)
	roomHandler := handlers.NewRoomHandler(roomService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	earningHandler := handlers.NewEarningHandler(earningService)

	server.start(authHandler, adminHandler, roomHandler, bookingHandler, earningHandler)
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store2.GetClient(server.config.OpenSpaceDBHost, server.config.OpenSpaceDBPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initRedisClient() *redis.Client {
	client, err := store2.GetRedisClient(server.config.CacheHost, server.config.CachePort)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initUserStore(client *mongo.Client) domain.UserStore {
	return store2.NewUserMongoDBStore(client)
}

func (server *Server) initRoomStore(client *mongo.Client) domain.RoomStore {
	return store2.NewRoomMongoDBStore(client)
}

func (server *Server) initBookingStore(client *mongo.Client, tracer trace.Tracer) domain.BookingStore {
	return store2.NewBookingMongoDBStore(client, tracer)
}

func (server *Server) initEarningStore(client *mongo.Client, tracer trace.Tracer) domain.EarningStore {
	return store2.NewEarningMongoDBStore(client, tracer)
}

func (server *Server) initVerificationCache(client *redis.Client, tracer trace.Tracer) domain.VerificationCache {
	return store2.NewVerificationRedisCache(client, tracer)
}

func (server *Server) start(authHandler *handlers.AuthHandler, adminHandler *handlers.AdminHandler,
	roomHandler *handlers.RoomHandler, bookingHandler *handlers.BookingHandler, earningHandler *handlers.EarningHandler) {

	enforcer, err := casbin.NewEnforcerSafe("./casbinAuthorization/rbac_model.conf", "./casbinAuthorization/policy.csv")
	if err != nil {
		log.Fatalf("Failed to Initialize Casbin Enforcer: %v", err)
	}

	router := mux.NewRouter()
	router.Use(MiddlewareContentTypeSet)
	router.Use(casbinAuthorization.CasbinMiddleware(enforcer, logger))

	authHandler.Init(router)
	adminHandler.Init(router)
	roomHandler.Init(router)
	bookingHandler.Init(router)
	earningHandler.Init(router)

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: cors(router),
	}

	wait := time.Second * 15
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")

		next.ServeHTTP(rw, h)
	})
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("openspace_backend"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}
