package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", h.healthz)

	v1 := r.Group("/v1")

	profile := v1.Group("/profile")
	profile.POST("", h.createProfile)
	profile.PUT("", h.updateProfile)
	profile.GET("", h.getProfile)
	profile.GET("/all", h.getAllProfiles)
	profile.GET("/mine", h.getMyProfile)
	profile.PUT("/follow", h.follow)
	profile.PUT("/unfollow", h.unfollow)
	profile.GET("/relation", h.relation)

	post := v1.Group("/post")
	post.GET("", h.getPost)
	post.GET("/id", h.getPostByID)
	post.GET("/all", h.getAllPosts)
	post.GET("/mention", h.getMentioned)
	post.GET("/mine", h.getMyPosts)
	post.GET("/user", h.getUserPosts)
	post.GET("/newfeeds", h.getNewFeeds)
	post.GET("/share", h.getShared)
	post.POST("", h.createPost)
	post.PUT("", h.updatePost)
	post.DELETE("", h.deletePost)

	comment := v1.Group("/comment")
	comment.POST("", h.createComment)
	comment.GET("", h.getComments)
	comment.GET("/post/:postId", h.getPostComments)
	comment.GET("/:id", h.getComment)
	comment.PUT("/:id", h.updateComment)
	comment.DELETE("/:id", h.deleteComment)

	return r
}

// Wrap adds CORS and the root OTEL span around the engine.
func Wrap(engine http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "baggage", "traceparent"},
		AllowCredentials: true,
	})
	h := c.Handler(engine)

	return otelhttp.NewHandler(h, "imago-core", otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.DebugContext(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
