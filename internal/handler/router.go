package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dayavats/samvaad/internal/auth"
	"github.com/Dayavats/samvaad/pkg/log"
)

// Router bundles the handlers and wires them onto a Gin engine.
type Router struct {
	ws         *WSHandler
	chat       *ChatHandler
	users      *UserHandler
	feed       *FeedHandler
	middleware *auth.Middleware
}

// NewRouter creates the route table.
func NewRouter(ws *WSHandler, chat *ChatHandler, users *UserHandler, feed *FeedHandler, middleware *auth.Middleware) *Router {
	return &Router{
		ws:         ws,
		chat:       chat,
		users:      users,
		feed:       feed,
		middleware: middleware,
	}
}

// Setup builds the Gin engine with all routes registered.
func (r *Router) Setup(logCfg log.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(log.GinMiddleware(log.New(logCfg)))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.GET("/chat/ws", r.ws.HandleConnection)

	api := engine.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", r.users.Register)
			authGroup.POST("/login", r.users.Login)
		}

		authed := api.Group("")
		authed.Use(r.middleware.RequireAuth())
		{
			authed.GET("/users", r.users.ListPeers)
			authed.GET("/users/me", r.users.Me)
			authed.PUT("/users/me", r.users.UpdateMe)

			authed.GET("/conversations", r.chat.ListConversations)
			authed.POST("/conversations", r.chat.CreateConversation)
			authed.GET("/conversations/:id/messages", r.chat.ListMessages)

			authed.GET("/posts", r.feed.ListPosts)
			authed.POST("/posts", r.feed.CreatePost)
			authed.GET("/stories", r.feed.ListStories)
			authed.POST("/stories", r.feed.CreateStory)
			authed.POST("/media/presign", r.feed.PresignUpload)
		}

		admin := api.Group("/admin")
		admin.Use(r.middleware.RequireAuth(), r.middleware.RequireAdmin())
		{
			admin.PUT("/users/:id/role", r.users.SetRole)
			admin.PUT("/users/:id/ban", r.users.SetBanned)
			admin.DELETE("/conversations/:id", r.chat.DeactivateConversation)
			admin.PUT("/posts/:id/flag", r.feed.FlagPost)
			admin.DELETE("/posts/:id", r.feed.DeletePost)
			admin.PUT("/stories/:id/flag", r.feed.FlagStory)
			admin.DELETE("/stories/:id", r.feed.DeleteStory)
		}
	}

	return engine
}
