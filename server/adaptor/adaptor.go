package adaptor

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ponyo877/roomchat/server/config"
	"github.com/ponyo877/roomchat/server/domain"
)

type Adaptor struct {
	uc       Usecase
	chat     ChatUsecase
	cfg      *config.Config
	upgrader websocket.Upgrader
	conns    sync.WaitGroup
}

func NewAdaptor(uc Usecase, chat ChatUsecase, cfg *config.Config) *Adaptor {
	return &Adaptor{
		uc:   uc,
		chat: chat,
		cfg:  cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (a *Adaptor) Router() *gin.Engine {
	if a.cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if a.cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/signup", a.signUp)
		auth.POST("/signin", a.signIn)
		auth.POST("/signout/:id", a.signOut)

		api.GET("/users/:id", a.getUser)

		rooms := api.Group("/chat_rooms")
		rooms.GET("", a.listRooms)
		rooms.POST("", a.createRoom)
		rooms.POST("/join", a.joinRoom)
		rooms.DELETE("/:id", a.deleteRoom)
	}

	r.GET("/ws/:room_id/:user_id", a.serveWS)

	log.Info().Str("module", "adaptor").Str("mode", a.cfg.Mode).Msg("router setup")
	return r
}

// Drain waits for every websocket handler to finish, or for ctx.
func (a *Adaptor) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrAlreadyMember):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[int]string{
	http.StatusBadRequest:   "Invalid request",
	http.StatusUnauthorized: "Invalid credentials",
	http.StatusNotFound:     "Not found",
	http.StatusConflict:     "Already exists",
}

func writeError(c *gin.Context, err error, conflict string) {
	status := statusOf(err)
	msg, ok := messages[status]
	switch {
	case status == http.StatusConflict && conflict != "":
		msg = conflict
	case status == http.StatusBadRequest:
		msg = err.Error()
	case !ok:
		msg = "Internal server error"
		log.Error().Err(err).Str("module", "adaptor").Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"status": "fail", "message": msg})
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "invalid " + name})
		return 0, false
	}
	return id, true
}

func timeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}
