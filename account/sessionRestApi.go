package account

import (
	"net/http"

	"shiftgate/bizerror"
	"shiftgate/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"golang.org/x/time/rate"
)

var (
	PathSessions = "/v1/sessions"
	PathWorkers  = "/v1/workers"

	// brute-force throttle over all login attempts
	loginLimiter = rate.NewLimiter(10, 20)
)

func RegisterSessionsRestAPI(r *gin.Engine) {
	r.POST(PathSessions, handleLogin)
}

func RegisterWorkersRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathWorkers, middleWares...)
	g.GET("", handleQueryWorkers)
	g.POST("", handleCreateWorker)
}

func handleLogin(c *gin.Context) {
	if !loginLimiter.Allow() {
		panic(bizerror.ErrTransient)
	}

	login := session.LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	s, err := LoginFunc(&login)
	if err != nil {
		panic(err)
	}
	c.SetCookie(session.KeySecToken, s.Token, int(session.TokenExpiration.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, s)
}

func handleQueryWorkers(c *gin.Context) {
	workers, err := QueryWorkersFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, workers)
}

func handleCreateWorker(c *gin.Context) {
	creation := WorkerCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateWorkerFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}
