package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cubefs/cubefs/blobstore/common/profile"
	"github.com/cubefs/cubefs/blobstore/common/rpc"
	"github.com/cubefs/cubefs/blobstore/util/log"

	"github.com/cubefs/graphserving/util"
)

// statsRatePerSecond bounds how often /stats can be scraped; a read-only
// graph server has no per-I/O-byte budget to enforce the way
// util/limiter.go's byte-rate limiter does, so only the route itself is
// throttled.
const statsRatePerSecond = 20

const (
	defaultShutdownTimeoutS      = 10
	defaultReadRequestTimeoutS   = 30
	defaultWriteResponseTimeoutS = 30
)

type HttpServer struct {
	httpServer *http.Server

	*Server
}

func NewHttpServer(server *Server) *HttpServer {
	return &HttpServer{Server: server}
}

// progressHandlerFunc adapts a plain middleware function to rpc.ProgressHandler,
// which requires a Handler method rather than a bare func value.
type progressHandlerFunc func(http.ResponseWriter, *http.Request, func(http.ResponseWriter, *http.Request))

func (f progressHandlerFunc) Handler(w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, *http.Request)) {
	f(w, r, next)
}

func (h *HttpServer) Serve(addr string) {
	ph := profile.NewProfileHandler(addr)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      rpc.MiddlewareHandlerWith(h.newHandler(), progressHandlerFunc(h.logHandler), progressHandlerFunc(h.statsMiddleware), ph),
		ReadTimeout:  defaultReadRequestTimeoutS * time.Second,
		WriteTimeout: defaultWriteResponseTimeoutS * time.Second,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server exits:", err)
		}
	}()
	h.httpServer = httpServer

	log.Info("http server is running at:", addr)
}

func (h *HttpServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeoutS*time.Second)
	defer cancel()

	h.httpServer.Shutdown(ctx)
}

func (h *HttpServer) newHandler() *rpc.Router {
	rpc.GET("/stats", h.Stats, rpc.OptArgsQuery())
	rpc.GET("/healthz", h.Healthz, rpc.OptArgsQuery())

	return rpc.DefaultRouter
}

func (h *HttpServer) Stats(c *rpc.Context) {
	c.RespondStatus(http.StatusOK)
}

// Healthz reports the server ready once every partition has finished
// loading; NewServer blocks until that point, so reaching this handler at
// all already implies readiness.
func (h *HttpServer) Healthz(c *rpc.Context) {
	c.RespondStatus(http.StatusOK)
}

// statsMiddleware rate-limits the stats route so a scraping misconfiguration
// can't compete with request-serving goroutines for CPU.
func (h *HttpServer) statsMiddleware(w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, *http.Request)) {
	util.RateLimitedHandler(statsRatePerSecond, http.HandlerFunc(next)).ServeHTTP(w, r)
}
