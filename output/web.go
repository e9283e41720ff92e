package output

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/fkie-cad/loadmeter"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/targodan/go-errors"
)

const shutdownTimeout = 5 * time.Second

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="%d">
<title>%s</title>
</head>
<body>
<h1>%s</h1>
<img src="/chart.png" alt="%s">
<form method="post" action="/v1/close"><button type="submit">Close</button></form>
</body>
</html>
`

// WebSink serves the latest snapshot over HTTP, as JSON, as a PNG chart and
// as a self refreshing page. A POST to /v1/close closes the chart. The
// rendered samples are also exposed as prometheus metrics on /metrics.
type WebSink struct {
	router  *gin.Engine
	width   int
	height  int
	refresh int

	closers closeCallbacks
	metrics *meterMetrics

	latestMux *sync.RWMutex
	latest    *loadmeter.Snapshot

	server   *http.Server
	listener net.Listener
}

// NewWebSink creates a new WebSink. The page reloads itself every refresh,
// which should be the poll interval.
func NewWebSink(width, height int, refresh time.Duration) *WebSink {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &WebSink{
		router:    router,
		width:     width,
		height:    height,
		refresh:   int(math.Max(1, math.Ceil(refresh.Seconds()))),
		latestMux: &sync.RWMutex{},
		metrics:   newMeterMetrics(),
	}

	router.GET("/", s.page)
	router.GET("/chart.png", s.chart)
	router.GET("/metrics", gin.WrapH(s.metrics.handler()))

	v1 := router.Group("/v1")
	v1.GET("/snapshot", s.snapshot)
	v1.POST("/close", s.close)

	return s
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("Handled chart request.")
	}
}

// Handler returns the http.Handler serving the chart.
func (s *WebSink) Handler() http.Handler {
	return s.router
}

// Start starts serving on the given address in the background.
func (s *WebSink) Start(listen string) error {
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return errors.Errorf("could not listen on \"%s\", reason: %w", listen, err)
	}
	s.listener = ln
	s.server = &http.Server{Handler: s.router}

	logrus.WithField("address", ln.Addr().String()).Info("Serving chart.")
	go func() {
		err := s.server.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Chart server failed.")
		}
	}()
	return nil
}

// Addr returns the address the sink is listening on, or nil if it was not
// started.
func (s *WebSink) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// NotifyClose registers fn to be called once the chart is closed through
// the web interface.
func (s *WebSink) NotifyClose(fn func()) {
	s.closers.add(fn)
}

// Render replaces the served snapshot.
func (s *WebSink) Render(snap loadmeter.Snapshot) error {
	if s.closers.isFired() {
		return loadmeter.ErrSurfaceClosed
	}
	s.latestMux.Lock()
	s.latest = &snap
	s.latestMux.Unlock()
	s.metrics.observe(snap)
	return nil
}

// Close shuts the server down, if it was started.
func (s *WebSink) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *WebSink) current() (loadmeter.Snapshot, bool) {
	s.latestMux.RLock()
	defer s.latestMux.RUnlock()
	if s.latest == nil {
		return loadmeter.Snapshot{}, false
	}
	return *s.latest, true
}

func notRenderedYet(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot has been rendered yet"})
}

func (s *WebSink) page(c *gin.Context) {
	page := fmt.Sprintf(pageTemplate, s.refresh, ChartTitle, ChartTitle, ChartTitle)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *WebSink) snapshot(c *gin.Context) {
	snap, ok := s.current()
	if !ok {
		notRenderedYet(c)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *WebSink) chart(c *gin.Context) {
	snap, ok := s.current()
	if !ok {
		notRenderedYet(c)
		return
	}
	buf := &bytes.Buffer{}
	err := RenderPNG(buf, snap, s.width, s.height)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *WebSink) close(c *gin.Context) {
	logrus.Info("Chart closed through the web interface.")
	s.closers.fire()
	c.JSON(http.StatusOK, gin.H{"error": nil})
}
