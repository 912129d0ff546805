package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"linaxis/host/supervisor"
)

func newDaemonCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Expose the actuator supervisor as an HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDaemon(listen)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "127.0.0.1:9550", "HTTP listen address")
	return cmd
}

func runDaemon(listen string) error {
	sup, err := connect(supervisor.Callbacks{})
	if err != nil {
		return err
	}
	defer sup.Close()

	srv := &http.Server{
		Addr:    listen,
		Handler: setupRoutes(sup),
	}

	go func() {
		logrus.Infof("listening on %s", listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logrus.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func setupRoutes(sup *supervisor.Supervisor) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))

	router.GET("/status", func(c *gin.Context) {
		mm, known := sup.Position()
		body := gin.H{
			"state":          sup.State(),
			"position_known": known,
		}
		if known {
			body["position_mm"] = mm
		}
		c.JSON(http.StatusOK, body)
	})

	router.POST("/calibrate", action(sup.Calibrate))
	router.POST("/target", func(c *gin.Context) {
		var req struct {
			// Pointer so a requested position of exactly 0mm still binds.
			Mm *float64 `json:"mm" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, sup.MoveTo(*req.Mm))
	})
	router.POST("/manual", action(sup.ManualMode))
	router.DELETE("/manual", action(sup.Rest))
	router.POST("/jog/cw", action(sup.JogCW))
	router.POST("/jog/ccw", action(sup.JogCCW))
	router.POST("/rest", action(sup.Rest))

	return router
}

func action(fn func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, fn())
	}
}

// respond maps supervisor state-machine refusals to 409: the axis is busy
// with another sequence and the caller should retry later.
func respond(c *gin.Context, err error) {
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("request")
	}
}
