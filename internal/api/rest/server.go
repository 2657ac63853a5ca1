package rest

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	app "fabric-inspector/internal/application"
	"fabric-inspector/internal/domain/entity"
)

const (
	// MaxUploadSize предельный размер загружаемого изображения.
	MaxUploadSize = 10 << 20

	// запас на заголовки multipart
	maxRequestSize = MaxUploadSize + 1<<20
	msgTooLarge    = "image is larger than 10 MB"

	defaultInspectionsLimit = 20
	maxInspectionsLimit     = 500
)

// Inspector часть сервиса проверки, нужная HTTP API.
type Inspector interface {
	Analyze(ctx context.Context, source entity.InspectionSource, imageData []byte) (*app.InspectionOutput, error)
	Recent(ctx context.Context, limit int) ([]entity.InspectionRecord, error)
}

// AnalyzeResponse ответ POST /api/v1/analyze.
type AnalyzeResponse struct {
	RequestID        string  `json:"request_id"`
	Label            string  `json:"label"`
	Passed           bool    `json:"passed"`
	AnomalyType      string  `json:"anomaly_type,omitempty"`
	SurfaceIntegrity string  `json:"surface_integrity"`
	Confidence       float64 `json:"confidence"`
	DefectMap        string  `json:"defect_map"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	inspector Inspector
	gatherer  prometheus.Gatherer
}

// NewServer создаёт HTTP API. gatherer может быть nil, тогда /metrics не публикуется.
func NewServer(inspector Inspector, gatherer prometheus.Gatherer) *Server {
	return &Server{inspector: inspector, gatherer: gatherer}
}

// Handler собирает маршруты.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	r.GET("/healthz", s.health)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")
	v1.POST("/analyze", s.analyze)
	v1.GET("/inspections", s.inspections)

	return r
}

// Run слушает addr до отмены ctx.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)

	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: msgTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "multipart field \"image\" is required"})
		return
	}
	if file.Size > MaxUploadSize {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgTooLarge})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read upload"})
		return
	}
	defer f.Close()

	imageData, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read upload"})
		return
	}

	out, err := s.inspector.Analyze(c.Request.Context(), entity.SourceREST, imageData)
	if err != nil {
		if errors.Is(err, entity.ErrDecode) {
			c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: entity.ErrDecode.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "inspection failed"})
		return
	}

	c.JSON(http.StatusOK, newAnalyzeResponse(out))
}

func newAnalyzeResponse(out *app.InspectionOutput) AnalyzeResponse {
	v := out.Result.Verdict
	return AnalyzeResponse{
		RequestID:        out.Result.RequestID,
		Label:            string(v.Label),
		Passed:           v.Passed,
		AnomalyType:      v.AnomalyType(),
		SurfaceIntegrity: v.SurfaceIntegrity(),
		Confidence:       out.Result.Confidence,
		DefectMap:        base64.StdEncoding.EncodeToString(out.DefectMap),
	}
}

func (s *Server) inspections(c *gin.Context) {
	limit := defaultInspectionsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxInspectionsLimit)
	}

	records, err := s.inspector.Recent(c.Request.Context(), limit)
	if err != nil {
		slog.Error("failed to read inspection journal", "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to read journal"})
		return
	}
	if records == nil {
		records = []entity.InspectionRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"inspections": records})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}
