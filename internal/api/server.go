package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mlopez/fundscout/internal/db"
	"github.com/mlopez/fundscout/internal/discover"
	"github.com/mlopez/fundscout/internal/match"
	"github.com/mlopez/fundscout/internal/models"
)

type Server struct {
	Store    *db.Store
	Echo     *echo.Echo
	DB       *pgxpool.Pool
	Registry *discover.Registry

	// Background job tracking
	jobMu      sync.Mutex
	runningJob *backgroundJob
}

type backgroundJob struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"` // running, completed, failed
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at,omitempty"`
	Result    any                `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	Cancel    context.CancelFunc `json:"-"`
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool, registry *discover.Registry) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-Admin-Secret"},
	}))

	s := &Server{
		DB:       pool,
		Store:    db.NewStore(pool),
		Echo:     e,
		Registry: registry,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")
	api.GET("/opportunities", s.handleListOpportunities)
	api.GET("/opportunities/:id", s.handleGetOpportunity)
	api.GET("/sources", s.handleGetSources)
	api.GET("/stats", s.handleGetStats)
	api.GET("/donors", s.handleListDonors)
	api.GET("/donors/:id", s.handleGetDonor)

	api.POST("/match/profile", s.handleMatchProfile)
	api.POST("/match/proposal", s.handleMatchProposal)
	api.POST("/match/donors", s.handleMatchDonors)
	api.GET("/matches/:kind/:subject", s.handleListMatches)

	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/discover", s.handleDiscoverAll)
	admin.POST("/discover/source/:id", s.handleDiscoverSource)
	admin.POST("/donors", s.handleUpsertDonor)
	admin.GET("/admin/job/:id", s.handleJobStatus)
	admin.GET("/admin/runs", s.handleRecentRuns)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListOpportunities(c echo.Context) error {
	params := db.ListParams{
		Query:    c.QueryParam("q"),
		Source:   c.QueryParam("source"),
		Category: c.QueryParam("category"),
		Type:     c.QueryParam("type"),
	}

	if raw := c.QueryParam("min_relevance"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MinRelevance = v
		}
	}
	if raw := c.QueryParam("processed"); raw != "" {
		v := strings.EqualFold(raw, "true")
		params.Processed = &v
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Limit = v
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			params.Offset = v
		}
	}

	result, err := s.Store.List(c.Request().Context(), params)
	if err != nil {
		log.Printf("list opportunities failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list opportunities"})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetOpportunity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid opportunity id"})
	}

	opp, err := s.Store.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "opportunity not found"})
	}
	return c.JSON(http.StatusOK, opp)
}

func (s *Server) handleGetSources(c echo.Context) error {
	sources, err := s.Store.Sources(c.Request().Context())
	if err != nil {
		log.Printf("get sources failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load sources"})
	}
	if sources == nil {
		sources = []db.SourceCount{}
	}
	return c.JSON(http.StatusOK, sources)
}

func (s *Server) handleGetStats(c echo.Context) error {
	stats, err := s.Store.GetStats(c.Request().Context())
	if err != nil {
		log.Printf("get stats failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load stats"})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleListDonors(c echo.Context) error {
	params := db.DonorListParams{
		Query:   c.QueryParam("q"),
		Type:    c.QueryParam("type"),
		Region:  c.QueryParam("region"),
		Country: c.QueryParam("country"),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Limit = v
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			params.Offset = v
		}
	}

	donors, err := s.Store.ListDonors(c.Request().Context(), params)
	if err != nil {
		log.Printf("list donors failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list donors"})
	}
	if donors == nil {
		donors = []models.Donor{}
	}
	return c.JSON(http.StatusOK, donors)
}

func (s *Server) handleGetDonor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid donor id"})
	}

	donor, err := s.Store.GetDonor(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "donor not found"})
	}
	return c.JSON(http.StatusOK, donor)
}

func (s *Server) handleUpsertDonor(c echo.Context) error {
	var donor models.Donor
	if err := c.Bind(&donor); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid donor payload"})
	}
	if strings.TrimSpace(donor.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "donor name is required"})
	}

	id, err := s.Store.UpsertDonor(c.Request().Context(), donor)
	if err != nil {
		log.Printf("upsert donor failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to save donor"})
	}
	return c.JSON(http.StatusOK, map[string]string{"id": id.String()})
}

type matchProfileRequest struct {
	Profile models.ConsumerProfile `json:"profile"`
	TopN    int                    `json:"top_n"`
}

func (s *Server) handleMatchProfile(c echo.Context) error {
	var req matchProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid profile payload"})
	}

	opps, err := s.Store.All(c.Request().Context())
	if err != nil {
		log.Printf("match profile: loading opportunities failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load opportunities"})
	}

	matches := match.RankForProfile(req.Profile, opps, req.TopN)
	if matches == nil {
		matches = []match.ProfileMatch{}
	}
	return c.JSON(http.StatusOK, matches)
}

type matchProposalRequest struct {
	Text string `json:"text"`
	TopN int    `json:"top_n"`
}

func (s *Server) handleMatchProposal(c echo.Context) error {
	var req matchProposalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid proposal payload"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "proposal text is required"})
	}

	opps, err := s.Store.All(c.Request().Context())
	if err != nil {
		log.Printf("match proposal: loading opportunities failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load opportunities"})
	}

	matches := match.RankForProposal(req.Text, opps, req.TopN)
	if matches == nil {
		matches = []match.ProposalMatch{}
	}
	return c.JSON(http.StatusOK, matches)
}

type matchDonorsRequest struct {
	OpportunityID string `json:"opportunity_id"`
	Domain        string `json:"domain"` // research, space, education, health, environment
	Save          bool   `json:"save"`
}

func (s *Server) handleMatchDonors(c echo.Context) error {
	var req matchDonorsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	oppID, err := uuid.Parse(req.OpportunityID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid opportunity id"})
	}

	ctx := c.Request().Context()
	opp, err := s.Store.GetByID(ctx, oppID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "opportunity not found"})
	}

	donors, err := s.Store.AllDonors(ctx)
	if err != nil {
		log.Printf("match donors: loading donors failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load donors"})
	}

	matches := match.MatchDonors(opp.Keywords, req.Domain, donors)

	if req.Save {
		records := match.DonorMatchRecords(opp.ID, matches)
		if err := s.Store.SaveOpportunityMatches(ctx, models.SubjectDonor, opp.ID, records); err != nil {
			log.Printf("match donors: saving matches failed: %v", err)
		}
	}

	if matches == nil {
		matches = []match.DonorMatch{}
	}
	return c.JSON(http.StatusOK, matches)
}

func (s *Server) handleListMatches(c echo.Context) error {
	kind := c.Param("kind")
	switch kind {
	case models.SubjectProfile, models.SubjectProposal, models.SubjectDonor:
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown match kind"})
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	matches, err := s.Store.ListMatches(c.Request().Context(), kind, c.Param("subject"), limit)
	if err != nil {
		log.Printf("list matches failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list matches"})
	}
	if matches == nil {
		matches = []models.Match{}
	}
	return c.JSON(http.StatusOK, matches)
}

func (s *Server) handleDiscoverAll(c echo.Context) error {
	s.jobMu.Lock()
	if s.runningJob != nil && s.runningJob.Status == "running" {
		job := s.runningJob
		s.jobMu.Unlock()
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error":  "A discovery job is already running",
			"job_id": job.ID,
		})
	}

	// context.WithoutCancel detaches from HTTP lifecycle but preserves
	// trace values. We add our own timeout for safety.
	jobCtx, jobCancel := context.WithTimeout(
		context.WithoutCancel(c.Request().Context()), 30*time.Minute,
	)

	jobID := uuid.New().String()[:8]
	job := &backgroundJob{
		ID:        jobID,
		Status:    "running",
		StartedAt: time.Now(),
		Cancel:    jobCancel,
	}
	s.runningJob = job
	s.jobMu.Unlock()

	go func() {
		defer jobCancel()

		started := time.Now()
		runner := discover.NewRunner(s.Store, s.Registry)
		stats, err := runner.DiscoverAll(jobCtx)
		finished := time.Now()

		if recErr := s.recordRun(jobCtx, started, finished, stats); recErr != nil {
			log.Printf("[discover-job %s] recording run failed: %v", jobID, recErr)
		}

		s.jobMu.Lock()
		defer s.jobMu.Unlock()
		job.EndedAt = finished
		if err != nil {
			job.Status = "failed"
			job.Error = err.Error()
			job.Result = stats
			log.Printf("[discover-job %s] cut short: %v", jobID, err)
			return
		}
		job.Status = "completed"
		job.Result = stats
		log.Printf("[discover-job %s] completed: found=%d saved=%d errors=%d", jobID, stats.Found, stats.Saved, stats.Errors)
	}()

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "Discovery job started",
		"job_id":  jobID,
		"poll":    fmt.Sprintf("/api/v1/admin/job/%s", jobID),
	})
}

func (s *Server) recordRun(ctx context.Context, started, finished time.Time, stats discover.DiscoveryStats) error {
	sources, err := json.Marshal(stats.Sources)
	if err != nil {
		return err
	}
	_, err = s.Store.RecordRun(ctx, db.DiscoveryRun{
		StartedAt:  started,
		FinishedAt: finished,
		Found:      stats.Found,
		Saved:      stats.Saved,
		Rejected:   stats.Rejected,
		Errors:     stats.Errors,
		Sources:    sources,
	})
	return err
}

func (s *Server) handleDiscoverSource(c echo.Context) error {
	cfg, err := s.Registry.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	runner := discover.NewRunner(s.Store, s.Registry)
	stats := runner.DiscoverSource(c.Request().Context(), cfg)
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleJobStatus(c echo.Context) error {
	queried := c.Param("id")
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	job := s.runningJob
	if job == nil || job.ID != queried {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}

	resp := map[string]interface{}{
		"id":         job.ID,
		"status":     job.Status,
		"started_at": job.StartedAt,
	}
	if !job.EndedAt.IsZero() {
		resp["ended_at"] = job.EndedAt
		resp["duration"] = job.EndedAt.Sub(job.StartedAt).String()
	}
	if job.Result != nil {
		resp["result"] = job.Result
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRecentRuns(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	runs, err := s.Store.RecentRuns(c.Request().Context(), limit)
	if err != nil {
		log.Printf("recent runs failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list runs"})
	}
	if runs == nil {
		runs = []db.DiscoveryRun{}
	}
	return c.JSON(http.StatusOK, runs)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
