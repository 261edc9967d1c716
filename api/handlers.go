package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portlens/scanner"
)

// Server bundles dependencies for HTTP handlers.
type Server struct {
	ctrl       *scanner.Controller
	summaryDir string
	logger     *slog.Logger
}

// NewServer creates a new API server instance.
func NewServer(ctrl *scanner.Controller, summaryDir string, logger *slog.Logger) *Server {
	return &Server{ctrl: ctrl, summaryDir: summaryDir, logger: logger}
}

// RegisterRoutes attaches handlers to the provided Gin router group.
func (s *Server) RegisterRoutes(routes gin.IRoutes) {
	routes.POST("/scans", s.startScanHandler)
	routes.GET("/scans/current", s.getScanHandler)
	routes.GET("/scans/current/events", s.getEventsHandler)
	routes.DELETE("/scans/current", s.cancelScanHandler)
	routes.POST("/scans/current/summary", s.saveSummaryHandler)
}

// @Summary      Start a scan
// @Description  Validates the target and port range and starts a TCP connect scan in the background. Only one scan runs at a time; a start while another scan is resolving or scanning is rejected with 409.
// @Tags         Scans
// @Accept       json
// @Produce      json
// @Param        scanRequest  body      StartScanRequest    true  "Target and inclusive port range"
// @Success      202          {object}  ScanStatusResponse  "Scan accepted. Poll GET /scans/current/events for results."
// @Failure      400          {object}  ErrorResponse       "Malformed JSON or invalid target/range."
// @Failure      401          {object}  ErrorResponse       "Missing or incorrect API key."
// @Failure      409          {object}  ErrorResponse       "A scan is already in progress."
// @Failure      429          {object}  ErrorResponse       "Rate limit exceeded."
// @Security     ApiKeyAuth
// @Router       /scans [post]
func (s *Server) startScanHandler(c *gin.Context) {
	var req StartScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request payload: %v", err)})
		return
	}

	scanReq, err := scanner.NewRequest(req.Host, req.StartPort, req.EndPort)
	if err != nil {
		writeError(c, err)
		return
	}

	run, err := s.ctrl.Start(c.Request.Context(), scanReq)
	if err != nil {
		writeError(c, err)
		return
	}
	s.logger.Info("scan accepted", "run_id", run.ID(), "host", scanReq.Host, "start_port", scanReq.Range.Start, "end_port", scanReq.Range.End)
	c.JSON(http.StatusAccepted, statusResponse(run))
}

// @Summary      Get the current scan
// @Description  Returns a snapshot of the most recent scan: lifecycle state, resolved address, open ports found so far and the "[ open / total ] ~ target" progress readout.
// @Tags         Scans
// @Produce      json
// @Success      200  {object}  ScanStatusResponse
// @Failure      401  {object}  ErrorResponse  "Missing or incorrect API key."
// @Failure      404  {object}  ErrorResponse  "No scan has been started."
// @Security     ApiKeyAuth
// @Router       /scans/current [get]
func (s *Server) getScanHandler(c *gin.Context) {
	run := s.ctrl.CurrentRun()
	if run == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no scan has been started"})
		return
	}
	c.JSON(http.StatusOK, statusResponse(run))
}

// @Summary      Poll scan events
// @Description  Returns every event emitted at or after offset, in emission order. Poll on a fixed interval and pass the returned next value as the following offset. finished is true once the terminal event has been returned.
// @Tags         Scans
// @Produce      json
// @Param        offset  query     int  false  "Number of events already consumed"  default(0)
// @Success      200     {object}  EventsResponse
// @Failure      400     {object}  ErrorResponse  "Invalid offset."
// @Failure      401     {object}  ErrorResponse  "Missing or incorrect API key."
// @Failure      404     {object}  ErrorResponse  "No scan has been started."
// @Security     ApiKeyAuth
// @Router       /scans/current/events [get]
func (s *Server) getEventsHandler(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "offset must be a non-negative integer", Field: "offset"})
		return
	}
	run := s.ctrl.CurrentRun()
	if run == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no scan has been started"})
		return
	}

	// Read finished before the log so a true value always comes with the terminal event.
	finished := run.Events().Finished()
	events := run.Events().Since(offset)
	if events == nil {
		events = []scanner.ResultEvent{}
	}
	c.JSON(http.StatusOK, EventsResponse{
		Events:   events,
		Next:     offset + len(events),
		Finished: finished,
	})
}

// @Summary      Cancel the current scan
// @Description  Stops scheduling further ports. Probes already connecting finish on their own timeout, after which the terminal "scan cancelled" event is emitted.
// @Tags         Scans
// @Produce      json
// @Success      202  {object}  ScanStatusResponse
// @Failure      401  {object}  ErrorResponse  "Missing or incorrect API key."
// @Failure      409  {object}  ErrorResponse  "No scan is in progress."
// @Security     ApiKeyAuth
// @Router       /scans/current [delete]
func (s *Server) cancelScanHandler(c *gin.Context) {
	if err := s.ctrl.Cancel(); err != nil {
		writeError(c, err)
		return
	}
	run := s.ctrl.CurrentRun()
	s.logger.Info("scan cancel requested", "run_id", run.ID())
	c.JSON(http.StatusAccepted, statusResponse(run))
}

// @Summary      Save a summary of the current scan
// @Description  Writes the header (target, resolved IP, port range) and the full event log to portscan-<target>.txt in the configured summary directory. With an empty log nothing is written and a warning is returned.
// @Tags         Scans
// @Produce      json
// @Success      200  {object}  SummaryResponse
// @Failure      401  {object}  ErrorResponse  "Missing or incorrect API key."
// @Failure      500  {object}  ErrorResponse  "The summary file could not be written."
// @Security     ApiKeyAuth
// @Router       /scans/current/summary [post]
func (s *Server) saveSummaryHandler(c *gin.Context) {
	path, err := s.ctrl.SaveSummary(s.summaryDir)
	if errors.Is(err, scanner.ErrNothingToSave) {
		c.JSON(http.StatusOK, SummaryResponse{Warning: err.Error()})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{Path: path})
}

func statusResponse(run *scanner.Run) ScanStatusResponse {
	progress := run.Progress()
	return ScanStatusResponse{
		Run:          run.Snapshot(),
		Progress:     progress,
		ProgressLine: progress.String(),
		Events:       run.Events().Len(),
	}
}

// writeError maps engine errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	var verr *scanner.ValidationError
	var ioErr *scanner.IOError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Reason, Field: verr.Field})
	case errors.Is(err, scanner.ErrScanInProgress), errors.Is(err, scanner.ErrNoActiveScan):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.As(err, &ioErr):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save summary"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
