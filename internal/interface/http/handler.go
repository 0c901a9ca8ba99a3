package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"crewlog-service/internal/domain/entity"
	"crewlog-service/internal/usecase"
	"crewlog-service/pkg/logger"
)

// RosterService is the pipeline surface the HTTP boundary depends on.
type RosterService interface {
	ProcessRoster(ctx context.Context, req usecase.ProcessRequest) (*usecase.ProcessResult, error)
	GetUpload(ctx context.Context, userID, uploadID string) (*entity.RosterUpload, error)
	ListLogbook(ctx context.Context, userID string, month, year int) ([]*entity.LogbookEntry, error)
}

// Handler exposes the roster pipeline over HTTP.
type Handler struct {
	svc            RosterService
	logger         logger.Logger
	maxUploadBytes int64
}

func NewHandler(svc RosterService, log logger.Logger, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 15 * 1024 * 1024
	}
	return &Handler{svc: svc, logger: log, maxUploadBytes: maxUploadBytes}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1", AuthMiddleware())
	api.POST("/rosters", h.UploadRoster)
	api.GET("/rosters/:id", h.GetUpload)
	api.GET("/logbook", h.ListLogbook)

	return r
}

// UploadRoster accepts one roster document and runs the extraction pipeline
// synchronously; the response reports the terminal outcome of the attempt.
func (h *Handler) UploadRoster(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a roster document is required in the 'file' field"})
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the upload size limit"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer f.Close()
	document, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}

	mediaType := fileHeader.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = c.PostForm("media_type")
	}
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}

	month, _ := strconv.Atoi(c.PostForm("month"))
	year, _ := strconv.Atoi(c.PostForm("year"))

	res, err := h.svc.ProcessRoster(c.Request.Context(), usecase.ProcessRequest{
		UserID:    UserID(c),
		FileName:  fileHeader.Filename,
		MediaType: mediaType,
		Document:  document,
		Month:     month,
		Year:      year,
	})
	if err != nil {
		h.writeProcessError(c, res, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) writeProcessError(c *gin.Context, res *usecase.ProcessResult, err error) {
	uploadID := ""
	if res != nil {
		uploadID = res.UploadID
	}

	var (
		normErr   *entity.NormalizationError
		schemaErr *entity.SchemaError
		callErr   *entity.ExtractionCallError
		persErr   *entity.PersistenceError
	)
	switch {
	case errors.Is(err, entity.ErrUnsupportedMediaType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported media type; use JPEG, PNG, WebP or PDF"})
	case errors.As(err, &normErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"upload_id": uploadID,
			"status":    entity.UploadStatusFailed,
			"error":     "could not read the roster; the image may be too unclear",
			"raw_text":  normErr.RawText,
		})
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"upload_id": uploadID,
			"status":    entity.UploadStatusFailed,
			"error":     "the extracted data did not look like a crew roster",
			"raw_text":  schemaErr.RawText,
		})
	case errors.As(err, &callErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"upload_id": uploadID,
			"status":    entity.UploadStatusFailed,
			"error":     "the extraction service could not process this document; please retry",
		})
	case errors.As(err, &persErr):
		h.logger.Error("Roster processing persistence failure", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		h.logger.Error("Roster processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type uploadResponse struct {
	ID           string    `json:"id"`
	FileName     string    `json:"file_name"`
	FileKind     string    `json:"file_kind"`
	Status       string    `json:"status"`
	Month        int       `json:"month"`
	Year         int       `json:"year"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GetUpload returns one upload record for the authenticated user.
func (h *Handler) GetUpload(c *gin.Context) {
	upload, err := h.svc.GetUpload(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
			return
		}
		h.logger.Error("Failed to load upload", "upload_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, uploadResponse{
		ID:           upload.ID,
		FileName:     upload.FileName,
		FileKind:     upload.FileKind,
		Status:       upload.Status,
		Month:        upload.Month,
		Year:         upload.Year,
		ErrorMessage: upload.ErrorMessage,
		CreatedAt:    upload.CreatedAt,
		UpdatedAt:    upload.UpdatedAt,
	})
}

type flightResponse struct {
	FlightNumber         *string  `json:"flight_number"`
	AircraftType         *string  `json:"aircraft_type"`
	AircraftRegistration *string  `json:"aircraft_registration"`
	Origin               string   `json:"origin"`
	Destination          string   `json:"destination"`
	STD                  *string  `json:"std"`
	STA                  *string  `json:"sta"`
	BlockHours           *float64 `json:"block_hours"`
	IsNight              bool     `json:"is_night"`
	SortOrder            int      `json:"sort_order"`
}

type logbookEntryResponse struct {
	ID           string           `json:"id"`
	Date         string           `json:"date"`
	ActivityType string           `json:"activity_type"`
	CheckIn      *string          `json:"check_in"`
	CheckOut     *string          `json:"check_out"`
	Hotel        *string          `json:"hotel"`
	Notes        *string          `json:"notes"`
	Captain      *string          `json:"captain"`
	FirstOfficer *string          `json:"first_officer"`
	Purser       *string          `json:"purser"`
	Flights      []flightResponse `json:"flights"`
}

// ListLogbook returns the authenticated user's logbook for one month.
func (h *Handler) ListLogbook(c *gin.Context) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month is required"})
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
		return
	}

	entries, err := h.svc.ListLogbook(c.Request.Context(), UserID(c), month, year)
	if err != nil {
		h.logger.Error("Failed to list logbook", "month", month, "year", year, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := make([]logbookEntryResponse, 0, len(entries))
	for _, e := range entries {
		er := logbookEntryResponse{
			ID:           e.ID,
			Date:         e.EntryDate.Format("2006-01-02"),
			ActivityType: e.ActivityType,
			CheckIn:      e.CheckIn,
			CheckOut:     e.CheckOut,
			Hotel:        e.Hotel,
			Notes:        e.Notes,
			Captain:      e.Captain,
			FirstOfficer: e.FirstOfficer,
			Purser:       e.Purser,
			Flights:      make([]flightResponse, 0, len(e.Flights)),
		}
		for _, f := range e.Flights {
			er.Flights = append(er.Flights, flightResponse{
				FlightNumber:         f.FlightNumber,
				AircraftType:         f.AircraftType,
				AircraftRegistration: f.AircraftRegistration,
				Origin:               f.Origin,
				Destination:          f.Destination,
				STD:                  f.STD,
				STA:                  f.STA,
				BlockHours:           f.BlockHours,
				IsNight:              f.IsNight,
				SortOrder:            f.SortOrder,
			})
		}
		out = append(out, er)
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}
