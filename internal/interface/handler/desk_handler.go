package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/interface/notice"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// DeskHandler exposes a flight desk over JSON
type DeskHandler struct {
	desk    *usecase.FlightDesk
	session *usecase.SessionStore
	board   *notice.Board
	logger  logger.Logger
}

// NewDeskHandler creates a new desk handler
func NewDeskHandler(desk *usecase.FlightDesk, session *usecase.SessionStore, board *notice.Board, logger logger.Logger) *DeskHandler {
	return &DeskHandler{
		desk:    desk,
		session: session,
		board:   board,
		logger:  logger,
	}
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrUnknownAirport), errors.Is(err, entity.ErrPageOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrMissingSelection), errors.Is(err, entity.ErrMissingDepartureTime):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrInvalidTransition), errors.Is(err, entity.ErrReservationInProgress):
		return http.StatusConflict
	case errors.Is(err, entity.ErrNoFlightsFound):
		return http.StatusOK
	case errors.Is(err, entity.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrSearchFailed), errors.Is(err, entity.ErrReservationFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *DeskHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *DeskHandler) field(c *gin.Context) (*usecase.SuggestionFetcher, bool) {
	f, err := h.desk.Field(entity.Field(c.Param("side")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return f, true
}

// SetFieldText records an edit of an airport input
func (h *DeskHandler) SetFieldText(c *gin.Context) {
	f, ok := h.field(c)
	if !ok {
		return
	}
	var input struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	f.Input(input.Text)
	c.JSON(http.StatusAccepted, f.Snapshot())
}

// GetField returns the state of an airport input
func (h *DeskHandler) GetField(c *gin.Context) {
	f, ok := h.field(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, f.Snapshot())
}

// SelectAirport picks one of the current suggestions
func (h *DeskHandler) SelectAirport(c *gin.Context) {
	f, ok := h.field(c)
	if !ok {
		return
	}
	var input struct {
		AirportID int64 `json:"airportId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if _, err := f.Select(input.AirportID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f.Snapshot())
}

// DismissSuggestions closes the suggestion list of an input
func (h *DeskHandler) DismissSuggestions(c *gin.Context) {
	f, ok := h.field(c)
	if !ok {
		return
	}
	f.Dismiss()
	c.JSON(http.StatusOK, f.Snapshot())
}

// Search runs a flight search with the submitted passengers and time
func (h *DeskHandler) Search(c *gin.Context) {
	var input struct {
		Adults        string    `json:"adults"`
		Children      string    `json:"children"`
		Babies        string    `json:"babies"`
		DepartureTime time.Time `json:"departureTime"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	h.desk.SetPassengers(entity.ParsePassengerCounts(input.Adults, input.Children, input.Babies))
	h.desk.SetDepartureTime(input.DepartureTime)

	set, err := h.desk.Search(c.Request.Context())
	if errors.Is(err, entity.ErrNoFlightsFound) {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"found":    true,
		"carriers": set.Carriers,
		"total":    set.Len(),
		"price":    set.Price,
	})
}

// Results returns one page of the current results
func (h *DeskHandler) Results(c *gin.Context) {
	n := 0
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
			return
		}
		n = v
	}

	page, err := h.desk.Results(n)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// NextPage moves to the following page of results
func (h *DeskHandler) NextPage(c *gin.Context) {
	page, err := h.desk.NextPage()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// PrevPage moves to the previous page of results
func (h *DeskHandler) PrevPage(c *gin.Context) {
	page, err := h.desk.PrevPage()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SelectFlight opens the reservation confirmation for one listed flight
func (h *DeskHandler) SelectFlight(c *gin.Context) {
	var input struct {
		Page  int `json:"page" binding:"required,min=1"`
		Index int `json:"index" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	segment, err := h.desk.SelectFlight(input.Page, input.Index)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.desk.Reservation().State(), "flight": segment})
}

// CancelReservation closes the confirmation
func (h *DeskHandler) CancelReservation(c *gin.Context) {
	if err := h.desk.CancelReservation(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.desk.Reservation().State()})
}

// ConfirmReservation submits the pending reservation
func (h *DeskHandler) ConfirmReservation(c *gin.Context) {
	reservation, err := h.desk.ConfirmReservation(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// GetReservation returns the workflow state and the pending flight
func (h *DeskHandler) GetReservation(c *gin.Context) {
	w := h.desk.Reservation()
	c.JSON(http.StatusOK, gin.H{"state": w.State(), "busy": w.Busy(), "flight": w.Pending()})
}

// ListReservations returns the ledger
func (h *DeskHandler) ListReservations(c *gin.Context) {
	c.JSON(http.StatusOK, h.desk.Reservations())
}

// DrainNotices returns and clears the pending notices
func (h *DeskHandler) DrainNotices(c *gin.Context) {
	c.JSON(http.StatusOK, h.board.Drain())
}

// Login stores a token and profile issued elsewhere
func (h *DeskHandler) Login(c *gin.Context) {
	var input struct {
		AccessToken string      `json:"accessToken" binding:"required"`
		User        entity.User `json:"user"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.session.SaveLogin(c.Request.Context(), input.AccessToken, input.User); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

// Logout forgets the stored token and profile
func (h *DeskHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

// Reload resets the search form and results
func (h *DeskHandler) Reload(c *gin.Context) {
	h.desk.Reload(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"reloaded": true})
}
