package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/bracket-builder/models"
	"github.com/Dosada05/bracket-builder/services"
)

const maxRosterBytes = 8 << 20

type EventHandler struct {
	importService   services.ImportService
	categoryService services.CategoryService
}

func NewEventHandler(importService services.ImportService, categoryService services.CategoryService) *EventHandler {
	return &EventHandler{
		importService:   importService,
		categoryService: categoryService,
	}
}

type importEventInput struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func isCSV(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && (mediaType == "text/csv" || mediaType == "application/csv")
}

// CreateHandler обрабатывает POST /events: JSON {"url": ...} scrapes a
// registration page, a text/csv body imports a roster spreadsheet.
func (h *EventHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var (
		event *models.Event
		err   error
	)
	if isCSV(r) {
		body := http.MaxBytesReader(w, r.Body, maxRosterBytes)
		event, err = h.importService.ImportFromCSV(r.Context(), r.URL.Query().Get("title"), body)
	} else {
		var input importEventInput
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		if strings.TrimSpace(input.URL) == "" {
			badRequestResponse(w, r, errors.New("url is required"))
			return
		}
		event, err = h.importService.ImportFromURL(r.Context(), input.URL, input.Title)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/events/"+strconv.Itoa(event.ID))
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": event}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler обрабатывает GET /events
func (h *EventHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.importService.ListEvents(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler обрабатывает GET /events/{eventID}
func (h *EventHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.importService.GetEvent(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CompetitorsHandler обрабатывает GET /events/{eventID}/competitors;
// ?format=csv downloads the roster spreadsheet.
func (h *EventHandler) CompetitorsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "json":
	case "csv":
		headers := make(http.Header)
		headers.Set("Content-Disposition", `attachment; filename="roster-`+strconv.Itoa(id)+`.csv"`)
		writeRendered(w, r, "text/csv; charset=utf-8", headers, func(out io.Writer) error {
			return h.importService.ExportRoster(r.Context(), id, out)
		})
		return
	default:
		badRequestResponse(w, r, errors.New("format must be json or csv"))
		return
	}

	roster, err := h.categoryService.Roster(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"competitors": roster}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReplaceCompetitorsHandler обрабатывает PUT /events/{eventID}/competitors
// with a text/csv body.
func (h *EventHandler) ReplaceCompetitorsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !isCSV(r) {
		errorResponse(w, r, http.StatusUnsupportedMediaType, "roster must be sent as text/csv")
		return
	}

	event, err := h.importService.ReplaceRoster(r.Context(), id, http.MaxBytesReader(w, r.Body, maxRosterBytes))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// OptionsHandler обрабатывает GET /events/{eventID}/options
func (h *EventHandler) OptionsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	opts, err := h.categoryService.Options(r.Context(), id, selectionFromQuery(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"options": opts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CategoriesHandler обрабатывает GET /events/{eventID}/categories
func (h *EventHandler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	categories, err := h.categoryService.Categories(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"categories": categories}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
