package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/Dosada05/bracket-builder/brackets"
	"github.com/Dosada05/bracket-builder/export"
	"github.com/Dosada05/bracket-builder/models"
	"github.com/Dosada05/bracket-builder/services"
	"github.com/Dosada05/bracket-builder/utils"
)

type BracketHandler struct {
	bracketService services.BracketService
	importService  services.ImportService
	publishService services.PublishService
}

func NewBracketHandler(
	bracketService services.BracketService,
	importService services.ImportService,
	publishService services.PublishService,
) *BracketHandler {
	return &BracketHandler{
		bracketService: bracketService,
		importService:  importService,
		publishService: publishService,
	}
}

type adHocBracketInput struct {
	Category    string               `json:"category"`
	Policy      models.SeedingPolicy `json:"policy"`
	Competitors []adHocCompetitor    `json:"competitors"`
}

type adHocCompetitor struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

type categoryInput struct {
	Gender         string               `json:"gender"`
	Belt           string               `json:"belt"`
	AgeDivision    string               `json:"age_division"`
	WeightDivision string               `json:"weight_division"`
	Policy         models.SeedingPolicy `json:"policy"`
}

func (in categoryInput) selection() models.Selection {
	return utils.NormalizeSelection(models.Selection{
		Gender:         in.Gender,
		Belt:           in.Belt,
		AgeDivision:    in.AgeDivision,
		WeightDivision: in.WeightDivision,
	})
}

type publishInput struct {
	categoryInput
	Format string `json:"format"`
	Locale string `json:"locale"`
}

// GenerateFromListHandler обрабатывает POST /brackets
func (h *BracketHandler) GenerateFromListHandler(w http.ResponseWriter, r *http.Request) {
	var input adHocBracketInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competitors := make([]*models.Competitor, len(input.Competitors))
	for i, c := range input.Competitors {
		competitors[i] = &models.Competitor{Name: strings.TrimSpace(c.Name), Team: strings.TrimSpace(c.Team)}
	}

	b, err := h.bracketService.GenerateFromList(r.Context(), input.Category, competitors, input.Policy)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": b}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateHandler обрабатывает GET /events/{eventID}/bracket
func (h *BracketHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	query := r.URL.Query()
	format, err := services.ParseExportFormat(query.Get("format"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	b, err := h.bracketService.Generate(r.Context(), id, selectionFromQuery(r), models.SeedingPolicy(query.Get("policy")))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if format == services.FormatJSON {
		if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": b}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	opts := export.RenderOptions{Locale: localeFromRequest(r)}
	if format == services.FormatHTML {
		event, err := h.importService.GetEvent(r.Context(), id)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		opts.Title = event.Title
	}

	var headers http.Header
	if format == services.FormatCSV {
		headers = make(http.Header)
		headers.Set("Content-Disposition", `attachment; filename="`+utils.Slug(b.Category)+`.csv"`)
	}
	writeRendered(w, r, format.ContentType(), headers, func(out io.Writer) error {
		return services.RenderBracket(out, b, format, opts)
	})
}

// GenerateAllHandler обрабатывает GET /events/{eventID}/brackets
func (h *BracketHandler) GenerateAllHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	all, err := h.bracketService.GenerateAll(r.Context(), id, models.SeedingPolicy(r.URL.Query().Get("policy")))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if all == nil {
		all = []*brackets.Bracket{}
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"brackets": all}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PublishHandler обрабатывает POST /events/{eventID}/bracket/publish
func (h *BracketHandler) PublishHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input publishInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Format == "" {
		input.Format = string(services.FormatHTML)
	}
	format, err := services.ParseExportFormat(input.Format)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.publishService.Publish(r.Context(), services.PublishRequest{
		EventID:   id,
		Selection: input.selection(),
		Policy:    input.Policy,
		Format:    format,
		Locale:    export.MatchLocale(input.Locale, r.Header.Get("Accept-Language")),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"published": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DisplayHandler обрабатывает POST /events/{eventID}/bracket/display
func (h *BracketHandler) DisplayHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input categoryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	b, clients, err := h.bracketService.Display(r.Context(), id, input.selection(), input.Policy)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": b, "clients": clients}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
