package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-reflections/internal/adapters/http/dto"
	"github.com/jsamuelsen/daily-reflections/internal/app"
	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

// ReflectionHandler serves read access to published reflections.
type ReflectionHandler struct {
	service *app.ReflectionService
}

// NewReflectionHandler creates a reflection handler.
func NewReflectionHandler(service *app.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{service: service}
}

// reflectionResponse is the wire shape of one published reflection.
type reflectionResponse struct {
	Date         string             `json:"date"`
	Quote        string             `json:"quote"`
	Attribution  string             `json:"attribution"`
	Theme        string             `json:"theme"`
	Reflection   string             `json:"reflection"`
	MonthlyTheme monthlyThemeDetail `json:"monthlyTheme"`
}

type monthlyThemeDetail struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toResponse(view app.ReflectionView) reflectionResponse {
	return reflectionResponse{
		Date:         view.Date.Format(domain.DateLayout),
		Quote:        view.Quote,
		Attribution:  view.Attribution,
		Theme:        view.Theme,
		Reflection:   view.Reflection,
		MonthlyTheme: monthlyThemeDetail{
			Name:        view.MonthlyTheme.Name,
			Description: view.MonthlyTheme.Description,
		},
	}
}

// ByDate handles GET /api/v1/reflections/:date. The literal "today" is
// accepted in place of a date; Gin's router cannot hold a static sibling
// next to the :date wildcard.
func (h *ReflectionHandler) ByDate(c *gin.Context) {
	param := c.Param("date")

	if param == "today" {
		view, err := h.service.Today(c.Request.Context())
		if err != nil {
			RespondWithError(c, err)

			return
		}

		c.JSON(http.StatusOK, toResponse(view))

		return
	}

	date, err := time.Parse(domain.DateLayout, param)
	if err != nil {
		RespondWithErrorCode(c, dto.ErrorCodeBadRequest,
			"date must be formatted as "+domain.DateLayout)

		return
	}

	view, err := h.service.ByDate(c.Request.Context(), date)
	if err != nil {
		RespondWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, toResponse(view))
}

// RegisterReflectionRoutes registers reflection routes on the group.
func (h *ReflectionHandler) RegisterReflectionRoutes(rg *gin.RouterGroup) {
	rg.GET("/reflections/:date", h.ByDate)
}
