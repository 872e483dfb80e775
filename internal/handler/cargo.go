package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cargoexchange/internal/domain"
	"cargoexchange/internal/service"
)

// dateLayouts are the accepted forms for pickup and delivery dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// CargoHandler handles HTTP requests for cargo listings.
type CargoHandler struct {
	cargoService    *service.CargoService
	matchingService *service.MatchingService
}

// NewCargoHandler creates a new CargoHandler.
func NewCargoHandler(cargoService *service.CargoService, matchingService *service.MatchingService) *CargoHandler {
	return &CargoHandler{
		cargoService:    cargoService,
		matchingService: matchingService,
	}
}

// CreateCargoRequest is the HTTP request body for posting a listing.
type CreateCargoRequest struct {
	UserID              string              `json:"user_id"`
	CargoType           string              `json:"cargo_type"`
	Origin              string              `json:"origin"`
	Destination         string              `json:"destination"`
	OriginCoords        *domain.Coordinates `json:"origin_coords,omitempty"`
	DestinationCoords   *domain.Coordinates `json:"destination_coords,omitempty"`
	Weight              float64             `json:"weight"`
	Volume              float64             `json:"volume,omitempty"`
	SpecialRequirements string              `json:"special_requirements,omitempty"`
	Budget              float64             `json:"budget"`
	PickupDate          string              `json:"pickup_date"`
	DeliveryDate        string              `json:"delivery_date"`
	Priority            string              `json:"priority,omitempty"` // low, medium, high, urgent
}

// CargoResponse is the HTTP representation of a listing.
type CargoResponse struct {
	ID                  string              `json:"id"`
	UserID              string              `json:"user_id"`
	CargoType           string              `json:"cargo_type"`
	Origin              string              `json:"origin"`
	Destination         string              `json:"destination"`
	OriginCoords        *domain.Coordinates `json:"origin_coords,omitempty"`
	DestinationCoords   *domain.Coordinates `json:"destination_coords,omitempty"`
	Weight              float64             `json:"weight"`
	Volume              float64             `json:"volume"`
	SpecialRequirements string              `json:"special_requirements"`
	Budget              float64             `json:"budget"`
	PickupDate          time.Time           `json:"pickup_date"`
	DeliveryDate        time.Time           `json:"delivery_date"`
	Status              string              `json:"status"`
	Priority            string              `json:"priority"`
	CreatedAt           time.Time           `json:"created_at"`
	User                *OwnerResponse      `json:"user,omitempty"`
}

// OwnerResponse is the owning-user summary embedded in listings and matches.
type OwnerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// CreateCargoResponse is the HTTP response for a created listing.
type CreateCargoResponse struct {
	Message string        `json:"message"`
	Cargo   CargoResponse `json:"cargo"`
}

// Create handles POST /v1/cargo
func (h *CargoHandler) Create(c *gin.Context) {
	var req CreateCargoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	pickup, ok := parseDate(req.PickupDate)
	if !ok {
		respondError(c, service.ErrInvalidSchedule)
		return
	}
	delivery, ok := parseDate(req.DeliveryDate)
	if !ok {
		respondError(c, service.ErrInvalidSchedule)
		return
	}

	listing, err := h.cargoService.CreateListing(c.Request.Context(), service.CreateListingRequest{
		UserID:              req.UserID,
		CargoType:           domain.CargoType(req.CargoType),
		Origin:              req.Origin,
		Destination:         req.Destination,
		OriginCoords:        req.OriginCoords,
		DestinationCoords:   req.DestinationCoords,
		Weight:              req.Weight,
		Volume:              req.Volume,
		SpecialRequirements: req.SpecialRequirements,
		Budget:              req.Budget,
		PickupDate:          pickup,
		DeliveryDate:        delivery,
		Priority:            domain.CargoPriority(req.Priority),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CreateCargoResponse{
		Message: "Cargo listing created successfully",
		Cargo:   toCargoResponse(listing),
	})
}

// List handles GET /v1/cargo
func (h *CargoHandler) List(c *gin.Context) {
	listings, err := h.cargoService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCargoResponses(listings))
}

// Get handles GET /v1/cargo/:id
func (h *CargoHandler) Get(c *gin.Context) {
	listing, err := h.cargoService.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCargoResponse(listing))
}

// Counterparts handles GET /v1/cargo/:id/matches
func (h *CargoHandler) Counterparts(c *gin.Context) {
	listings, err := h.matchingService.CounterpartsFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCargoResponses(listings))
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toCargoResponses(listings []*domain.CargoListing) []CargoResponse {
	response := make([]CargoResponse, 0, len(listings))
	for _, l := range listings {
		response = append(response, toCargoResponse(l))
	}
	return response
}

func toCargoResponse(l *domain.CargoListing) CargoResponse {
	return CargoResponse{
		ID:                  l.ID,
		UserID:              l.UserID,
		CargoType:           string(l.CargoType),
		Origin:              l.Origin,
		Destination:         l.Destination,
		OriginCoords:        l.OriginCoords,
		DestinationCoords:   l.DestinationCoords,
		Weight:              l.Weight,
		Volume:              l.Volume,
		SpecialRequirements: l.SpecialRequirements,
		Budget:              l.Budget,
		PickupDate:          l.PickupDate,
		DeliveryDate:        l.DeliveryDate,
		Status:              string(l.Status),
		Priority:            string(l.Priority),
		CreatedAt:           l.CreatedAt,
		User:                toOwnerResponse(l.Owner),
	}
}

func toOwnerResponse(u *domain.User) *OwnerResponse {
	if u == nil {
		return nil
	}
	return &OwnerResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Company: u.Company,
	}
}
