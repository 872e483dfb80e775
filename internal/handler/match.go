package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cargoexchange/internal/domain"
	"cargoexchange/internal/service"
)

// MatchHandler handles HTTP requests for cargo matches.
type MatchHandler struct {
	matchingService *service.MatchingService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matchingService *service.MatchingService) *MatchHandler {
	return &MatchHandler{matchingService: matchingService}
}

// CargoDetails is the per-listing summary embedded in a match.
type CargoDetails struct {
	Type       string         `json:"type"`
	Weight     float64        `json:"weight"`
	PickupDate time.Time      `json:"pickup_date"`
	User       *OwnerResponse `json:"user"`
}

// MatchResponse is the HTTP representation of a match candidate.
type MatchResponse struct {
	ID                 int                 `json:"id"`
	Cargo1ID           string              `json:"cargo1_id"`
	Cargo2ID           string              `json:"cargo2_id"`
	Cargo1Route        string              `json:"cargo1_route"`
	Cargo2Route        string              `json:"cargo2_route"`
	ExchangePoint      string              `json:"exchange_point"`
	Distance           int                 `json:"distance"`
	Coordinates        *domain.Coordinates `json:"coordinates,omitempty"`
	CostSavings        int                 `json:"cost_savings"`
	CompatibilityScore int                 `json:"compatibility_score"`
	Status             string              `json:"status"`
	Cargo1Details      CargoDetails        `json:"cargo1_details"`
	Cargo2Details      CargoDetails        `json:"cargo2_details"`
}

// FindMatchesResponse is the HTTP response for a match count run.
type FindMatchesResponse struct {
	Message      string `json:"message"`
	MatchesFound int    `json:"matches_found"`
	TotalCargo   int    `json:"total_cargo"`
}

// AcceptMatchRequest is the HTTP request body for accepting a pair.
type AcceptMatchRequest struct {
	Cargo1ID string `json:"cargo1_id"`
	Cargo2ID string `json:"cargo2_id"`
}

// AcceptMatchResponse is the HTTP response for an accepted pair.
type AcceptMatchResponse struct {
	Message string        `json:"message"`
	MatchID string        `json:"match_id"`
	Match   MatchResponse `json:"match"`
}

// AcceptedMatchResponse is the HTTP representation of a stored match.
type AcceptedMatchResponse struct {
	ID                 string    `json:"id"`
	Cargo1ID           string    `json:"cargo1_id"`
	Cargo2ID           string    `json:"cargo2_id"`
	ExchangePoint      string    `json:"exchange_point"`
	CostSavings        float64   `json:"cost_savings"`
	CompatibilityScore int       `json:"compatibility_score"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

// List handles GET /v1/matches
func (h *MatchHandler) List(c *gin.Context) {
	candidates, err := h.matchingService.FindMatches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MatchResponse, 0, len(candidates))
	for _, m := range candidates {
		response = append(response, toMatchResponse(m))
	}

	respondJSON(c, http.StatusOK, response)
}

// Find handles POST /v1/matches/find
func (h *MatchHandler) Find(c *gin.Context) {
	summary, err := h.matchingService.CountMatches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, FindMatchesResponse{
		Message:      fmt.Sprintf("Found %d new matches!", summary.MatchesFound),
		MatchesFound: summary.MatchesFound,
		TotalCargo:   summary.TotalCargo,
	})
}

// Accept handles POST /v1/matches/accept
func (h *MatchHandler) Accept(c *gin.Context) {
	var req AcceptMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.matchingService.AcceptMatch(c.Request.Context(), service.AcceptMatchRequest{
		Listing1ID: req.Cargo1ID,
		Listing2ID: req.Cargo2ID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, AcceptMatchResponse{
		Message: "Match accepted successfully",
		MatchID: result.Match.ID,
		Match:   toMatchResponse(result.Candidate),
	})
}

// Get handles GET /v1/matches/:id
func (h *MatchHandler) Get(c *gin.Context) {
	match, err := h.matchingService.GetMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AcceptedMatchResponse{
		ID:                 match.ID,
		Cargo1ID:           match.Listing1ID,
		Cargo2ID:           match.Listing2ID,
		ExchangePoint:      match.ExchangePoint,
		CostSavings:        match.CostSavings,
		CompatibilityScore: match.CompatibilityScore,
		Status:             string(match.Status),
		CreatedAt:          match.CreatedAt,
	})
}

func toMatchResponse(m *domain.MatchCandidate) MatchResponse {
	return MatchResponse{
		ID:                 m.ID,
		Cargo1ID:           m.Listing1.ID,
		Cargo2ID:           m.Listing2.ID,
		Cargo1Route:        m.Listing1Route,
		Cargo2Route:        m.Listing2Route,
		ExchangePoint:      m.ExchangePoint,
		Distance:           m.Distance,
		Coordinates:        m.Coordinates,
		CostSavings:        m.CostSavings,
		CompatibilityScore: m.CompatibilityScore,
		Status:             string(m.Status),
		Cargo1Details:      toCargoDetails(m.Listing1),
		Cargo2Details:      toCargoDetails(m.Listing2),
	}
}

func toCargoDetails(l *domain.CargoListing) CargoDetails {
	return CargoDetails{
		Type:       string(l.CargoType),
		Weight:     l.Weight,
		PickupDate: l.PickupDate,
		User:       toOwnerResponse(l.Owner),
	}
}
