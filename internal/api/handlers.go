package api

import (
	"net/http"

	"github.com/todmy/hamster-court/internal/dispute"
	"github.com/todmy/hamster-court/pkg/models"
)

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"ai_available": s.resolver.AIAvailable(),
	})
}

// handlePersonalityTypes lists the accepted MBTI codes plus unspecified
func (s *Server) handlePersonalityTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, personalityCatalogue())
}

func personalityCatalogue() []models.PersonalityType {
	catalogue := make([]models.PersonalityType, 0, len(dispute.PersonalityTypes)+1)
	for _, p := range dispute.PersonalityTypes {
		catalogue = append(catalogue, models.PersonalityType{
			Code:  p.String(),
			Label: p.String() + " " + p.Nickname(),
		})
	}
	catalogue = append(catalogue, models.PersonalityType{
		Code:  dispute.UnspecifiedLabel,
		Label: dispute.Unspecified.Nickname(),
	})
	return catalogue
}
