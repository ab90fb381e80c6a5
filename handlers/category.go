package handlers

import (
	"net/http"

	"github.com/jhansigoday/bookbridge/models"
	"github.com/jhansigoday/bookbridge/utils"
)

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// GetCategories serves the fixed vocabularies the donation form and catalog
// filters are built from.
func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string][]string{
		"categories":    models.Categories,
		"conditions":    models.Conditions,
		"sharing_types": models.SharingTypes,
	})
}
