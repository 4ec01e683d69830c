package handlers

import (
	"net/http"

	"github.com/silverbeer/swimcuttimes/middleware"
	"github.com/silverbeer/swimcuttimes/services"
)

type FollowHandler struct {
	followService services.FollowService
}

func NewFollowHandler(followService services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	swimmerID, err := getIDFromURL(r, "swimmerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	follow, err := h.followService.Follow(r.Context(), userID, swimmerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"follow": follow}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	swimmerID, err := getIDFromURL(r, "swimmerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.followService.Unfollow(r.Context(), userID, swimmerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FollowHandler) Following(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	swimmers, err := h.followService.Following(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"swimmers": swimmers}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
