package dto

import (
	"time"

	"college-library/internal/model"
)

type RequestExtensionInput struct {
	Reason        string `json:"reason" binding:"required"`
	RequestedDays int    `json:"requested_days" binding:"required,min=1,max=14"`
}

type DecideExtensionInput struct {
	Action        string `json:"action" binding:"required,oneof=approve reject"`
	AdminResponse string `json:"admin_response"`
}

// ExtensionView adds the read-time status-expiry flag.
type ExtensionView struct {
	*model.ExtensionRequest
	IsStatusExpired bool `json:"is_status_expired"`
}

func NewExtensionView(req *model.ExtensionRequest, now time.Time) ExtensionView {
	return ExtensionView{
		ExtensionRequest: req,
		IsStatusExpired:  req.IsStatusExpired(now),
	}
}

func NewExtensionViews(reqs []*model.ExtensionRequest, now time.Time) []ExtensionView {
	views := make([]ExtensionView, len(reqs))
	for i, req := range reqs {
		views[i] = NewExtensionView(req, now)
	}
	return views
}
