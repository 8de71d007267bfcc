package handlers

import (
	"taskflow/config"
	"taskflow/gcal"
)

// Handler carries the dependencies shared by every endpoint. Calendar may be
// nil when sync is not configured.
type Handler struct {
	Store    *config.Store
	Calendar *gcal.Client
}

func New(store *config.Store, calendar *gcal.Client) *Handler {
	return &Handler{Store: store, Calendar: calendar}
}
