package model

// StateKey is the fixed key the application state is persisted under
const StateKey = "app"

// AppState is the whole persisted application: display flags, the current
// request, history, saved requests and the certificate configuration.
type AppState struct {
	DarkMode              bool        `json:"is_dark_mode"`
	MenuMinimised         bool        `json:"menu_minimised"`
	RequestPanelMinimised bool        `json:"request_panel_minimised"`
	HistoryPanelMinimised bool        `json:"history_panel_minimised"`
	Request               Request     `json:"request"`
	History               []Request   `json:"history"`
	SavedRequests         []Request   `json:"saved_requests"`
	Certificate           Certificate `json:"certificate"`
}

// DefaultAppState mirrors a first launch
func DefaultAppState() *AppState {
	return &AppState{
		HistoryPanelMinimised: true,
		History:               []Request{},
		SavedRequests:         []Request{},
	}
}

// Normalize repairs state restored from storage. Nothing can be in flight at
// startup, so a pending request goes back to unsent.
func (s *AppState) Normalize() {
	if s.History == nil {
		s.History = []Request{}
	}
	if s.SavedRequests == nil {
		s.SavedRequests = []Request{}
	}
	if s.Request.Event == EventPending {
		s.Request.Event = EventUnsent
	}
	s.Certificate.Identity = nil
}
