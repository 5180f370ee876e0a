package api

import (
	"net/http"
	"strings"

	"github.com/okian/travrank/internal/domain/model"
)

// DriversDependencies lists reference drivers.
type DriversDependencies interface {
	Drivers() []model.Driver
	Driver(name string) model.Driver
}

// DriversHandler handles driver listing requests.
type DriversHandler struct {
	deps DriversDependencies
}

// NewDriversHandler creates a new drivers handler.
func NewDriversHandler(deps DriversDependencies) *DriversHandler {
	return &DriversHandler{deps: deps}
}

// HandleDrivers handles GET /drivers requests. With ?name= it returns that
// one driver, falling back to the default rating for unknown names.
func (h *DriversHandler) HandleDrivers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		writeJSON(w, http.StatusOK, h.deps.Driver(name))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Drivers())
}
