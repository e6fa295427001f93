// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/parent-node-finder/backend/internal/models"
)

// ProcessHandler runs the parsing engine over uploaded or stored logs
type ProcessHandler interface {
	HandleProcess(c echo.Context) error
	HandleParseStored(c echo.Context) error
	HandleGetModes(c echo.Context) error
	HandleGetRootProfiles(c echo.Context) error
}

// SessionHandler serves and re-sorts the record set of a session
type SessionHandler interface {
	HandleGetSession(c echo.Context) error
	HandleSortSession(c echo.Context) error
	HandleDeleteSession(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
}

// FileHandler handles stored log files
type FileHandler interface {
	HandleUploadFile(c echo.Context) error
	HandleGetRecentFiles(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
}

// DocsHandler serves the project documentation
type DocsHandler interface {
	HandleDocs(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SessionManager defines the interface for session management
// This allows mocking in tests
type SessionManager interface {
	Create(sess models.ReportSession, result models.Result) models.ReportSession
	Get(id string) (models.ReportSession, bool)
	Resort(id string, key models.SortKey) (models.ReportSession, bool)
	TouchSession(id string) bool
	Delete(id string) bool
	Len() int
}
