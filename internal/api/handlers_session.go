// handlers_session.go - Session read and re-sort handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/parent-node-finder/backend/internal/parser"
)

// SessionHandlerImpl implements the SessionHandler interface
type SessionHandlerImpl struct {
	sessionMgr SessionManager
}

// NewSessionHandler creates a new session handler instance
func NewSessionHandler(sessionMgr SessionManager) SessionHandler {
	return &SessionHandlerImpl{sessionMgr: sessionMgr}
}

// HandleGetSession returns the session's current record set
func (h *SessionHandlerImpl) HandleGetSession(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	sess, ok := h.sessionMgr.Get(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	return respondSession(c, http.StatusOK, sess)
}

// HandleSortSession re-sorts the session's records (?key=signal|identifier)
func (h *SessionHandlerImpl) HandleSortSession(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	key, err := parser.ParseSortKey(c.QueryParam("key"))
	if err != nil {
		return NewValidationError("key")
	}

	sess, ok := h.sessionMgr.Resort(id, key)
	if !ok {
		return NewNotFoundError("session", id)
	}
	return respondSession(c, http.StatusOK, sess)
}

// HandleDeleteSession drops a session
func (h *SessionHandlerImpl) HandleDeleteSession(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.sessionMgr.Delete(id) {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleSessionKeepAlive marks a session as in use so cleanup keeps it
func (h *SessionHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.sessionMgr.TouchSession(id) {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
