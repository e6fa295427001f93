// handlers_process.go - Parse operations over uploaded and stored logs
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/parent-node-finder/backend/internal/logger"
	"github.com/parent-node-finder/backend/internal/models"
	"github.com/parent-node-finder/backend/internal/parser"
	"github.com/parent-node-finder/backend/internal/storage"
	"github.com/rs/zerolog"
)

// ProcessHandlerImpl implements the ProcessHandler interface
type ProcessHandlerImpl struct {
	engine      *parser.Engine
	registry    *parser.Registry
	store       storage.Store
	sessionMgr  SessionManager
	profiles    *models.RootProfiles
	defaultMode models.Mode
	maxBytes    int64
	log         zerolog.Logger
}

// ProcessOptions configures a ProcessHandler.
type ProcessOptions struct {
	Registry    *parser.Registry
	Profiles    *models.RootProfiles
	DefaultMode models.Mode
	// MaxBytes bounds the decompressed size of a /api/process upload.
	// Zero means unbounded.
	MaxBytes int64
}

// NewProcessHandler creates a new process handler instance
func NewProcessHandler(store storage.Store, sessionMgr SessionManager, opts ProcessOptions) ProcessHandler {
	if opts.Registry == nil {
		opts.Registry = parser.GetGlobalRegistry()
	}
	if opts.DefaultMode == "" {
		opts.DefaultMode = models.ModeSnapshot
	}
	if opts.Profiles == nil {
		opts.Profiles = &models.RootProfiles{Profiles: []models.RootProfile{}}
	}
	return &ProcessHandlerImpl{
		engine:      parser.NewEngine(opts.Registry),
		registry:    opts.Registry,
		store:       store,
		sessionMgr:  sessionMgr,
		profiles:    opts.Profiles,
		defaultMode: opts.DefaultMode,
		maxBytes:    opts.MaxBytes,
		log:         logger.WithComponent("api"),
	}
}

// HandleProcess parses an uploaded log in one request.
// Form fields: file (required), mac1, mac2, mode, profile.
func (h *ProcessHandlerImpl) HandleProcess(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError("file")
	}

	req := parseRequest{
		Mode:    c.FormValue("mode"),
		Root1:   c.FormValue("mac1"),
		Root2:   c.FormValue("mac2"),
		Profile: c.FormValue("profile"),
	}
	if req.Root1 == "" {
		req.Root1 = c.FormValue("root1")
	}
	if req.Root2 == "" {
		req.Root2 = c.FormValue("root2")
	}

	mode, err := h.resolve(&req)
	if err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	content, _, closeFn, err := storage.Decompress(src)
	if err != nil {
		return newStorageError("failed to read uploaded file", err)
	}
	defer closeFn()

	data, err := storage.ReadAllLimit(content, h.maxBytes)
	if err != nil {
		return newStorageError("failed to read uploaded file", err)
	}

	sess, err := h.run(string(data), mode, models.ReportSession{
		FileName: file.Filename,
		Root1:    req.Root1,
		Root2:    req.Root2,
	})
	if err != nil {
		return err
	}
	return respondSession(c, http.StatusOK, sess)
}

// HandleParseStored parses a previously uploaded file.
func (h *ProcessHandlerImpl) HandleParseStored(c echo.Context) error {
	var req parseRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.FileID == "" {
		return NewValidationError("fileId")
	}

	mode, err := h.resolve(&req)
	if err != nil {
		return err
	}

	info, err := h.store.Get(req.FileID)
	if err != nil {
		return NewNotFoundError("file", req.FileID)
	}
	text, err := h.store.ReadText(req.FileID)
	if err != nil {
		return NewInternalError("failed to read file", err)
	}

	sess, err := h.run(text, mode, models.ReportSession{
		FileID:   info.ID,
		FileName: info.Name,
		Root1:    req.Root1,
		Root2:    req.Root2,
	})
	if err != nil {
		return err
	}
	return respondSession(c, http.StatusOK, sess)
}

// HandleGetModes lists the supported modes and the default.
func (h *ProcessHandlerImpl) HandleGetModes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"modes":   h.registry.Modes(),
		"default": h.defaultMode,
	})
}

// HandleGetRootProfiles lists the configured root profiles.
func (h *ProcessHandlerImpl) HandleGetRootProfiles(c echo.Context) error {
	return c.JSON(http.StatusOK, h.profiles)
}

// resolve validates the request and fills roots from a named profile.
func (h *ProcessHandlerImpl) resolve(req *parseRequest) (models.Mode, error) {
	mode := h.defaultMode
	if strings.TrimSpace(req.Mode) != "" {
		m, err := parser.ParseMode(req.Mode)
		if err != nil {
			return "", NewValidationError("mode")
		}
		mode = m
	}

	if req.Profile != "" {
		prof, ok := h.profiles.Find(req.Profile)
		if !ok {
			return "", NewNotFoundError("root profile", req.Profile)
		}
		if strings.TrimSpace(req.Root1) == "" {
			req.Root1 = prof.Root1
		}
		if strings.TrimSpace(req.Root2) == "" {
			req.Root2 = prof.Root2
		}
	}

	req.Root1 = strings.TrimSpace(req.Root1)
	req.Root2 = strings.TrimSpace(req.Root2)
	if req.Root1 != "" && !parser.IsMAC(req.Root1) {
		return "", NewInvalidMACError("mac1")
	}
	if req.Root2 != "" && !parser.IsMAC(req.Root2) {
		return "", NewInvalidMACError("mac2")
	}
	return mode, nil
}

func (h *ProcessHandlerImpl) run(text string, mode models.Mode, meta models.ReportSession) (models.ReportSession, error) {
	extractor, err := h.registry.ForMode(mode)
	if err != nil {
		return models.ReportSession{}, NewValidationError("mode")
	}

	result, err := h.engine.Parse(text, meta.Root1, meta.Root2, mode)
	if err != nil {
		return models.ReportSession{}, NewInternalError("parse failed", err)
	}

	sess := h.sessionMgr.Create(meta, result)

	h.log.Info().
		Str("sessionId", sess.ID).
		Str("file", meta.FileName).
		Str("mode", string(mode)).
		Str("extractor", extractor.Name()).
		Int("bytes", len(text)).
		Int("records", result.Count).
		Str("note", result.Note).
		Msgf("parsed %d devices", result.Count)

	return sess, nil
}

// parseRequest is the body of POST /api/parse and the fields of POST /api/process.
type parseRequest struct {
	FileID  string `json:"fileId"`
	Mode    string `json:"mode"`
	Root1   string `json:"root1"`
	Root2   string `json:"root2"`
	Profile string `json:"profile"`
}
