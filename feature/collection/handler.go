package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"media-manager/core/asset"
	"media-manager/core/commit"
	"media-manager/core/logger"
	"media-manager/core/middleware/auth"
	"media-manager/core/ordering"
	"media-manager/core/record"
	"media-manager/core/upload"
	"media-manager/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for record collections.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Envelope is the response body of every collection endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// SaveData is the payload of a successful create or edit.
type SaveData struct {
	ID   string   `json:"id"`
	URLs []string `json:"urls"`
}

// RegisterRoutes registers the collection routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api/:kind", h.requireKind)
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleSave)
	group.Put("/order", h.HandleReorder)
	group.Get("/latest", h.HandleLatest)
	group.Get("/:id", h.HandleGet)
	group.Put("/:id", h.HandleSave)
	group.Delete("/:id", h.HandleDelete)
}

func (h *Handler) requireKind(c *fiber.Ctx) error {
	if _, ok := h.service.Kind(c.Params("kind")); !ok {
		return c.Status(fiber.StatusNotFound).JSON(Envelope{
			Message: fmt.Sprintf("unknown collection %q", c.Params("kind")),
		})
	}
	return c.Next()
}

// HandleList lists the records of a collection.
// @Summary List records
// @Description List the records of a collection in display order.
// @Tags collection
// @Security ApiKeyAuth
// @Produce json
// @Param kind path string true "Collection (publications, galleries, portraits, covers, about)"
// @Success 200 {object} Envelope "Records"
// @Failure 500 {object} Envelope "Internal Server Error"
// @Router /api/{kind} [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	records, err := h.service.List(c.Context(), c.Params("kind"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(Envelope{Success: true, Message: "ok", Data: records})
}

// HandleGet returns one record.
// @Summary Get record
// @Tags collection
// @Security ApiKeyAuth
// @Produce json
// @Param kind path string true "Collection"
// @Param id path string true "Record ID"
// @Success 200 {object} Envelope "Record"
// @Failure 404 {object} Envelope "Not Found"
// @Router /api/{kind}/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	rec, err := h.service.Get(c.Context(), c.Params("kind"), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(Envelope{Success: true, Message: "ok", Data: rec})
}

// HandleLatest returns the most recently updated record of a collection.
// @Summary Latest record
// @Description Returns the record updated last. Single-page collections such as about read this.
// @Tags collection
// @Security ApiKeyAuth
// @Produce json
// @Param kind path string true "Collection"
// @Success 200 {object} Envelope "Record, or no data when the collection is empty"
// @Failure 500 {object} Envelope "Internal Server Error"
// @Router /api/{kind}/latest [get]
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	rec, err := h.service.Latest(c.Context(), c.Params("kind"))
	if err != nil {
		return h.fail(c, err)
	}
	if rec == nil {
		return c.JSON(Envelope{Success: true, Message: "empty"})
	}
	return c.JSON(Envelope{Success: true, Message: "ok", Data: rec})
}

// HandleSave creates a record (POST) or edits one (PUT, or POST with an id field).
// @Summary Create or edit record
// @Description Uploads new images, keeps the listed existing ones and commits the record.
// @Tags collection
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param kind path string true "Collection"
// @Param id formData string false "Record ID to edit"
// @Param title formData string false "Title"
// @Param body formData string false "Body text"
// @Param existingRefs formData string false "JSON array of retained image URLs"
// @Param images formData file false "New images"
// @Success 200 {object} Envelope "Committed"
// @Failure 400 {object} Envelope "Validation Error"
// @Failure 401 {object} Envelope "Unauthenticated"
// @Failure 403 {object} Envelope "Forbidden"
// @Failure 404 {object} Envelope "Not Found"
// @Failure 502 {object} Envelope "Upload Failed"
// @Failure 500 {object} Envelope "Persist Failed"
// @Router /api/{kind} [post]
// @Router /api/{kind}/{id} [put]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	req, err := h.parseSave(c)
	if err != nil {
		return h.fail(c, err)
	}

	res, err := h.service.Save(c.Context(), req)
	if err != nil {
		return h.fail(c, err)
	}

	message := "updated"
	status := fiber.StatusOK
	if res.Created {
		message = "created"
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    SaveData{ID: res.ID, URLs: asset.Strings(res.Refs)},
	})
}

// HandleDelete deletes a record and its images.
// @Summary Delete record
// @Tags collection
// @Security ApiKeyAuth
// @Produce json
// @Param kind path string true "Collection"
// @Param id path string true "Record ID"
// @Success 200 {object} Envelope "Deleted"
// @Failure 403 {object} Envelope "Forbidden"
// @Failure 404 {object} Envelope "Not Found"
// @Router /api/{kind}/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	res, err := h.service.Remove(c.Context(), principal(c), c.Params("kind"), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(Envelope{
		Success: true,
		Message: "deleted",
		Data:    SaveData{ID: res.ID, URLs: []string{}},
	})
}

// ReorderItem is one entry of a reorder body. Ids and positions may be JSON strings or
// numbers.
type ReorderItem struct {
	ID       any `json:"id" swaggertype:"string"`
	Position any `json:"position" swaggertype:"integer"`
}

type failedItem struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Reason   string `json:"reason"`
}

// HandleReorder writes the display order of a collection.
// @Summary Reorder records
// @Description Assigns positions 1..N following the submitted order. Items are written one by one; a failed item does not undo the others.
// @Tags collection
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param kind path string true "Collection"
// @Param items body []ReorderItem true "Items in the desired order"
// @Success 200 {object} Envelope "All items written"
// @Success 207 {object} Envelope "Some items failed"
// @Failure 400 {object} Envelope "Invalid request"
// @Router /api/{kind}/order [put]
func (h *Handler) HandleReorder(c *fiber.Ctx) error {
	var items []ReorderItem
	if err := json.Unmarshal(c.Body(), &items); err != nil {
		return h.fail(c, fmt.Errorf("%w: %v", ordering.ErrInvalidRequest, err))
	}

	pairs := make([]ordering.Pair, len(items))
	for i, item := range items {
		position, err := utils.ParseInt(item.Position)
		if err != nil {
			return h.fail(c, fmt.Errorf("%w: item %d position: %v", ordering.ErrInvalidRequest, i, err))
		}
		pairs[i] = ordering.Pair{ID: utils.ToString(item.ID), Position: position}
	}

	outcome, err := h.service.Reorder(c.Context(), principal(c), c.Params("kind"), pairs)
	if err != nil {
		return h.fail(c, err)
	}

	failed := make([]failedItem, len(outcome.Failed))
	for i, f := range outcome.Failed {
		failed[i] = failedItem{ID: f.ID, Position: f.Position, Reason: f.Reason()}
	}
	data := fiber.Map{"applied": outcome.Applied, "failed": failed}

	if !outcome.Complete() {
		logger.WithRayID(h.service.logger, c).Warn("Reorder partially applied",
			zap.Int("applied", len(outcome.Applied)),
			zap.Int("failed", len(outcome.Failed)))
		return c.Status(fiber.StatusMultiStatus).JSON(Envelope{
			Message: outcome.Err().Error(),
			Data:    data,
		})
	}
	return c.JSON(Envelope{Success: true, Message: "order saved", Data: data})
}

func (h *Handler) parseSave(c *fiber.Ctx) (commit.Request, error) {
	req := commit.Request{
		Principal: principal(c),
		Kind:      c.Params("kind"),
		ID:        c.Params("id"),
	}

	form, err := c.MultipartForm()
	if err != nil {
		return req, &commit.ValidationError{Reason: "expected a multipart form", Err: err}
	}

	if req.ID == "" {
		req.ID = first(form.Value["id"])
	}
	req.Title = first(form.Value["title"])
	req.Body = first(form.Value["body"])

	if raw := strings.TrimSpace(first(form.Value["existingRefs"])); raw != "" {
		var refs []string
		if err := json.Unmarshal([]byte(raw), &refs); err != nil {
			return req, &commit.ValidationError{Field: "existingRefs", Reason: "must be a JSON array of strings", Err: err}
		}
		for _, ref := range asset.FromStrings(refs) {
			req.Items = append(req.Items, commit.Existing(ref))
		}
	}

	for _, fh := range form.File["images"] {
		// Browsers post an empty part when no file was picked.
		if fh.Size == 0 && fh.Filename == "" {
			continue
		}
		file, err := readFile(fh)
		if err != nil {
			return req, &commit.ValidationError{Field: "images", Reason: "could not be read", Err: err}
		}
		req.Items = append(req.Items, commit.Pending(file))
	}

	return req, nil
}

func readFile(fh *multipart.FileHeader) (upload.PendingFile, error) {
	f, err := fh.Open()
	if err != nil {
		return upload.PendingFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return upload.PendingFile{}, err
	}
	return upload.PendingFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error("Collection request failed", zap.Int("status", status), zap.Error(err))
	} else {
		l.Info("Collection request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(Envelope{Message: messageOf(err)})
}

func statusOf(err error) int {
	var batch *upload.BatchError
	var persist *commit.PersistError
	switch {
	case errors.Is(err, commit.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, commit.ErrForbidden):
		return fiber.StatusForbidden
	case commit.IsValidation(err), errors.Is(err, ordering.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.As(err, &batch):
		return fiber.StatusBadGateway
	case errors.As(err, &persist):
		return fiber.StatusInternalServerError
	case errors.Is(err, record.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// messageOf unwraps the commit stage prefix so clients see the cause.
func messageOf(err error) string {
	var cerr *commit.Error
	if errors.As(err, &cerr) {
		return cerr.Err.Error()
	}
	return err.Error()
}

func principal(c *fiber.Ctx) commit.Principal {
	return commit.Principal{ID: auth.Principal(c)}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
