package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-system/internal/api/metrics"
	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

// SweetHandler handles HTTP requests for inventory operations. Known
// service errors propagate to the central error handler for status mapping.
type SweetHandler struct {
	service ports.SweetService
}

func NewSweetHandler(service ports.SweetService) *SweetHandler {
	return &SweetHandler{service: service}
}

// sweetID parses the :id path parameter.
func sweetID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid sweet id")
	}
	return uint(id), nil
}

// Create handles POST /api/sweets.
//
// @Summary      Create a new sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSweetRequest  true  "Sweet details"
// @Success      201   {object}  domain.Sweet
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /sweets [post]
func (h *SweetHandler) Create(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	var req createSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweet, err := h.service.Create(c.Request().Context(), ports.CreateSweetInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}

	metrics.SweetsCreatedTotal.WithLabelValues(sweet.Category).Inc()
	return c.JSON(http.StatusCreated, sweet)
}

// List handles GET /api/sweets.
//
// @Summary      List all sweets, ordered by name
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Sweet
// @Failure      401  {object}  errorResponse
// @Router       /sweets [get]
func (h *SweetHandler) List(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	sweets, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweets)
}

// Search handles GET /api/sweets/search.
//
// @Summary      Search sweets by name, category and price bounds
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        name      query     string  false  "Case-insensitive substring match"
// @Param        category  query     string  false  "Exact category match"
// @Param        minPrice  query     number  false  "Inclusive lower price bound"
// @Param        maxPrice  query     number  false  "Inclusive upper price bound"
// @Success      200       {array}   domain.Sweet
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /sweets/search [get]
func (h *SweetHandler) Search(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	var req searchSweetsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweets, err := h.service.Search(c.Request().Context(), ports.SweetFilter{
		Name:     req.Name,
		Category: req.Category,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweets)
}

// Get handles GET /api/sweets/:id.
//
// @Summary      Get a sweet by id
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Sweet id"
// @Success      200  {object}  domain.Sweet
// @Failure      404  {object}  errorResponse
// @Router       /sweets/{id} [get]
func (h *SweetHandler) Get(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	id, err := sweetID(c)
	if err != nil {
		return err
	}

	sweet, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweet)
}

// Update handles PUT /api/sweets/:id.
//
// @Summary      Update a sweet (partial)
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Sweet id"
// @Param        body  body      updateSweetRequest  true  "Fields to update"
// @Success      200   {object}  domain.Sweet
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /sweets/{id} [put]
func (h *SweetHandler) Update(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	id, err := sweetID(c)
	if err != nil {
		return err
	}

	var req updateSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sweet, err := h.service.Update(c.Request().Context(), id, ports.SweetUpdate{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweet)
}

// Delete handles DELETE /api/sweets/:id (admin only, gated by RBAC).
//
// @Summary      Delete a sweet
// @Tags         sweets
// @Security     BearerAuth
// @Param        id  path  int  true  "Sweet id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /sweets/{id} [delete]
func (h *SweetHandler) Delete(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	id, err := sweetID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Purchase handles POST /api/sweets/:id/purchase.
//
// @Summary      Purchase one unit of a sweet
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Sweet id"
// @Success      200  {object}  domain.Sweet
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	id, err := sweetID(c)
	if err != nil {
		return err
	}

	sweet, err := h.service.Purchase(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOutOfStock) {
			metrics.PurchasesTotal.WithLabelValues("out_of_stock").Inc()
		}
		return err
	}

	metrics.PurchasesTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, sweet)
}

// Restock handles POST /api/sweets/:id/restock (admin only, gated by RBAC).
//
// @Summary      Restock a sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Sweet id"
// @Param        body  body      restockRequest  true  "Restock quantity"
// @Success      200   {object}  domain.Sweet
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	id, err := sweetID(c)
	if err != nil {
		return err
	}

	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweet, err := h.service.Restock(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return err
	}

	metrics.RestocksTotal.Inc()
	return c.JSON(http.StatusOK, sweet)
}
