package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindfulthreads/storefront/internal/core/domain"
	"github.com/mindfulthreads/storefront/internal/core/ports"
)

// ProductHandler serves the public catalog and the admin and designer dashboards.
type ProductHandler struct {
	catalog ports.CatalogService
}

func NewProductHandler(catalog ports.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// Collections handles GET /collections.
//
// @Summary      List the catalog
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  productListView
// @Failure      500  {object}  errorResponse
// @Router       /collections [get]
func (h *ProductHandler) Collections(c echo.Context) error {
	list, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, list)
}

// Get handles GET /products/:id.
//
// @Summary      Get a product
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  productView
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	p, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, p)
}

// AdminList handles GET /admin/products.
//
// @Summary      Admin catalog view
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  productListView
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/products [get]
func (h *ProductHandler) AdminList(c echo.Context) error {
	list, err := h.catalog.AdminList(c.Request().Context(), CallerFrom(c))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, list)
}

// DesignerList handles GET /designer/products.
//
// @Summary      Products created by the current designer
// @Tags         designer
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  productListView
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /designer/products [get]
func (h *ProductHandler) DesignerList(c echo.Context) error {
	list, err := h.catalog.ListByCreator(c.Request().Context(), CallerFrom(c))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, list)
}

// Create handles POST /admin/products and POST /designer/products. Designers
// become the product's creator; administrators create unattributed products.
//
// @Summary      Create a product
// @Tags         admin,designer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product fields"
// @Success      201   {object}  productView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /admin/products [post]
// @Router       /designer/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	caller := CallerFrom(c)
	p, err := h.catalog.Create(c.Request().Context(), caller, toProductInput(req))
	if err != nil {
		return err
	}

	msg := "Product added successfully!"
	if caller.Role == domain.RoleDesigner {
		msg = "Product uploaded successfully!"
	}
	addFlash(c, FlashSuccess, msg)
	return render(c, http.StatusCreated, p)
}

// Update handles PUT /admin/products/:id and PUT /designer/products/:id.
//
// @Summary      Update a product
// @Tags         admin,designer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Product id"
// @Param        body  body      productRequest  true  "Product fields"
// @Success      200   {object}  productView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /admin/products/{id} [put]
// @Router       /designer/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.catalog.Update(c.Request().Context(), CallerFrom(c), id, toProductInput(req))
	if err != nil {
		return err
	}

	addFlash(c, FlashSuccess, "Product updated successfully!")
	return render(c, http.StatusOK, p)
}

// Delete handles DELETE /admin/products/:id.
//
// @Summary      Delete a product
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  viewResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.Delete(c.Request().Context(), CallerFrom(c), id); err != nil {
		return err
	}

	addFlash(c, FlashSuccess, "Product deleted successfully!")
	return render(c, http.StatusOK, nil)
}
