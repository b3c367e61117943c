package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/application/inventory"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

// MovementHandler expone entradas y salidas de mercancía.
type MovementHandler struct {
	engine *inventory.StockMovementEngine
	query  *inventory.MovementQueryUseCase
	pdf    *inventory.VoucherPDFUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(engine *inventory.StockMovementEngine, query *inventory.MovementQueryUseCase, pdf *inventory.VoucherPDFUseCase) *MovementHandler {
	return &MovementHandler{engine: engine, query: query, pdf: pdf}
}

// CreateEntry godoc
// @Summary      Registrar entrada de mercancía
// @Description  Suma stock a cada variante (talla, color); la variante se crea si no existe.
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEntryRequest  true  "Documento y líneas"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/entries [post]
func (h *MovementHandler) CreateEntry(c *fiber.Ctx) error {
	var in dto.CreateEntryRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	mov, err := h.engine.RecordEntry(c.UserContext(), inventory.EntryInput{
		DocumentNumber: in.DocumentNumber,
		DocumentType:   in.DocumentType,
		SupplierID:     in.SupplierID,
		UserID:         GetUserID(c),
		Notes:          in.Notes,
		Lines:          in.Lines,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(mov))
}

// CreateExit godoc
// @Summary      Registrar salida de mercancía
// @Description  Resta stock; falla completa si alguna variante no existe o no alcanza.
// @Tags         exits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExitRequest  true  "Documento y líneas"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/exits [post]
func (h *MovementHandler) CreateExit(c *fiber.Ctx) error {
	var in dto.CreateExitRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	mov, err := h.engine.RecordExit(c.UserContext(), inventory.ExitInput{
		DocumentNumber: in.DocumentNumber,
		ExitType:       in.ExitType,
		Recipient:      in.Recipient,
		UserID:         GetUserID(c),
		Notes:          in.Notes,
		Lines:          in.Lines,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(mov))
}

// ListEntries godoc
// @Summary      Listar entradas
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/entries [get]
func (h *MovementHandler) ListEntries(c *fiber.Ctx) error {
	return h.list(c, entity.MovementKindEntry)
}

// ListExits godoc
// @Summary      Listar salidas
// @Tags         exits
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/exits [get]
func (h *MovementHandler) ListExits(c *fiber.Ctx) error {
	return h.list(c, entity.MovementKindExit)
}

func (h *MovementHandler) list(c *fiber.Ctx, kind string) error {
	var q dto.MovementListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	out, err := h.query.List(c.UserContext(), kind, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetEntry godoc
// @Summary      Obtener entrada con sus líneas
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [get]
func (h *MovementHandler) GetEntry(c *fiber.Ctx) error {
	return h.get(c, entity.MovementKindEntry)
}

// GetExit godoc
// @Summary      Obtener salida con sus líneas
// @Tags         exits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exits/{id} [get]
func (h *MovementHandler) GetExit(c *fiber.Ctx) error {
	return h.get(c, entity.MovementKindExit)
}

func (h *MovementHandler) get(c *fiber.Ctx, kind string) error {
	out, err := h.query.Get(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// EntryPDF godoc
// @Summary      Comprobante PDF de una entrada
// @Tags         entries
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entries/{id}/pdf [get]
func (h *MovementHandler) EntryPDF(c *fiber.Ctx) error {
	return h.voucher(c, entity.MovementKindEntry)
}

// ExitPDF godoc
// @Summary      Comprobante PDF de una salida
// @Tags         exits
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exits/{id}/pdf [get]
func (h *MovementHandler) ExitPDF(c *fiber.Ctx) error {
	return h.voucher(c, entity.MovementKindExit)
}

func (h *MovementHandler) voucher(c *fiber.Ctx, kind string) error {
	pdfBytes, filename, err := h.pdf.Download(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
