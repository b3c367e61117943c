package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	invdomain "github.com/calzado-fabianne/almacen-api/internal/domain/inventory"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

// EntryInput documento de entrada de mercancía.
type EntryInput struct {
	DocumentNumber string
	DocumentType   string
	SupplierID     string // opcional
	UserID         string
	Notes          string
	Lines          []dto.MovementLineRequest
}

// ExitInput documento de salida de mercancía.
type ExitInput struct {
	DocumentNumber string
	ExitType       string
	Recipient      string // opcional
	UserID         string
	Notes          string
	Lines          []dto.MovementLineRequest
}

// StockMovementEngine registra entradas y salidas manteniendo los contadores por variante.
// Cada registro es una única transacción: cabecera, líneas y variantes se confirman juntas o nada.
//
// Concurrencia: las entradas usan un upsert atómico sobre el UNIQUE (producto, talla, color);
// las salidas bloquean las variantes con SELECT FOR UPDATE y luego decrementan con la
// condición stock >= cantidad. Ambas recorren las variantes en orden de clave, así que
// no hay interbloqueos entre documentos. No hay reintentos automáticos.
type StockMovementEngine struct {
	txRunner     TxRunner
	userRepo     repository.UserRepository
	supplierRepo repository.SupplierRepository
	cache        StockCache
	metrics      Metrics
	log          zerolog.Logger
	now          func() time.Time
}

// NewStockMovementEngine construye el motor. cache y metrics pueden ser nil.
func NewStockMovementEngine(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	supplierRepo repository.SupplierRepository,
	cache StockCache,
	metrics Metrics,
	log zerolog.Logger,
) *StockMovementEngine {
	if cache == nil {
		cache = NoopCache{}
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &StockMovementEngine{
		txRunner:     txRunner,
		userRepo:     userRepo,
		supplierRepo: supplierRepo,
		cache:        cache,
		metrics:      metrics,
		log:          log,
		now:          time.Now,
	}
}

// RecordEntry valida el documento, calcula totales y en una transacción inserta el movimiento
// y suma a cada variante lo pedido en sus líneas, creándola si no existía.
func (e *StockMovementEngine) RecordEntry(ctx context.Context, in EntryInput) (*entity.Movement, error) {
	if err := requireFields(map[string]string{
		"document_number": in.DocumentNumber,
		"document_type":   in.DocumentType,
		"user_id":         in.UserID,
	}); err != nil {
		return nil, err
	}
	lines, err := ParseLines(in.Lines)
	if err != nil {
		return nil, err
	}
	if err := e.checkUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	if in.SupplierID != "" {
		s, err := e.supplierRepo.GetByID(ctx, in.SupplierID)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "obtener proveedor", Err: err}
		}
		if s == nil {
			return nil, domain.ErrSupplierNotFound
		}
	}

	mov := &entity.Movement{
		ID:             uuid.New().String(),
		Kind:           entity.MovementKindEntry,
		DocumentNumber: in.DocumentNumber,
		DocumentType:   in.DocumentType,
		SupplierID:     in.SupplierID,
		UserID:         in.UserID,
		Notes:          in.Notes,
		CreatedAt:      e.now().UTC(),
		Lines:          lines,
	}
	invdomain.ApplyTotals(mov)

	// Mismo orden de clave que las salidas: dos documentos con las mismas variantes
	// en distinto orden no se bloquean mutuamente.
	requested := invdomain.RequestedByVariant(mov.Lines)
	keys := sortedKeys(requested)

	err = e.txRunner.Run(ctx, func(tx TxRepos) error {
		if err := checkProducts(ctx, tx.Products, mov.Lines); err != nil {
			return err
		}
		if err := tx.Movements.Create(ctx, mov); err != nil {
			return err
		}
		for _, k := range keys {
			if _, err := tx.Variants.Increment(ctx, k, requested[k]); err != nil {
				if errors.Is(err, domain.ErrStockOverflow) {
					return domain.NewValidationError("lines",
						fmt.Sprintf("el stock de %s - %s superaría el máximo permitido", k.Size, k.Color))
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, e.fail(mov, "registrar entrada", err)
	}

	e.committed(ctx, mov)
	return mov, nil
}

// RecordExit valida el documento y en una transacción bloquea las variantes afectadas,
// verifica el stock de cada una contra la suma pedida, inserta el movimiento y descuenta.
// Si alguna variante no existe o no alcanza, no se persiste nada.
func (e *StockMovementEngine) RecordExit(ctx context.Context, in ExitInput) (*entity.Movement, error) {
	if err := requireFields(map[string]string{
		"document_number": in.DocumentNumber,
		"exit_type":       in.ExitType,
		"user_id":         in.UserID,
	}); err != nil {
		return nil, err
	}
	lines, err := ParseLines(in.Lines)
	if err != nil {
		return nil, err
	}
	if err := e.checkUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:             uuid.New().String(),
		Kind:           entity.MovementKindExit,
		DocumentNumber: in.DocumentNumber,
		DocumentType:   in.ExitType,
		Recipient:      in.Recipient,
		UserID:         in.UserID,
		Notes:          in.Notes,
		CreatedAt:      e.now().UTC(),
		Lines:          lines,
	}
	invdomain.ApplyTotals(mov)

	requested := invdomain.RequestedByVariant(mov.Lines)
	keys := sortedKeys(requested)

	err = e.txRunner.Run(ctx, func(tx TxRepos) error {
		locked := make(map[entity.VariantKey]*entity.StockVariant, len(keys))
		for _, k := range keys {
			v, err := tx.Variants.FindForUpdate(ctx, k)
			if err != nil {
				return err
			}
			if v == nil {
				return &domain.StockError{
					ProductID: k.ProductID, Size: k.Size, Color: k.Color,
					Requested: requested[k], Err: domain.ErrVariantNotFound,
				}
			}
			if v.Stock < requested[k] {
				return insufficient(k, requested[k], v.Stock)
			}
			locked[k] = v
		}

		if err := tx.Movements.Create(ctx, mov); err != nil {
			return err
		}
		for _, k := range keys {
			if _, err := tx.Variants.Decrement(ctx, locked[k].ID, requested[k]); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					return insufficient(k, requested[k], locked[k].Stock)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, e.fail(mov, "registrar salida", err)
	}

	e.committed(ctx, mov)
	return mov, nil
}

func (e *StockMovementEngine) checkUser(ctx context.Context, userID string) error {
	u, err := e.userRepo.GetByID(ctx, userID)
	if err != nil {
		return &domain.PersistenceError{Op: "obtener usuario", Err: err}
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	if !u.IsActive() {
		return domain.ErrForbidden
	}
	return nil
}

// fail clasifica el error de la transacción: los de dominio pasan tal cual,
// el resto se envuelve como PersistenceError.
func (e *StockMovementEngine) fail(mov *entity.Movement, op string, err error) error {
	var stockErr *domain.StockError
	if errors.As(err, &stockErr) {
		reason := "insufficient_stock"
		if errors.Is(err, domain.ErrVariantNotFound) {
			reason = "variant_not_found"
		}
		e.metrics.MovementRejected(mov.Kind, reason)
		e.log.Warn().
			Str("kind", mov.Kind).
			Str("document", mov.DocumentNumber).
			Str("product_id", stockErr.ProductID).
			Str("size", stockErr.Size).
			Str("color", stockErr.Color).
			Int("requested", stockErr.Requested).
			Int("available", stockErr.Available).
			Msg("movimiento rechazado por stock")
		return err
	}
	if isDomainError(err) {
		e.metrics.MovementRejected(mov.Kind, "invalid")
		return err
	}
	e.metrics.MovementRejected(mov.Kind, "persistence")
	e.log.Error().Err(err).Str("kind", mov.Kind).Str("document", mov.DocumentNumber).Msg(op)
	return &domain.PersistenceError{Op: op, Err: err}
}

func (e *StockMovementEngine) committed(ctx context.Context, mov *entity.Movement) {
	products := make([]string, 0, len(mov.Lines))
	seen := make(map[string]bool, len(mov.Lines))
	for _, l := range mov.Lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			products = append(products, l.ProductID)
		}
	}
	if err := e.cache.Invalidate(ctx, products...); err != nil {
		e.log.Warn().Err(err).Strs("product_ids", products).Msg("invalidar caché de stock")
	}
	e.metrics.MovementRecorded(mov.Kind, len(mov.Lines))
	e.log.Info().
		Str("movement_id", mov.ID).
		Str("kind", mov.Kind).
		Str("document", mov.DocumentNumber).
		Int("lines", len(mov.Lines)).
		Str("total", mov.Total.StringFixed(2)).
		Msg("movimiento registrado")
}

func requireFields(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if strings.TrimSpace(fields[name]) == "" {
			return domain.NewValidationError(name, "es obligatorio")
		}
	}
	return nil
}

// checkProducts verifica que cada producto referenciado exista (una consulta por producto distinto).
func checkProducts(ctx context.Context, products repository.ProductRepository, lines []entity.MovementLine) error {
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true
		p, err := products.GetByID(ctx, l.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, l.ProductID)
		}
	}
	return nil
}

func sortedKeys(m map[entity.VariantKey]int) []entity.VariantKey {
	keys := make([]entity.VariantKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

func insufficient(k entity.VariantKey, requested, available int) *domain.StockError {
	return &domain.StockError{
		ProductID: k.ProductID, Size: k.Size, Color: k.Color,
		Requested: requested, Available: available, Err: domain.ErrInsufficientStock,
	}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrProductNotFound, domain.ErrVariantNotFound,
		domain.ErrUserNotFound, domain.ErrSupplierNotFound, domain.ErrInsufficientStock,
		domain.ErrForbidden, domain.ErrDuplicate, domain.ErrConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
