package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const (
	movementColumns = `id, kind, document_number, document_type, supplier_id, recipient, user_id, notes, total, created_at`
	lineColumns     = `id, movement_id, line_no, product_id, size, color, quantity, unit_price, subtotal`
)

// MovementRepo persistencia de entradas y salidas con sus líneas (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta la cabecera y envía todas las líneas en un único batch.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	var supplierID *string
	if m.SupplierID != "" {
		supplierID = &m.SupplierID
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO movements (`+movementColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.Kind, m.DocumentNumber, m.DocumentType, supplierID, m.Recipient, m.UserID, m.Notes, m.Total, m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert movement: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range m.Lines {
		l := &m.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.MovementID = m.ID
		batch.Queue(`INSERT INTO movement_lines (`+lineColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, l.MovementID, l.LineNo, l.ProductID, l.Size, l.Color, l.Quantity, l.UnitPrice, l.Subtotal)
	}
	if batch.Len() == 0 {
		return nil
	}
	br := r.q.SendBatch(ctx, batch)
	for range m.Lines {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isForeignKeyViolation(err) {
				return domain.ErrProductNotFound
			}
			return fmt.Errorf("insert movement line: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert movement lines: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var supplierID *string
	if err := row.Scan(&m.ID, &m.Kind, &m.DocumentNumber, &m.DocumentType, &supplierID,
		&m.Recipient, &m.UserID, &m.Notes, &m.Total, &m.CreatedAt); err != nil {
		return nil, err
	}
	if supplierID != nil {
		m.SupplierID = *supplierID
	}
	return &m, nil
}

// GetByID obtiene el movimiento con sus líneas ordenadas por posición.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if err := r.attachLines(ctx, []*entity.Movement{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// List devuelve los movimientos de un tipo, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	limit, offset := normLimit(f.Limit, f.Offset)
	query := `SELECT ` + movementColumns + ` FROM movements
		WHERE kind = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at DESC, id LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.Kind, f.From, f.To, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *MovementRepo) attachLines(ctx context.Context, movements []*entity.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	ids := make([]string, len(movements))
	byID := make(map[string]*entity.Movement, len(movements))
	for i, m := range movements {
		ids[i] = m.ID
		byID[m.ID] = m
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+lineColumns+` FROM movement_lines WHERE movement_id = ANY($1::uuid[]) ORDER BY movement_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(&l.ID, &l.MovementID, &l.LineNo, &l.ProductID, &l.Size, &l.Color,
			&l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return fmt.Errorf("scan movement line: %w", err)
		}
		if m, ok := byID[l.MovementID]; ok {
			m.Lines = append(m.Lines, l)
		}
	}
	return rows.Err()
}
