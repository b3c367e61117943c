// Package inventorytest provee un almacén en memoria con semántica transaccional
// (commit o rollback completo) para probar los casos de uso de inventario sin PostgreSQL.
package inventorytest

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/calzado-fabianne/almacen-api/internal/application/inventory"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

// Puntos donde se puede inyectar un fallo de persistencia.
const (
	FailMovementCreate = "movement_create"
	FailIncrement      = "increment"
	FailDecrement      = "decrement"
	FailCommit         = "commit"
)

// ErrInjected es el error devuelto en el punto configurado con FailAt.
var ErrInjected = errors.New("fallo inyectado")

var _ inventory.TxRunner = (*Store)(nil)

// Store almacén en memoria. Run serializa las transacciones: solo una a la vez.
type Store struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	users     map[string]*entity.User
	suppliers map[string]*entity.Supplier
	variants  map[entity.VariantKey]*entity.StockVariant
	movements []*entity.Movement

	// FailAt hace fallar la operación indicada dentro de la siguiente transacción.
	FailAt string
	// Commits cuenta las transacciones confirmadas.
	Commits int

	increments []entity.VariantKey
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]*entity.Product),
		users:     make(map[string]*entity.User),
		suppliers: make(map[string]*entity.Supplier),
		variants:  make(map[entity.VariantKey]*entity.StockVariant),
	}
}

// AddProduct registra un producto activo y devuelve su ID.
func (s *Store) AddProduct(code string, minStock int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.products[id] = &entity.Product{ID: id, Code: code, Name: "Producto " + code, MinStock: minStock, Active: true}
	return id
}

// AddUser registra un usuario y devuelve su ID.
func (s *Store) AddUser(role, status string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.users[id] = &entity.User{ID: id, Email: id + "@almacen.test", Name: "Usuario", Role: role, Status: status}
	return id
}

// AddSupplier registra un proveedor y devuelve su ID.
func (s *Store) AddSupplier(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.suppliers[id] = &entity.Supplier{ID: id, Name: name, TaxID: id, Active: true}
	return id
}

// SetStock fija el stock de una variante creándola si hace falta.
func (s *Store) SetStock(key entity.VariantKey, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.variants[key]; ok {
		v.Stock = stock
		return
	}
	s.variants[key] = &entity.StockVariant{ID: uuid.New().String(), ProductID: key.ProductID, Size: key.Size, Color: key.Color, Stock: stock}
}

// Stock devuelve el stock de la variante y si existe.
func (s *Store) Stock(key entity.VariantKey) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.variants[key]
	if !ok {
		return 0, false
	}
	return v.Stock, true
}

// Increments devuelve, en orden de llamada, las variantes a las que se sumó stock.
func (s *Store) Increments() []entity.VariantKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.VariantKey(nil), s.increments...)
}

// VariantCount número de variantes existentes.
func (s *Store) VariantCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.variants)
}

// MovementCount número de movimientos persistidos.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// Run ejecuta fn con repositorios transaccionales; ante error restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(tx inventory.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapVariants := make(map[entity.VariantKey]entity.StockVariant, len(s.variants))
	for k, v := range s.variants {
		snapVariants[k] = *v
	}
	snapMovements := len(s.movements)
	rollback := func() {
		s.variants = make(map[entity.VariantKey]*entity.StockVariant, len(snapVariants))
		for k, v := range snapVariants {
			v := v
			s.variants[k] = &v
		}
		s.movements = s.movements[:snapMovements]
	}

	err := fn(inventory.TxRepos{
		Movements: &movementRepo{s: s, inTx: true},
		Variants:  &variantRepo{s: s, inTx: true},
		Products:  &productRepo{s: s, inTx: true},
	})
	if err == nil && s.takeFailure(FailCommit) {
		err = ErrInjected
	}
	if err != nil {
		rollback()
		return err
	}
	s.Commits++
	return nil
}

func (s *Store) takeFailure(point string) bool {
	if s.FailAt == point {
		s.FailAt = ""
		return true
	}
	return false
}

func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Variants repositorio de variantes fuera de transacción.
func (s *Store) Variants() repository.StockVariantRepository { return &variantRepo{s: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() repository.SupplierRepository { return &supplierRepo{s: s} }

type productRepo struct {
	s    *Store
	inTx bool
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	for _, existing := range r.s.products {
		if existing.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	for _, p := range r.s.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *productRepo) ListBelowMinStock(_ context.Context) ([]repository.LowStockItem, error) {
	defer r.s.lock(r.inTx)()
	totals := make(map[string]int)
	for k, v := range r.s.variants {
		totals[k.ProductID] += v.Stock
	}
	out := make([]repository.LowStockItem, 0)
	for _, p := range r.s.products {
		if p.Active && totals[p.ID] < p.MinStock {
			out = append(out, repository.LowStockItem{
				ProductID: p.ID, Code: p.Code, Name: p.Name, CategoryID: p.CategoryID,
				TotalStock: totals[p.ID], MinStock: p.MinStock,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].MinStock-out[i].TotalStock, out[j].MinStock-out[j].TotalStock
		if di != dj {
			return di > dj
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

type variantRepo struct {
	s    *Store
	inTx bool
}

func (r *variantRepo) Find(_ context.Context, key entity.VariantKey) (*entity.StockVariant, error) {
	defer r.s.lock(r.inTx)()
	v, ok := r.s.variants[key]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *variantRepo) FindForUpdate(ctx context.Context, key entity.VariantKey) (*entity.StockVariant, error) {
	return r.Find(ctx, key)
}

func (r *variantRepo) Increment(_ context.Context, key entity.VariantKey, qty int) (*entity.StockVariant, error) {
	defer r.s.lock(r.inTx)()
	if r.s.takeFailure(FailIncrement) {
		return nil, ErrInjected
	}
	r.s.increments = append(r.s.increments, key)
	v, ok := r.s.variants[key]
	if ok && v.Stock+qty > math.MaxInt32 {
		return nil, domain.ErrStockOverflow
	}
	if !ok {
		if qty > math.MaxInt32 {
			return nil, domain.ErrStockOverflow
		}
		v = &entity.StockVariant{ID: uuid.New().String(), ProductID: key.ProductID, Size: key.Size, Color: key.Color, CreatedAt: time.Now()}
		r.s.variants[key] = v
	}
	v.Stock += qty
	cp := *v
	return &cp, nil
}

func (r *variantRepo) Decrement(_ context.Context, variantID string, qty int) (*entity.StockVariant, error) {
	defer r.s.lock(r.inTx)()
	if r.s.takeFailure(FailDecrement) {
		return nil, ErrInjected
	}
	for _, v := range r.s.variants {
		if v.ID != variantID {
			continue
		}
		if v.Stock < qty {
			return nil, domain.ErrInsufficientStock
		}
		v.Stock -= qty
		cp := *v
		return &cp, nil
	}
	return nil, domain.ErrInsufficientStock
}

func (r *variantRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockVariant, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.StockVariant, 0)
	for _, v := range r.s.variants {
		if v.ProductID == productID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out, nil
}

type movementRepo struct {
	s    *Store
	inTx bool
}

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	defer r.s.lock(r.inTx)()
	if r.s.takeFailure(FailMovementCreate) {
		return ErrInjected
	}
	for i := range m.Lines {
		if m.Lines[i].ID == "" {
			m.Lines[i].ID = uuid.New().String()
		}
		m.Lines[i].MovementID = m.ID
	}
	cp := *m
	cp.Lines = append([]entity.MovementLine(nil), m.Lines...)
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	defer r.s.lock(r.inTx)()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.Movement, 0)
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.Kind != f.Kind {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !m.CreatedAt.Before(*f.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	if f.Offset >= len(out) {
		return []*entity.Movement{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lock(false)()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock(false)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.lock(false)()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	defer r.s.lock(false)()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *userRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	defer r.s.lock(false)()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(false)()
	delete(r.s.users, id)
	return nil
}

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	defer r.s.lock(false)()
	cp := *sp
	r.s.suppliers[sp.ID] = &cp
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	defer r.s.lock(false)()
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}

func (r *supplierRepo) List(_ context.Context, _, _ int) ([]*entity.Supplier, error) {
	defer r.s.lock(false)()
	out := make([]*entity.Supplier, 0, len(r.s.suppliers))
	for _, sp := range r.s.suppliers {
		cp := *sp
		out = append(out, &cp)
	}
	return out, nil
}
