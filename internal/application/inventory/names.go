package inventory

import (
	"context"
	"fmt"

	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

// catalogNames resuelve los nombres de usuario, proveedor y producto que acompañan a un
// movimiento. Vive lo que dura una petición: cada ID se consulta una sola vez.
type catalogNames struct {
	users     repository.UserRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository

	userNames     map[string]string
	supplierNames map[string]string
	productByID   map[string]*entity.Product
}

func newCatalogNames(users repository.UserRepository, suppliers repository.SupplierRepository, products repository.ProductRepository) *catalogNames {
	return &catalogNames{
		users:         users,
		suppliers:     suppliers,
		products:      products,
		userNames:     make(map[string]string),
		supplierNames: make(map[string]string),
		productByID:   make(map[string]*entity.Product),
	}
}

// user devuelve "" si el usuario ya no existe.
func (n *catalogNames) user(ctx context.Context, id string) (string, error) {
	if name, ok := n.userNames[id]; ok {
		return name, nil
	}
	u, err := n.users.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("obtener usuario %s: %w", id, err)
	}
	var name string
	if u != nil {
		name = u.Name
	}
	n.userNames[id] = name
	return name, nil
}

func (n *catalogNames) supplier(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	if name, ok := n.supplierNames[id]; ok {
		return name, nil
	}
	s, err := n.suppliers.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("obtener proveedor %s: %w", id, err)
	}
	var name string
	if s != nil {
		name = s.Name
	}
	n.supplierNames[id] = name
	return name, nil
}

// product devuelve nil si el producto ya no existe.
func (n *catalogNames) product(ctx context.Context, id string) (*entity.Product, error) {
	if p, ok := n.productByID[id]; ok {
		return p, nil
	}
	p, err := n.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto %s: %w", id, err)
	}
	n.productByID[id] = p
	return p, nil
}
