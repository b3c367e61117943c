package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

type stubSupplierRepo struct {
	byID map[string]*entity.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{byID: make(map[string]*entity.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	for _, other := range r.byID {
		if other.TaxID == s.TaxID {
			return domain.ErrDuplicate
		}
	}
	cp := *s
	r.byID[s.ID] = &cp
	return nil
}

func (r *stubSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *stubSupplierRepo) List(_ context.Context, _, _ int) ([]*entity.Supplier, error) {
	out := make([]*entity.Supplier, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, nil
}

func TestSupplierUseCase_CreateNormalizesTaxID(t *testing.T) {
	uc := NewSupplierUseCase(newStubSupplierRepo())
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: " Curtiembres del Sur ", TaxID: "900.123.456-8", Email: "Ventas@Curtiembres.CO"})
	require.NoError(t, err)
	assert.Equal(t, "900123456-8", out.TaxID)
	assert.Equal(t, "Curtiembres del Sur", out.Name)
	assert.Equal(t, "ventas@curtiembres.co", out.Email)
	assert.True(t, out.Active)

	_, err = uc.Create(ctx, dto.CreateSupplierRequest{Name: "Otra", TaxID: "900123456-8"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, got.ID)
}

func TestSupplierUseCase_CreateRejectsBadVerificationDigit(t *testing.T) {
	uc := NewSupplierUseCase(newStubSupplierRepo())

	_, err := uc.Create(context.Background(), dto.CreateSupplierRequest{Name: "X", TaxID: "900123456-1"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tax_id", ve.Field)
}

func TestSupplierUseCase_GetByIDNotFound(t *testing.T) {
	uc := NewSupplierUseCase(newStubSupplierRepo())
	_, err := uc.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)
}
