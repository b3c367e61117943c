//go:build integration

package postgres_test

import (
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

func repositoryFilter(kind string) repository.MovementFilter {
	return repository.MovementFilter{Kind: kind, Limit: 100}
}
