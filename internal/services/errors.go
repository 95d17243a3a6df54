package services

import (
	"errors"

	"github.com/vibe-commerce/api/internal/catalog"
	"github.com/vibe-commerce/api/internal/repositories"
)

// ErrCatalogUnavailable indicates the upstream product catalog could not be
// reached. Handlers surface it as a bad-gateway response so clients can
// distinguish upstream trouble from our own.
var ErrCatalogUnavailable = errors.New("services: catalog unavailable")

func isRepoNotFound(err error) bool {
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.IsNotFound()
	}
	return false
}

func isCatalogNotFound(err error) bool {
	return errors.Is(err, catalog.ErrProductNotFound)
}

func isCatalogFetchFailure(err error) bool {
	return errors.Is(err, catalog.ErrRemoteFetch)
}
