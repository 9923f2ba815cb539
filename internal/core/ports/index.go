package ports

import (
	"context"
	"io"

	"go.trai.ch/obr/internal/core/domain"
)

// IndexListener receives the results of parsing one index document.
//
//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=mocks/mock_index.go -package=mocks
type IndexListener interface {
	// Accept receives each fully parsed resource. Returning domain.ParseStop ends the document.
	Accept(res *domain.Resource) domain.ParseAction

	// Referral is notified of every referral to another index document. The listener owns
	// fetching and parsing the referred document and reporting its failures.
	Referral(ctx context.Context, ref domain.Referral)
}

// IndexParser turns one index document into resources.
type IndexParser interface {
	// Parse reads the document r whose own location is baseURL, reporting to l.
	// It returns an error only for a malformed document.
	Parse(ctx context.Context, r io.Reader, baseURL string, l IndexListener) error
}
