package documents

import "family-finance-go/internal/domain/apperr"

var ErrDocumentNotFound = apperr.NotFound("document")
