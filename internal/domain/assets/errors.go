package assets

import "family-finance-go/internal/domain/apperr"

var ErrAssetNotFound = apperr.NotFound("asset")
