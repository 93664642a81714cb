package transactions

import "family-finance-go/internal/domain/apperr"

var ErrTransactionNotFound = apperr.NotFound("transaction")
