// Package service implements BookDen's business logic on top of the
// store layer: authentication, catalog management, reactions, ratings,
// the carousel, search, and view history.
package service

import (
	"github.com/bookdenapp/bookden-server/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()
