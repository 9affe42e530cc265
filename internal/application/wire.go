package application

import (
	"github.com/google/wire"

	"github.com/docqa/backend/internal/application/qa"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	qa.ProviderSet,
)
