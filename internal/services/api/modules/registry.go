// Package modules assembles the feature modules served by the public API.
package modules

import (
	assistantservice "github.com/launchfolio/launchfolio/internal/assistant/service"
	"github.com/launchfolio/launchfolio/internal/auth/session"
	authstorage "github.com/launchfolio/launchfolio/internal/auth/storage"
	"github.com/launchfolio/launchfolio/internal/governance"
	launchpadservice "github.com/launchfolio/launchfolio/internal/launchpad/service"
	portfolioservice "github.com/launchfolio/launchfolio/internal/portfolio/service"
	"github.com/launchfolio/launchfolio/internal/services/api/module"
	"github.com/launchfolio/launchfolio/internal/services/api/modules/accountsapi"
	"github.com/launchfolio/launchfolio/internal/services/api/modules/assistantapi"
	"github.com/launchfolio/launchfolio/internal/services/api/modules/governanceapi"
	"github.com/launchfolio/launchfolio/internal/services/api/modules/launchpadapi"
	"github.com/launchfolio/launchfolio/internal/services/api/modules/portfolioapi"
	"github.com/launchfolio/launchfolio/internal/services/api/modules/supportapi"
	"github.com/launchfolio/launchfolio/internal/services/api/modules/toursapi"
	supportservice "github.com/launchfolio/launchfolio/internal/support/service"
	"github.com/launchfolio/launchfolio/internal/tour"
	tourstorage "github.com/launchfolio/launchfolio/internal/tour/storage"
)

// Dependencies carries the shared services feature modules are built from.
type Dependencies struct {
	Launchpad  *launchpadservice.Service
	Portfolio  *portfolioservice.Service
	Support    *supportservice.Service
	Assistant  *assistantservice.Service
	Governance *governance.Service

	TourCatalog *tour.Catalog
	TourRunner  *tour.Runner
	TourStore   tourstorage.RunStateStore

	Users    authstorage.UserStore
	Sessions session.Config
}

// DefaultModules returns the stable public API modules.
func DefaultModules(deps Dependencies) []module.Module {
	return []module.Module{
		accountsapi.New(deps.Users, deps.Sessions),
		launchpadapi.New(deps.Launchpad, deps.Portfolio),
		portfolioapi.New(deps.Portfolio),
		toursapi.New(deps.TourCatalog, deps.TourRunner, deps.TourStore),
		supportapi.New(deps.Support),
		assistantapi.New(deps.Assistant),
		governanceapi.New(deps.Governance),
	}
}
