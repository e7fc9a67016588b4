package plan

import "github.com/larjgit/edinburgh-finds/pkg/model"

// ConnectorCatalog is the subset of the connector registry (pkg/connector)
// the planner needs to resolve named connector specs. Defined here to avoid
// a plan->connector package dependency; pkg/connector.Registry satisfies it.
type ConnectorCatalog interface {
	Get(name string) (model.ConnectorSpec, bool)
}
