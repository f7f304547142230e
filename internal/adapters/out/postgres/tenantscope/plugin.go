// Package tenantscope enforces row-level tenant isolation at the data-access
// boundary. It is a gorm plugin that injects a tenant predicate into every
// query, update, and delete statement, driven by the tenant scope bound to
// the statement's context.
//
// Models opt in through one of two interfaces: Scoped for tables carrying
// their own tenant column, JoinScoped for tables whose tenant is only
// reachable through a parent table. A model implementing neither is
// tenant-agnostic by declaration, which keeps the exemption auditable at the
// DTO definition.
//
// The predicate is applied per statement, not per connection, so recycled
// sessions and lazily issued queries are covered. When no tenant scope is
// bound, filtering is skipped through one explicit branch: that is the
// system-scope path used by the request boundary and background jobs, and
// callers taking it must be deliberate about it.
package tenantscope

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repairshop/internal/pkg/tenantctx"
)

// Scoped marks a model whose table carries the owning tenant id directly.
type Scoped interface {
	// TenantColumn returns the name of the column holding the tenant id.
	TenantColumn() string
}

// JoinScoped marks a model whose tenant is only reachable through a parent
// table. The model supplies the complete predicate, typically an EXISTS
// subquery joining the parent.
type JoinScoped interface {
	// TenantPredicate returns the expression restricting rows to the tenant.
	TenantPredicate(tenantID uuid.UUID) clause.Expression
}

// Plugin implements gorm.Plugin. Register it once at startup with db.Use; a
// registration failure must abort the process, since proceeding would leave
// every query unscoped.
type Plugin struct {
	logger *zap.Logger
}

// New creates the tenant isolation plugin.
func New(logger *zap.Logger) *Plugin {
	return &Plugin{
		logger: logger.With(zap.String("component", "tenantscope")),
	}
}

// Name implements gorm.Plugin.
func (p *Plugin) Name() string {
	return "tenantscope"
}

// Initialize implements gorm.Plugin. It registers the scoping callback in
// front of gorm's query, update, and delete processors. Any registration
// error is returned as-is so the caller can refuse to start: isolation must
// never fail open.
func (p *Plugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("tenantscope:query", p.apply); err != nil {
		return fmt.Errorf("tenantscope: registering query callback: %w", err)
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenantscope:update", p.apply); err != nil {
		return fmt.Errorf("tenantscope: registering update callback: %w", err)
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("tenantscope:delete", p.apply); err != nil {
		return fmt.Errorf("tenantscope: registering delete callback: %w", err)
	}
	return nil
}

// apply injects the tenant predicate into the statement being built. It runs
// on every statement; the scope is read from the statement's context, so the
// predicate always reflects the current request.
func (p *Plugin) apply(db *gorm.DB) {
	stmt := db.Statement
	if stmt == nil || stmt.Schema == nil {
		return
	}

	scope, ok := tenantctx.ScopeFrom(stmt.Context)
	if !ok {
		// System scope: no tenant bound, no filtering. This is the one
		// sanctioned unscoped path.
		p.logger.Debug("statement issued without tenant scope",
			zap.String("table", stmt.Table))
		return
	}

	switch model := reflect.New(stmt.Schema.ModelType).Interface().(type) {
	case Scoped:
		stmt.AddClause(clause.Where{Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: model.TenantColumn()},
				Value:  scope.TenantID.Bytes(),
			},
		}})
	case JoinScoped:
		stmt.AddClause(clause.Where{Exprs: []clause.Expression{
			model.TenantPredicate(scope.TenantID.Bytes()),
		}})
	default:
		// Tenant-agnostic model by declaration; nothing to add.
	}
}
