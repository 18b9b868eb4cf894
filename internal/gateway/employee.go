package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/noah-isme/intranet-portal-client/internal/models"
)

// EmployeeGateway wraps /employees.
type EmployeeGateway struct {
	base
}

func NewEmployeeGateway(deps Deps) *EmployeeGateway {
	return &EmployeeGateway{base: newBase("employees", deps)}
}

func (g *EmployeeGateway) List(ctx context.Context) ([]models.Employee, error) {
	return list[models.Employee](ctx, g.base, "employees.list", "/employees")
}

func (g *EmployeeGateway) Get(ctx context.Context, id string) (*models.Employee, error) {
	if err := g.checkID("employees.get", id); err != nil {
		return nil, err
	}
	return one[models.Employee](ctx, g.base, "employees.get", http.MethodGet, path("employees", id), nil)
}

func (g *EmployeeGateway) Create(ctx context.Context, req models.EmployeeRequest) (*models.Employee, error) {
	if err := g.check("employees.create", req); err != nil {
		return nil, err
	}
	return one[models.Employee](ctx, g.base, "employees.create", http.MethodPost, "/employees", req)
}

func (g *EmployeeGateway) Update(ctx context.Context, id string, req models.EmployeeRequest) (*models.Employee, error) {
	if err := g.checkID("employees.update", id); err != nil {
		return nil, err
	}
	if err := g.check("employees.update", req); err != nil {
		return nil, err
	}
	return one[models.Employee](ctx, g.base, "employees.update", http.MethodPut, path("employees", id), req)
}

func (g *EmployeeGateway) Delete(ctx context.Context, id string) (bool, error) {
	if err := g.checkID("employees.delete", id); err != nil {
		return false, err
	}
	return action(ctx, g.base, "employees.delete", http.MethodDelete, path("employees", id), nil)
}

// Search matches name or employee code on the server.
func (g *EmployeeGateway) Search(ctx context.Context, keyword string) ([]models.Employee, error) {
	endpoint := withQuery("/employees/search", url.Values{"keyword": {keyword}})
	return list[models.Employee](ctx, g.base, "employees.search", endpoint)
}
