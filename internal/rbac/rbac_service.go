package rbac

import (
	"sync"

	"go-appraise/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy() error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{repo: repo, enforcer: enforcer, logger: l}
}

func (s *service) LoadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPolicyUnlocked()
}

func (s *service) loadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	employeeRoles, err := s.repo.GetEmployeeRoles()
	if err != nil {
		return err
	}
	s.logger.Debug("rbac policy loading", zap.Int("employee_roles", len(employeeRoles)))

	for _, er := range employeeRoles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.Role); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions()
	if err != nil {
		return err
	}
	s.logger.Debug("rbac policy loading", zap.Int("role_permissions", len(rolePerms)))

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.Role, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	return nil
}

// Enforce reloads the policy before every check. The policy set is small
// and this keeps role edits effective on the next request without cache
// invalidation plumbing.
func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadPolicyUnlocked(); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.EmployeeID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("employee_id", req.EmployeeID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
