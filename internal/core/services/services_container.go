package services

import (
	portsrepo "github.com/caselab/lab_case_app/internal/core/ports/repositories"
	portssvc "github.com/caselab/lab_case_app/internal/core/ports/services"
)

// NewServiceContainer wires the services with their repository dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	auditService := NewAuditService(repos.AuditRepo)
	caseService := NewCaseService(repos.CaseRepo, auditService)

	return &portssvc.ServiceContainer{
		Case:  caseService,
		Audit: auditService,
	}
}
