package api

import (
	"github.com/scriba-dms/scriba/internal/archives"
	"github.com/scriba-dms/scriba/internal/assignment"
	"github.com/scriba-dms/scriba/internal/audits"
	"github.com/scriba-dms/scriba/internal/documents"
	"github.com/scriba-dms/scriba/internal/signatures"
	"github.com/scriba-dms/scriba/internal/statistics"
	"github.com/scriba-dms/scriba/internal/users"
	"github.com/scriba-dms/scriba/internal/workflow"
	"github.com/scriba-dms/scriba/pkg/repository"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Users      users.System
	Documents  documents.System
	Audits     audits.System
	Signatures signatures.System
	Archives   archives.System
	Statistics statistics.System
	Workflow   *workflow.Orchestrator
}

// NewDomain creates all domain systems from the API runtime and wires
// the workflow orchestrator over them.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	usersSystem := users.New(db, runtime.Logger)

	documentsSystem := documents.New(
		db,
		runtime.Storage,
		runtime.Classifier,
		runtime.Logger,
		runtime.Pagination,
	)

	auditsSystem := audits.New(db, runtime.Logger, runtime.Pagination)
	signaturesSystem := signatures.New(db, runtime.Logger, runtime.Pagination)
	archivesSystem := archives.New(db, runtime.Logger, runtime.Pagination)
	statisticsSystem := statistics.New(db, runtime.Logger)

	engine := assignment.NewEngine(usersSystem, map[users.Role]assignment.LoadCounter{
		users.RoleAuditor:            auditsSystem,
		users.RoleDirector:           signaturesSystem,
		users.RoleAccountantReceipt:  archivesSystem,
		users.RoleAccountantOffer:    archivesSystem,
		users.RoleAccountantInternal: archivesSystem,
	}, runtime.Logger)

	orchestrator := workflow.New(workflow.Config{
		Runner:     repository.SQLRunner{DB: db},
		Documents:  documentsSystem,
		Audits:     auditsSystem,
		Signatures: signaturesSystem,
		Archives:   archivesSystem,
		Users:      usersSystem,
		Assigner:   engine,
	}, runtime.Logger)

	return &Domain{
		Users:      usersSystem,
		Documents:  documentsSystem,
		Audits:     auditsSystem,
		Signatures: signaturesSystem,
		Archives:   archivesSystem,
		Statistics: statisticsSystem,
		Workflow:   orchestrator,
	}
}
