// Package workflow orchestrates the approval pipeline: it owns the
// cross-stage triggers that move a document from approval through
// audit, signing, and archival. Task registries never call each other;
// every composite transition runs here, atomically.
package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/internal/archives"
	"github.com/scriba-dms/scriba/internal/assignment"
	"github.com/scriba-dms/scriba/internal/audits"
	"github.com/scriba-dms/scriba/internal/documents"
	"github.com/scriba-dms/scriba/internal/signatures"
	"github.com/scriba-dms/scriba/internal/users"
	"github.com/scriba-dms/scriba/pkg/repository"
)

// Orchestrator drives the pipeline. Every operation runs as a single
// transaction: either the full set of dependent writes commits, or
// none does.
type Orchestrator struct {
	runner     repository.TxRunner
	documents  DocumentStore
	audits     AuditStore
	signatures SignatureStore
	archives   ArchiveStore
	users      UserStore
	assigner   Assigner
	logger     *slog.Logger
}

// Config collects the orchestrator's collaborators.
type Config struct {
	Runner     repository.TxRunner
	Documents  DocumentStore
	Audits     AuditStore
	Signatures SignatureStore
	Archives   ArchiveStore
	Users      UserStore
	Assigner   Assigner
}

// New creates an Orchestrator from its collaborators.
func New(cfg Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		runner:     cfg.Runner,
		documents:  cfg.Documents,
		audits:     cfg.Audits,
		signatures: cfg.Signatures,
		archives:   cfg.Archives,
		users:      cfg.Users,
		assigner:   cfg.Assigner,
		logger:     logger.With("system", "workflow"),
	}
}

// ApproveResult reports the outcome of an approval. Exactly one of
// Audit or Archive is set: Audit when an auditor was assigned, Archive
// when the self-audit fast path skipped straight to archival.
type ApproveResult struct {
	Document *documents.Document `json:"document"`
	Audit    *audits.Audit       `json:"audit,omitempty"`
	Archive  *archives.Archive   `json:"archive,omitempty"`
}

// AuditResult reports a completed audit and the archive task it opened.
type AuditResult struct {
	Document *documents.Document `json:"document"`
	Audit    *audits.Audit       `json:"audit"`
	Archive  *archives.Archive   `json:"archive"`
}

// ArchiveResult reports an archive advance. Signature is set when the
// advance opened the signing detour.
type ArchiveResult struct {
	Document  *documents.Document   `json:"document"`
	Archive   *archives.Archive     `json:"archive"`
	Signature *signatures.Signature `json:"signature,omitempty"`
}

// SignResult reports a completed signature and the archive continuation.
type SignResult struct {
	Document  *documents.Document   `json:"document"`
	Signature *signatures.Signature `json:"signature"`
	Archive   *archives.Archive     `json:"archive"`
}

// Approve moves a document SCANNED → APPROVED on behalf of its owner.
// If the owner also holds AUDITOR, the audit stage completes inline
// and the document proceeds directly to AUDITED with an archive task;
// otherwise an audit task goes to the least-loaded auditor.
func (o *Orchestrator) Approve(ctx context.Context, documentID uuid.UUID, actor string) (*ApproveResult, error) {
	var result ApproveResult

	err := o.runner.Run(ctx, func(dbtx repository.DBTX) error {
		doc, user, err := o.resolve(ctx, dbtx, documentID, actor)
		if err != nil {
			return err
		}

		if doc.OwnerID != user.ID {
			return documents.ErrNotOwner
		}

		if err := doc.Transition(documents.StatusApproved); err != nil {
			return err
		}

		if user.HasRole(users.RoleAuditor) {
			return o.selfAudit(ctx, dbtx, doc, &result)
		}

		updated, err := o.documents.Apply(ctx, dbtx, doc)
		if err != nil {
			return err
		}

		assignee, err := o.assigner.Assign(ctx, dbtx, users.RoleAuditor)
		if err != nil {
			return err
		}

		audit, err := o.audits.Create(ctx, dbtx, doc.ID, assignee.ID)
		if err != nil {
			return err
		}

		result.Document = updated
		result.Audit = audit
		return nil
	})

	if err != nil {
		return nil, err
	}

	o.logger.Info("document approved", "document", documentID, "actor", actor, "self_audit", result.Archive != nil)
	return &result, nil
}

// selfAudit completes the audit stage inline for an approving owner
// who is also an auditor. No audit record is created; the document
// moves straight to AUDITED and archival begins.
func (o *Orchestrator) selfAudit(ctx context.Context, dbtx repository.DBTX, doc *documents.Document, result *ApproveResult) error {
	if err := doc.Transition(documents.StatusAudited); err != nil {
		return err
	}

	updated, err := o.documents.Apply(ctx, dbtx, doc)
	if err != nil {
		return err
	}

	archive, err := o.createArchive(ctx, dbtx, updated)
	if err != nil {
		return err
	}

	result.Document = updated
	result.Archive = archive
	return nil
}

// CompleteAudit marks the document's audit DONE, moves the document
// APPROVED → AUDITED, and opens an archive task assigned to the
// least-loaded accountant for the document's type.
func (o *Orchestrator) CompleteAudit(ctx context.Context, documentID uuid.UUID, actor string) (*AuditResult, error) {
	var result AuditResult

	err := o.runner.Run(ctx, func(dbtx repository.DBTX) error {
		doc, user, err := o.resolve(ctx, dbtx, documentID, actor)
		if err != nil {
			return err
		}

		audit, err := o.audits.Get(ctx, dbtx, doc.ID)
		if err != nil {
			return err
		}

		completed, err := o.audits.Complete(ctx, dbtx, audit, user.ID)
		if err != nil {
			return err
		}

		if err := doc.Transition(documents.StatusAudited); err != nil {
			return err
		}

		updated, err := o.documents.Apply(ctx, dbtx, doc)
		if err != nil {
			return err
		}

		archive, err := o.createArchive(ctx, dbtx, updated)
		if err != nil {
			return err
		}

		result.Document = updated
		result.Audit = completed
		result.Archive = archive
		return nil
	})

	if err != nil {
		return nil, err
	}

	o.logger.Info("audit completed", "document", documentID, "actor", actor)
	return &result, nil
}

// AdvanceArchive moves a document's archive on behalf of its assignee.
// PENDING → DONE files the document directly; PENDING →
// AWAITING_SIGNATURE opens a signature task for the least-loaded
// director; SIGNED_PENDING → DONE finalizes after signing.
func (o *Orchestrator) AdvanceArchive(ctx context.Context, documentID uuid.UUID, target archives.Status, actor string) (*ArchiveResult, error) {
	var result ArchiveResult

	err := o.runner.Run(ctx, func(dbtx repository.DBTX) error {
		doc, user, err := o.resolve(ctx, dbtx, documentID, actor)
		if err != nil {
			return err
		}

		archive, err := o.archives.Get(ctx, dbtx, doc.ID)
		if err != nil {
			return err
		}

		advanced, err := o.archives.Advance(ctx, dbtx, archive, target, user.ID)
		if err != nil {
			return err
		}
		result.Archive = advanced

		switch target {
		case archives.StatusDone:
			final := documents.StatusArchived
			if doc.Status == documents.StatusSigned {
				final = documents.StatusSignedAndArchived
			}
			if err := doc.Transition(final); err != nil {
				return err
			}

			updated, err := o.documents.Apply(ctx, dbtx, doc)
			if err != nil {
				return err
			}
			result.Document = updated

		case archives.StatusAwaitingSignature:
			assignee, err := o.assigner.Assign(ctx, dbtx, users.RoleDirector)
			if err != nil {
				return err
			}

			signature, err := o.signatures.Create(ctx, dbtx, doc.ID, assignee.ID)
			if err != nil {
				return err
			}

			result.Document = doc
			result.Signature = signature

		default:
			result.Document = doc
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	o.logger.Info("archive advanced", "document", documentID, "target", target, "actor", actor)
	return &result, nil
}

// Sign completes a document's signature on behalf of its assignee,
// moves the document AUDITED → SIGNED, and advances the archive
// AWAITING_SIGNATURE → SIGNED_PENDING so the original accountant can
// finalize it.
func (o *Orchestrator) Sign(ctx context.Context, documentID uuid.UUID, actor string) (*SignResult, error) {
	var result SignResult

	err := o.runner.Run(ctx, func(dbtx repository.DBTX) error {
		doc, user, err := o.resolve(ctx, dbtx, documentID, actor)
		if err != nil {
			return err
		}

		signature, err := o.signatures.Get(ctx, dbtx, doc.ID)
		if err != nil {
			return err
		}

		completed, err := o.signatures.Complete(ctx, dbtx, signature, user.ID)
		if err != nil {
			return err
		}

		if err := doc.Transition(documents.StatusSigned); err != nil {
			return err
		}

		updated, err := o.documents.Apply(ctx, dbtx, doc)
		if err != nil {
			return err
		}

		archive, err := o.archives.Get(ctx, dbtx, doc.ID)
		if err != nil {
			return err
		}

		moved, err := o.archives.Move(ctx, dbtx, archive, archives.StatusSignedPending)
		if err != nil {
			return err
		}

		result.Document = updated
		result.Signature = completed
		result.Archive = moved
		return nil
	})

	if err != nil {
		return nil, err
	}

	o.logger.Info("document signed", "document", documentID, "actor", actor)
	return &result, nil
}

// resolve loads the locked document and the acting user.
func (o *Orchestrator) resolve(ctx context.Context, dbtx repository.DBTX, documentID uuid.UUID, actor string) (*documents.Document, *users.User, error) {
	doc, err := o.documents.GetForUpdate(ctx, dbtx, documentID)
	if err != nil {
		return nil, nil, err
	}

	user, err := o.users.GetByUsername(ctx, dbtx, actor)
	if err != nil {
		return nil, nil, err
	}

	return doc, user, nil
}

// createArchive opens the archival stage, routing by document type to
// the matching accountant role.
func (o *Orchestrator) createArchive(ctx context.Context, dbtx repository.DBTX, doc *documents.Document) (*archives.Archive, error) {
	role, err := assignment.RoleForDocumentType(doc.Type)
	if err != nil {
		return nil, err
	}

	assignee, err := o.assigner.Assign(ctx, dbtx, role)
	if err != nil {
		return nil, err
	}

	return o.archives.Create(ctx, dbtx, doc.ID, assignee.ID)
}
