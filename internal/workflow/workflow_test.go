package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/internal/archives"
	"github.com/scriba-dms/scriba/internal/assignment"
	"github.com/scriba-dms/scriba/internal/audits"
	"github.com/scriba-dms/scriba/internal/documents"
	"github.com/scriba-dms/scriba/internal/signatures"
	"github.com/scriba-dms/scriba/internal/users"
	"github.com/scriba-dms/scriba/internal/workflow"
	"github.com/scriba-dms/scriba/pkg/repository"
)

// fakeRunner executes the transaction body directly; the in-memory
// stores below ignore the transaction handle.
type fakeRunner struct{}

func (fakeRunner) Run(_ context.Context, fn func(dbtx repository.DBTX) error) error {
	return fn(nil)
}

type fakeDocuments struct {
	byID map[uuid.UUID]documents.Document
}

func (f *fakeDocuments) GetForUpdate(_ context.Context, _ repository.DBTX, id uuid.UUID) (*documents.Document, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, documents.ErrNotFound
	}
	return &d, nil
}

func (f *fakeDocuments) Apply(_ context.Context, _ repository.DBTX, d *documents.Document) (*documents.Document, error) {
	if _, ok := f.byID[d.ID]; !ok {
		return nil, documents.ErrNotFound
	}
	f.byID[d.ID] = *d
	stored := f.byID[d.ID]
	return &stored, nil
}

type fakeAudits struct {
	byDocument map[uuid.UUID]audits.Audit
}

func (f *fakeAudits) Get(_ context.Context, _ repository.DBTX, documentID uuid.UUID) (*audits.Audit, error) {
	a, ok := f.byDocument[documentID]
	if !ok {
		return nil, audits.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAudits) Create(_ context.Context, _ repository.DBTX, documentID, assigneeID uuid.UUID) (*audits.Audit, error) {
	if _, ok := f.byDocument[documentID]; ok {
		return nil, audits.ErrDuplicate
	}
	a := audits.Audit{
		ID:         uuid.New(),
		DocumentID: documentID,
		AssigneeID: assigneeID,
		Status:     audits.StatusPending,
		CreatedAt:  time.Now(),
	}
	f.byDocument[documentID] = a
	return &a, nil
}

func (f *fakeAudits) Complete(_ context.Context, _ repository.DBTX, audit *audits.Audit, actorID uuid.UUID) (*audits.Audit, error) {
	if audit.AssigneeID != actorID {
		return nil, audits.ErrNotAssignee
	}
	if audit.Status == audits.StatusDone {
		return nil, audits.ErrAlreadyCompleted
	}
	now := time.Now()
	a := *audit
	a.Status = audits.StatusDone
	a.AuditedAt = &now
	f.byDocument[a.DocumentID] = a
	return &a, nil
}

func (f *fakeAudits) PendingLoad(_ context.Context, _ repository.DBTX, assigneeID uuid.UUID) (int, error) {
	count := 0
	for _, a := range f.byDocument {
		if a.AssigneeID == assigneeID && a.Status == audits.StatusPending {
			count++
		}
	}
	return count, nil
}

type fakeSignatures struct {
	byDocument map[uuid.UUID]signatures.Signature
}

func (f *fakeSignatures) Get(_ context.Context, _ repository.DBTX, documentID uuid.UUID) (*signatures.Signature, error) {
	s, ok := f.byDocument[documentID]
	if !ok {
		return nil, signatures.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSignatures) Create(_ context.Context, _ repository.DBTX, documentID, assigneeID uuid.UUID) (*signatures.Signature, error) {
	if _, ok := f.byDocument[documentID]; ok {
		return nil, signatures.ErrDuplicate
	}
	s := signatures.Signature{
		ID:         uuid.New(),
		DocumentID: documentID,
		AssigneeID: assigneeID,
		Status:     signatures.StatusPending,
		CreatedAt:  time.Now(),
	}
	f.byDocument[documentID] = s
	return &s, nil
}

func (f *fakeSignatures) Complete(_ context.Context, _ repository.DBTX, signature *signatures.Signature, actorID uuid.UUID) (*signatures.Signature, error) {
	if signature.AssigneeID != actorID {
		return nil, signatures.ErrNotAssignee
	}
	if signature.Status == signatures.StatusDone {
		return nil, signatures.ErrAlreadyCompleted
	}
	now := time.Now()
	s := *signature
	s.Status = signatures.StatusDone
	s.SignedAt = &now
	f.byDocument[s.DocumentID] = s
	return &s, nil
}

func (f *fakeSignatures) PendingLoad(_ context.Context, _ repository.DBTX, assigneeID uuid.UUID) (int, error) {
	count := 0
	for _, s := range f.byDocument {
		if s.AssigneeID == assigneeID && s.Status == signatures.StatusPending {
			count++
		}
	}
	return count, nil
}

type fakeArchives struct {
	byDocument map[uuid.UUID]archives.Archive
}

func (f *fakeArchives) Get(_ context.Context, _ repository.DBTX, documentID uuid.UUID) (*archives.Archive, error) {
	ar, ok := f.byDocument[documentID]
	if !ok {
		return nil, archives.ErrNotFound
	}
	return &ar, nil
}

func (f *fakeArchives) Create(_ context.Context, _ repository.DBTX, documentID, assigneeID uuid.UUID) (*archives.Archive, error) {
	if _, ok := f.byDocument[documentID]; ok {
		return nil, archives.ErrDuplicate
	}
	ar := archives.Archive{
		ID:         uuid.New(),
		DocumentID: documentID,
		AssigneeID: assigneeID,
		Status:     archives.StatusPending,
		CreatedAt:  time.Now(),
	}
	f.byDocument[documentID] = ar
	return &ar, nil
}

func (f *fakeArchives) Advance(ctx context.Context, dbtx repository.DBTX, archive *archives.Archive, target archives.Status, actorID uuid.UUID) (*archives.Archive, error) {
	if archive.AssigneeID != actorID {
		return nil, archives.ErrNotAssignee
	}
	if archive.Status == archives.StatusDone {
		return nil, archives.ErrAlreadyCompleted
	}
	if target != archives.StatusDone && target != archives.StatusAwaitingSignature {
		return nil, fmt.Errorf("%w: %s not requestable", archives.ErrIllegalStatus, target)
	}
	return f.Move(ctx, dbtx, archive, target)
}

func (f *fakeArchives) Move(_ context.Context, _ repository.DBTX, archive *archives.Archive, target archives.Status) (*archives.Archive, error) {
	if !archives.CanAdvance(archive.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", archives.ErrIllegalStatus, archive.Status, target)
	}
	ar := *archive
	ar.Status = target
	if target == archives.StatusDone {
		now := time.Now()
		ar.ArchivedAt = &now
	}
	f.byDocument[ar.DocumentID] = ar
	return &ar, nil
}

func (f *fakeArchives) PendingLoad(_ context.Context, _ repository.DBTX, assigneeID uuid.UUID) (int, error) {
	count := 0
	for _, ar := range f.byDocument {
		if ar.AssigneeID != assigneeID {
			continue
		}
		if ar.Status == archives.StatusPending || ar.Status == archives.StatusSignedPending {
			count++
		}
	}
	return count, nil
}

type fakeUsers struct {
	byUsername map[string]users.User
	order      []string
}

func (f *fakeUsers) GetByUsername(_ context.Context, _ repository.DBTX, username string) (*users.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) ListByRole(_ context.Context, _ repository.DBTX, role users.Role) ([]users.User, error) {
	var holders []users.User
	for _, name := range f.order {
		u := f.byUsername[name]
		if u.HasRole(role) {
			holders = append(holders, u)
		}
	}
	return holders, nil
}

// pipeline bundles the orchestrator with its fakes so tests can seed
// and inspect state.
type pipeline struct {
	orchestrator *workflow.Orchestrator
	documents    *fakeDocuments
	audits       *fakeAudits
	signatures   *fakeSignatures
	archives     *fakeArchives
	users        *fakeUsers
}

func newPipeline(t *testing.T, members ...users.User) *pipeline {
	t.Helper()

	p := &pipeline{
		documents:  &fakeDocuments{byID: map[uuid.UUID]documents.Document{}},
		audits:     &fakeAudits{byDocument: map[uuid.UUID]audits.Audit{}},
		signatures: &fakeSignatures{byDocument: map[uuid.UUID]signatures.Signature{}},
		archives:   &fakeArchives{byDocument: map[uuid.UUID]archives.Archive{}},
		users:      &fakeUsers{byUsername: map[string]users.User{}},
	}

	for _, member := range members {
		p.users.byUsername[member.Username] = member
		p.users.order = append(p.users.order, member.Username)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := assignment.NewEngine(p.users, map[users.Role]assignment.LoadCounter{
		users.RoleAuditor:            p.audits,
		users.RoleDirector:           p.signatures,
		users.RoleAccountantReceipt:  p.archives,
		users.RoleAccountantOffer:    p.archives,
		users.RoleAccountantInternal: p.archives,
	}, logger)

	p.orchestrator = workflow.New(workflow.Config{
		Runner:     fakeRunner{},
		Documents:  p.documents,
		Audits:     p.audits,
		Signatures: p.signatures,
		Archives:   p.archives,
		Users:      p.users,
		Assigner:   engine,
	}, logger)

	return p
}

func (p *pipeline) seedDocument(owner users.User, dtype documents.Type, status documents.Status) documents.Document {
	d := documents.Document{
		ID:        uuid.New(),
		OwnerID:   owner.ID,
		Type:      dtype,
		Status:    status,
		ScannedAt: time.Now(),
	}
	p.documents.byID[d.ID] = d
	return d
}

func member(username string, roles ...users.Role) users.User {
	return users.User{ID: uuid.New(), Username: username, Roles: roles}
}

func TestApproveAssignsLeastLoadedAuditor(t *testing.T) {
	alice := member("alice", users.RoleEmployee)
	busy := member("busy", users.RoleAuditor)
	idle := member("idle", users.RoleAuditor)

	p := newPipeline(t, alice, busy, idle)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusScanned)

	// an unrelated pending audit loads up the busy auditor
	other := p.seedDocument(alice, documents.TypeReceipt, documents.StatusApproved)
	if _, err := p.audits.Create(context.Background(), nil, other.ID, busy.ID); err != nil {
		t.Fatalf("seed audit: %v", err)
	}

	result, err := p.orchestrator.Approve(context.Background(), doc.ID, "alice")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if result.Document.Status != documents.StatusApproved {
		t.Errorf("document status = %s, expected APPROVED", result.Document.Status)
	}

	if result.Audit == nil {
		t.Fatal("expected an audit task")
	}

	if result.Audit.AssigneeID != idle.ID {
		t.Errorf("audit assigned to the loaded auditor, expected the idle one")
	}

	if result.Audit.Status != audits.StatusPending {
		t.Errorf("audit status = %s, expected PENDING", result.Audit.Status)
	}
}

func TestApproveNotOwner(t *testing.T) {
	alice := member("alice", users.RoleEmployee)
	mallory := member("mallory", users.RoleEmployee)

	p := newPipeline(t, alice, mallory)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusScanned)

	_, err := p.orchestrator.Approve(context.Background(), doc.ID, "mallory")
	if !errors.Is(err, documents.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, received: %v", err)
	}

	if p.documents.byID[doc.ID].Status != documents.StatusScanned {
		t.Error("document status mutated on rejected approval")
	}
}

func TestApproveSelfAuditFastPath(t *testing.T) {
	owner := member("erin", users.RoleEmployee, users.RoleAuditor)
	accountant := member("ana", users.RoleAccountantReceipt)

	p := newPipeline(t, owner, accountant)
	doc := p.seedDocument(owner, documents.TypeReceipt, documents.StatusScanned)

	result, err := p.orchestrator.Approve(context.Background(), doc.ID, "erin")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if result.Document.Status != documents.StatusAudited {
		t.Errorf("document status = %s, expected AUDITED", result.Document.Status)
	}

	if result.Audit != nil {
		t.Error("self-audit must not create an audit task")
	}

	if result.Archive == nil {
		t.Fatal("expected an archive task")
	}

	if result.Archive.AssigneeID != accountant.ID {
		t.Error("archive not assigned to the receipt accountant")
	}

	if len(p.audits.byDocument) != 0 {
		t.Error("audit registry should stay empty on the self-audit path")
	}
}

func TestCompleteAudit(t *testing.T) {
	alice := member("alice", users.RoleEmployee)
	auditor := member("audrey", users.RoleAuditor)
	accountant := member("ana", users.RoleAccountantReceipt)

	p := newPipeline(t, alice, auditor, accountant)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusApproved)
	if _, err := p.audits.Create(context.Background(), nil, doc.ID, auditor.ID); err != nil {
		t.Fatalf("seed audit: %v", err)
	}

	result, err := p.orchestrator.CompleteAudit(context.Background(), doc.ID, "audrey")
	if err != nil {
		t.Fatalf("CompleteAudit: %v", err)
	}

	if result.Audit.Status != audits.StatusDone || result.Audit.AuditedAt == nil {
		t.Errorf("audit not completed: %+v", result.Audit)
	}

	if result.Document.Status != documents.StatusAudited {
		t.Errorf("document status = %s, expected AUDITED", result.Document.Status)
	}

	if result.Archive == nil || result.Archive.AssigneeID != accountant.ID {
		t.Error("expected archive assigned to the receipt accountant")
	}

	if result.Archive.Status != archives.StatusPending {
		t.Errorf("archive status = %s, expected PENDING", result.Archive.Status)
	}
}

func TestCompleteAuditIdempotence(t *testing.T) {
	alice := member("alice", users.RoleEmployee)
	auditor := member("audrey", users.RoleAuditor)
	accountant := member("ana", users.RoleAccountantReceipt)

	p := newPipeline(t, alice, auditor, accountant)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusApproved)
	if _, err := p.audits.Create(context.Background(), nil, doc.ID, auditor.ID); err != nil {
		t.Fatalf("seed audit: %v", err)
	}

	if _, err := p.orchestrator.CompleteAudit(context.Background(), doc.ID, "audrey"); err != nil {
		t.Fatalf("CompleteAudit: %v", err)
	}

	_, err := p.orchestrator.CompleteAudit(context.Background(), doc.ID, "audrey")
	if !errors.Is(err, audits.ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, received: %v", err)
	}

	if len(p.archives.byDocument) != 1 {
		t.Error("repeat completion must not create a second archive")
	}
}

func TestCompleteAuditNotAssignee(t *testing.T) {
	alice := member("alice", users.RoleEmployee)
	auditor := member("audrey", users.RoleAuditor)
	other := member("oscar", users.RoleAuditor)

	p := newPipeline(t, alice, auditor, other)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusApproved)
	if _, err := p.audits.Create(context.Background(), nil, doc.ID, auditor.ID); err != nil {
		t.Fatalf("seed audit: %v", err)
	}

	_, err := p.orchestrator.CompleteAudit(context.Background(), doc.ID, "oscar")
	if !errors.Is(err, audits.ErrNotAssignee) {
		t.Fatalf("expected ErrNotAssignee, received: %v", err)
	}

	if p.audits.byDocument[doc.ID].Status != audits.StatusPending {
		t.Error("audit status mutated on rejected completion")
	}

	if p.documents.byID[doc.ID].Status != documents.StatusApproved {
		t.Error("document status mutated on rejected completion")
	}
}

func TestAdvanceArchiveDirect(t *testing.T) {
	alice := member("alice", users.RoleEmployee)
	accountant := member("ana", users.RoleAccountantReceipt)

	p := newPipeline(t, alice, accountant)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusAudited)
	if _, err := p.archives.Create(context.Background(), nil, doc.ID, accountant.ID); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	result, err := p.orchestrator.AdvanceArchive(context.Background(), doc.ID, archives.StatusDone, "ana")
	if err != nil {
		t.Fatalf("AdvanceArchive: %v", err)
	}

	if result.Archive.Status != archives.StatusDone || result.Archive.ArchivedAt == nil {
		t.Errorf("archive not finalized: %+v", result.Archive)
	}

	if result.Document.Status != documents.StatusArchived {
		t.Errorf("document status = %s, expected ARCHIVED", result.Document.Status)
	}
}

func TestSignatureFlow(t *testing.T) {
	alice := member("alice", users.RoleEmployee)
	accountant := member("ana", users.RoleAccountantReceipt)
	director := member("dana", users.RoleDirector)

	p := newPipeline(t, alice, accountant, director)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusAudited)
	if _, err := p.archives.Create(context.Background(), nil, doc.ID, accountant.ID); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	detour, err := p.orchestrator.AdvanceArchive(context.Background(), doc.ID, archives.StatusAwaitingSignature, "ana")
	if err != nil {
		t.Fatalf("AdvanceArchive to AWAITING_SIGNATURE: %v", err)
	}

	if detour.Archive.Status != archives.StatusAwaitingSignature {
		t.Errorf("archive status = %s, expected AWAITING_SIGNATURE", detour.Archive.Status)
	}

	if detour.Signature == nil || detour.Signature.AssigneeID != director.ID {
		t.Fatal("expected a signature task assigned to the director")
	}

	signed, err := p.orchestrator.Sign(context.Background(), doc.ID, "dana")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if signed.Signature.Status != signatures.StatusDone || signed.Signature.SignedAt == nil {
		t.Errorf("signature not completed: %+v", signed.Signature)
	}

	if signed.Document.Status != documents.StatusSigned {
		t.Errorf("document status = %s, expected SIGNED", signed.Document.Status)
	}

	if signed.Archive.Status != archives.StatusSignedPending {
		t.Errorf("archive status = %s, expected SIGNED_PENDING", signed.Archive.Status)
	}

	final, err := p.orchestrator.AdvanceArchive(context.Background(), doc.ID, archives.StatusDone, "ana")
	if err != nil {
		t.Fatalf("AdvanceArchive to DONE: %v", err)
	}

	if final.Archive.Status != archives.StatusDone {
		t.Errorf("archive status = %s, expected DONE", final.Archive.Status)
	}

	if final.Document.Status != documents.StatusSignedAndArchived {
		t.Errorf("document status = %s, expected SIGNED_AND_ARCHIVED", final.Document.Status)
	}
}

func TestAdvanceArchiveNotAssignee(t *testing.T) {
	alice := member("alice", users.RoleEmployee)
	accountant := member("ana", users.RoleAccountantReceipt)
	other := member("omar", users.RoleAccountantReceipt)

	p := newPipeline(t, alice, accountant, other)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusAudited)
	if _, err := p.archives.Create(context.Background(), nil, doc.ID, accountant.ID); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	_, err := p.orchestrator.AdvanceArchive(context.Background(), doc.ID, archives.StatusDone, "omar")
	if !errors.Is(err, archives.ErrNotAssignee) {
		t.Fatalf("expected ErrNotAssignee, received: %v", err)
	}

	if p.archives.byDocument[doc.ID].Status != archives.StatusPending {
		t.Error("archive status mutated on rejected advance")
	}
}

func TestAdvanceArchiveIllegalTarget(t *testing.T) {
	alice := member("alice", users.RoleEmployee)
	accountant := member("ana", users.RoleAccountantReceipt)

	p := newPipeline(t, alice, accountant)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusAudited)
	if _, err := p.archives.Create(context.Background(), nil, doc.ID, accountant.ID); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	_, err := p.orchestrator.AdvanceArchive(context.Background(), doc.ID, archives.StatusSignedPending, "ana")
	if !errors.Is(err, archives.ErrIllegalStatus) {
		t.Fatalf("expected ErrIllegalStatus, received: %v", err)
	}
}

func TestAdvanceArchiveCannotSkipSignature(t *testing.T) {
	alice := member("alice", users.RoleEmployee)
	accountant := member("ana", users.RoleAccountantReceipt)
	director := member("dana", users.RoleDirector)

	p := newPipeline(t, alice, accountant, director)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusAudited)
	if _, err := p.archives.Create(context.Background(), nil, doc.ID, accountant.ID); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	if _, err := p.orchestrator.AdvanceArchive(context.Background(), doc.ID, archives.StatusAwaitingSignature, "ana"); err != nil {
		t.Fatalf("advance to awaiting signature: %v", err)
	}

	for _, target := range []archives.Status{archives.StatusSignedPending, archives.StatusPending, archives.StatusDone} {
		_, err := p.orchestrator.AdvanceArchive(context.Background(), doc.ID, target, "ana")
		if !errors.Is(err, archives.ErrIllegalStatus) {
			t.Fatalf("target %s: expected ErrIllegalStatus, received: %v", target, err)
		}
	}

	if p.archives.byDocument[doc.ID].Status != archives.StatusAwaitingSignature {
		t.Error("archive status mutated on rejected advance")
	}
	if p.signatures.byDocument[doc.ID].Status != signatures.StatusPending {
		t.Error("signature status mutated on rejected advance")
	}
	if p.documents.byID[doc.ID].Status != documents.StatusAudited {
		t.Error("document status mutated on rejected advance")
	}
}

func TestSignNotAssignee(t *testing.T) {
	alice := member("alice", users.RoleEmployee)
	accountant := member("ana", users.RoleAccountantReceipt)
	director := member("dana", users.RoleDirector)
	impostor := member("ivan", users.RoleDirector)

	p := newPipeline(t, alice, accountant, director, impostor)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusAudited)
	if _, err := p.archives.Create(context.Background(), nil, doc.ID, accountant.ID); err != nil {
		t.Fatalf("seed archive: %v", err)
	}
	if _, err := p.orchestrator.AdvanceArchive(context.Background(), doc.ID, archives.StatusAwaitingSignature, "ana"); err != nil {
		t.Fatalf("AdvanceArchive: %v", err)
	}

	_, err := p.orchestrator.Sign(context.Background(), doc.ID, "ivan")
	if !errors.Is(err, signatures.ErrNotAssignee) {
		t.Fatalf("expected ErrNotAssignee, received: %v", err)
	}

	if p.signatures.byDocument[doc.ID].Status != signatures.StatusPending {
		t.Error("signature status mutated on rejected signing")
	}
}

func TestApproveNoEligibleAuditor(t *testing.T) {
	alice := member("alice", users.RoleEmployee)

	p := newPipeline(t, alice)
	doc := p.seedDocument(alice, documents.TypeReceipt, documents.StatusScanned)

	_, err := p.orchestrator.Approve(context.Background(), doc.ID, "alice")
	if !errors.Is(err, assignment.ErrNoEligibleUser) {
		t.Fatalf("expected ErrNoEligibleUser, received: %v", err)
	}
}
