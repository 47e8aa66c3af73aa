package documents_test

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/JaimeStill/reception-registry/internal/bindings"
	"github.com/JaimeStill/reception-registry/internal/documents"
	"github.com/JaimeStill/reception-registry/internal/parties"
	"github.com/JaimeStill/reception-registry/internal/qrcodes"
	"github.com/JaimeStill/reception-registry/pkg/lifecycle"
	"github.com/JaimeStill/reception-registry/pkg/pagination"
	"github.com/JaimeStill/reception-registry/pkg/storage"
)

var pageCfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func decodeQR(t *testing.T, data []byte) string {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		t.Fatalf("bitmap: %v", err)
	}
	result, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		t.Fatalf("decode qr: %v", err)
	}
	return result.GetText()
}

// denyStore fails every write while reads pass through.
type denyStore struct {
	storage.System
}

func (denyStore) Store(context.Context, string, []byte) error {
	return storage.ErrPermissionDenied
}

// retypingParties changes a party's type as soon as a position is resolved,
// between binding resolution and the binding write.
type retypingParties struct {
	parties.System
	target uuid.UUID
	to     parties.Type
}

func (r retypingParties) FindPosition(ctx context.Context, id uuid.UUID) (*parties.Position, error) {
	pos, err := r.System.FindPosition(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := r.System.Find(ctx, r.target)
	if err != nil {
		return nil, err
	}
	if _, err := r.System.Update(ctx, r.target, parties.UpdateCommand{Name: p.Name, Type: r.to}); err != nil {
		return nil, err
	}
	return pos, nil
}

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	dir     string
	store   storage.System
	docs    *documents.Memory
	parties *parties.Memory
	metrics *documents.Metrics
	sys     documents.System
	memo    documents.DocumentType

	orgA    *parties.Party
	personB *parties.Party
	personC *parties.Party
	analyst *parties.Position
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.dir = s.T().TempDir()

	cfg := &storage.Config{BasePath: s.dir}
	s.Require().NoError(cfg.Finalize(nil))
	store, err := storage.New(cfg, testLogger())
	s.Require().NoError(err)
	lc := lifecycle.New()
	s.Require().NoError(store.Start(lc))
	lc.WaitForStartup()
	s.store = store

	s.docs = documents.NewMemory(pageCfg)
	s.parties = parties.NewMemory(s.docs, pageCfg)
	s.docs.SetParties(s.parties)
	s.metrics = documents.NewMetrics(prometheus.NewRegistry())
	s.sys = s.build(s.store)

	memo, err := s.sys.CreateType(s.ctx, documents.CreateTypeCommand{Name: "Memo", Acronym: "MEM"})
	s.Require().NoError(err)
	s.memo = *memo

	s.orgA = s.party("OrgA", parties.Organization)
	s.personB = s.party("PersonB", parties.Individual)
	s.personC = s.party("PersonC", parties.Individual)

	s.analyst, err = s.parties.CreatePosition(s.ctx, parties.CreatePositionCommand{Name: "Analyst"})
	s.Require().NoError(err)
}

func (s *ServiceSuite) build(store storage.System) documents.System {
	gen := qrcodes.New(s.docs, store, qrcodes.Config{Scale: 4}, testLogger(), nil)
	return documents.New(s.docs, s.parties, gen, testLogger(), s.metrics)
}

func (s *ServiceSuite) party(name string, t parties.Type) *parties.Party {
	p, err := s.parties.Create(s.ctx, parties.CreateCommand{Name: name, Type: t})
	s.Require().NoError(err)
	return p
}

func (s *ServiceSuite) create(identifier string) *documents.Document {
	result, err := s.sys.Create(s.ctx, documents.CreateCommand{
		TypeID:     s.memo.ID,
		Identifier: ptr(identifier),
		Reference:  "Budget request",
		ReceivedAt: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.Require().Empty(result.Warning)
	return result.Document
}

func (s *ServiceSuite) artifact(id uuid.UUID) string {
	data, err := s.sys.Artifact(s.ctx, id)
	s.Require().NoError(err)
	return decodeQR(s.T(), data)
}

func (s *ServiceSuite) TestCreate_WritesArtifactAndSender() {
	doc := s.create("M-001")

	s.Require().NotNil(doc.QRArtifact)
	s.Equal("qr_codes/qr_documento_"+doc.ID.String()+".png", *doc.QRArtifact)

	_, err := os.Stat(filepath.Join(s.dir, *doc.QRArtifact))
	s.NoError(err)
	s.Contains(s.artifact(doc.ID), "M-001")

	b, err := s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{
		PartyID: s.orgA.ID,
		Role:    bindings.Sender,
	})
	s.Require().NoError(err)
	s.Equal("OrgA", b.PartyName)

	found, err := s.sys.Find(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Len(found.Bindings, 1)
	s.Equal("OrgA", found.Senders)
}

func (s *ServiceSuite) TestAddBinding_RecipientMissingBothFields() {
	doc := s.create("M-001")

	_, err := s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{
		PartyID: s.personB.ID,
		Role:    bindings.Recipient,
	})
	s.Require().ErrorIs(err, bindings.ErrMissingRequiredAttribute)

	var ve *bindings.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.ElementsMatch([]string{bindings.FieldPosition, bindings.FieldSupervisingOrganization}, ve.Fields)

	bs, err := s.sys.Bindings(s.ctx, doc.ID, nil)
	s.Require().NoError(err)
	s.Empty(bs)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.BindingRejections.WithLabelValues("missing_required_attribute")))
}

func (s *ServiceSuite) TestAddBinding_SupervisorMustBeOrganization() {
	doc := s.create("M-001")

	_, err := s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{
		PartyID:                   s.personB.ID,
		Role:                      bindings.Recipient,
		PositionID:                &s.analyst.ID,
		SupervisingOrganizationID: &s.personC.ID,
	})
	s.ErrorIs(err, bindings.ErrInvalidReference)
	s.NotErrorIs(err, bindings.ErrMissingRequiredAttribute)
}

func (s *ServiceSuite) TestAddBinding_ValidRecipient() {
	doc := s.create("M-001")

	b, err := s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{
		PartyID:                   s.personB.ID,
		Role:                      bindings.Recipient,
		PositionID:                &s.analyst.ID,
		SupervisingOrganizationID: &s.orgA.ID,
	})
	s.Require().NoError(err)
	s.Equal(bindings.Recipient, b.Role)

	role := bindings.Recipient
	bs, err := s.sys.Bindings(s.ctx, doc.ID, &role)
	s.Require().NoError(err)
	s.Len(bs, 1)

	found, err := s.sys.Find(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Empty(found.Senders)
}

func (s *ServiceSuite) TestAddBinding_OrganizationWithPosition() {
	doc := s.create("M-001")

	_, err := s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{
		PartyID:    s.orgA.ID,
		Role:       bindings.Recipient,
		PositionID: &s.analyst.ID,
	})
	s.ErrorIs(err, bindings.ErrExtraneousAttribute)
}

func (s *ServiceSuite) TestAddBinding_TypeChangedBeforeWrite() {
	doc := s.create("M-001")

	racing := retypingParties{System: s.parties, target: s.personB.ID, to: parties.Organization}
	gen := qrcodes.New(s.docs, s.store, qrcodes.Config{Scale: 4}, testLogger(), nil)
	sys := documents.New(s.docs, racing, gen, testLogger(), s.metrics)

	_, err := sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{
		PartyID:                   s.personB.ID,
		Role:                      bindings.Recipient,
		PositionID:                &s.analyst.ID,
		SupervisingOrganizationID: &s.orgA.ID,
	})
	s.Require().ErrorIs(err, bindings.ErrExtraneousAttribute)

	bs, err := s.sys.Bindings(s.ctx, doc.ID, nil)
	s.Require().NoError(err)
	s.Empty(bs)

	p, err := s.parties.Find(s.ctx, s.personB.ID)
	s.Require().NoError(err)
	s.Equal(parties.Organization, p.Type)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.BindingRejections.WithLabelValues("extraneous_attribute")))
}

func (s *ServiceSuite) TestUpdateParty_TypeLockedOnceBound() {
	doc := s.create("M-001")
	_, err := s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{PartyID: s.personB.ID, Role: bindings.Sender})
	s.Require().NoError(err)

	_, err = s.parties.Update(s.ctx, s.personB.ID, parties.UpdateCommand{Name: "PersonB", Type: parties.Organization})
	s.ErrorIs(err, parties.ErrTypeLocked)
}

func (s *ServiceSuite) TestAddBinding_UnresolvedReferences() {
	doc := s.create("M-001")

	_, err := s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{
		PartyID: uuid.New(),
		Role:    bindings.Sender,
	})
	s.ErrorIs(err, parties.ErrNotFound)

	_, err = s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{
		PartyID:    s.personB.ID,
		Role:       bindings.Recipient,
		PositionID: ptr(uuid.New()),
	})
	s.ErrorIs(err, parties.ErrPositionNotFound)

	_, err = s.sys.AddBinding(s.ctx, uuid.New(), documents.BindingCommand{
		PartyID: s.orgA.ID,
		Role:    bindings.Sender,
	})
	s.ErrorIs(err, documents.ErrNotFound)

	_, err = s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{PartyID: s.orgA.ID})
	s.ErrorIs(err, documents.ErrInvalidBinding)
}

func (s *ServiceSuite) TestUpdate_ReplacesArtifact() {
	doc := s.create("M-001")
	before := doc.UpdatedAt

	result, err := s.sys.Update(s.ctx, doc.ID, documents.UpdateCommand{
		TypeID:     s.memo.ID,
		Identifier: ptr("M-002"),
		Reference:  "Budget request",
		ReceivedAt: doc.ReceivedAt,
	})
	s.Require().NoError(err)
	s.Empty(result.Warning)
	s.True(result.Document.UpdatedAt.After(before))

	payload := s.artifact(doc.ID)
	s.Contains(payload, "M-002")
	s.NotContains(payload, "M-001")

	entries, err := os.ReadDir(filepath.Join(s.dir, "qr_codes"))
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *ServiceSuite) TestUpdate_UnknownDocument() {
	_, err := s.sys.Update(s.ctx, uuid.New(), documents.UpdateCommand{
		TypeID:     s.memo.ID,
		Reference:  "x",
		ReceivedAt: time.Now(),
	})
	s.ErrorIs(err, documents.ErrNotFound)
}

func (s *ServiceSuite) TestCreate_InvalidFields() {
	_, err := s.sys.Create(s.ctx, documents.CreateCommand{
		TypeID:     s.memo.ID,
		Reference:  "  ",
		ReceivedAt: time.Now(),
	})
	s.ErrorIs(err, documents.ErrInvalidDocument)

	_, err = s.sys.Create(s.ctx, documents.CreateCommand{
		TypeID:       s.memo.ID,
		Reference:    "x",
		ReceivedAt:   time.Now(),
		ExternalLink: ptr("ftp://example.com/doc"),
	})
	s.ErrorIs(err, documents.ErrInvalidDocument)

	_, err = s.sys.Create(s.ctx, documents.CreateCommand{
		TypeID:     uuid.New(),
		Reference:  "x",
		ReceivedAt: time.Now(),
	})
	s.ErrorIs(err, documents.ErrTypeNotFound)
}

func (s *ServiceSuite) TestCreate_StorageFailureKeepsDocument() {
	sys := s.build(denyStore{s.store})

	result, err := sys.Create(s.ctx, documents.CreateCommand{
		TypeID:     s.memo.ID,
		Reference:  "Budget request",
		ReceivedAt: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.NotEmpty(result.Warning)
	s.Nil(result.Document.QRArtifact)

	_, err = sys.Find(s.ctx, result.Document.ID)
	s.NoError(err)

	_, err = sys.RefreshArtifact(s.ctx, result.Document.ID)
	s.ErrorIs(err, qrcodes.ErrArtifactWrite)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.Saves.WithLabelValues("create", "warning")))
}

func (s *ServiceSuite) TestUpdate_StorageFailureKeepsPreviousArtifact() {
	doc := s.create("M-001")
	s.Require().NotNil(doc.QRArtifact)
	previous := *doc.QRArtifact

	sys := s.build(denyStore{s.store})
	result, err := sys.Update(s.ctx, doc.ID, documents.UpdateCommand{
		TypeID:     s.memo.ID,
		Identifier: ptr("M-002"),
		Reference:  "Budget request",
		ReceivedAt: doc.ReceivedAt,
	})
	s.Require().NoError(err)
	s.NotEmpty(result.Warning)
	s.Equal("M-002", *result.Document.Identifier)

	found, err := s.sys.Find(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.QRArtifact)
	s.Equal(previous, *found.QRArtifact)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Saves.WithLabelValues("update", "warning")))
}

func (s *ServiceSuite) TestArtifact_RegeneratesMissingFile() {
	doc := s.create("M-001")
	s.Require().NoError(os.Remove(filepath.Join(s.dir, *doc.QRArtifact)))

	s.Contains(s.artifact(doc.ID), "M-001")
}

func (s *ServiceSuite) TestDelete_RemovesBindingsAndArtifact() {
	doc := s.create("M-001")
	_, err := s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{PartyID: s.orgA.ID, Role: bindings.Sender})
	s.Require().NoError(err)

	s.ErrorIs(s.parties.Delete(s.ctx, s.orgA.ID), parties.ErrReferenced)

	s.Require().NoError(s.sys.Delete(s.ctx, doc.ID))

	_, err = s.sys.Find(s.ctx, doc.ID)
	s.ErrorIs(err, documents.ErrNotFound)

	_, err = os.Stat(filepath.Join(s.dir, *doc.QRArtifact))
	s.True(os.IsNotExist(err))

	s.NoError(s.parties.Delete(s.ctx, s.orgA.ID))
}

func (s *ServiceSuite) TestRemoveBinding() {
	doc := s.create("M-001")
	b, err := s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{PartyID: s.orgA.ID, Role: bindings.Sender})
	s.Require().NoError(err)

	s.Require().NoError(s.sys.RemoveBinding(s.ctx, doc.ID, b.ID))
	s.ErrorIs(s.sys.RemoveBinding(s.ctx, doc.ID, b.ID), documents.ErrBindingNotFound)

	found, err := s.sys.Find(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Empty(found.Bindings)
	s.True(found.UpdatedAt.After(doc.UpdatedAt))
}

func (s *ServiceSuite) TestSenders_JoinedInOrder() {
	doc := s.create("M-001")
	orgD := s.party("OrgD", parties.Organization)

	for _, id := range []uuid.UUID{s.orgA.ID, s.personB.ID, orgD.ID} {
		_, err := s.sys.AddBinding(s.ctx, doc.ID, documents.BindingCommand{PartyID: id, Role: bindings.Sender})
		s.Require().NoError(err)
	}

	found, err := s.sys.Find(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal("OrgA, PersonB, OrgD", found.Senders)
}

func (s *ServiceSuite) TestLabel_ReturnsPDF() {
	doc := s.create("M-001")

	data, err := s.sys.Label(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.True(bytes.HasPrefix(data, []byte("%PDF")))

	_, err = s.sys.Label(s.ctx, uuid.New())
	s.ErrorIs(err, documents.ErrNotFound)
}

func (s *ServiceSuite) TestCreateType_RequiresName() {
	_, err := s.sys.CreateType(s.ctx, documents.CreateTypeCommand{Name: " "})
	s.ErrorIs(err, documents.ErrInvalidDocument)

	_, err = s.sys.CreateType(s.ctx, documents.CreateTypeCommand{Name: "Memo"})
	s.ErrorIs(err, documents.ErrDuplicate)
}
