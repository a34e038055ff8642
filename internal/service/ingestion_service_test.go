package service

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"testing"
	"time"

	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/internal/repository/contract"
	"insurance-faq-be/internal/repository/specification"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error { return nil }
func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error { return nil }
func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }

func (f *fakeProductRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return f.products[byID.ID], nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var all []*entity.Product
	for _, p := range f.products {
		all = append(all, p)
	}
	return all, nil
}

func (f *fakeProductRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.products)), nil
}

type fakeDocumentRepo struct {
	docs map[uuid.UUID]*entity.PolicyDocument
}

func (f *fakeDocumentRepo) Create(ctx context.Context, doc *entity.PolicyDocument) error {
	if f.docs == nil {
		f.docs = make(map[uuid.UUID]*entity.PolicyDocument)
	}
	f.docs[doc.Id] = doc
	return nil
}

func (f *fakeDocumentRepo) Update(ctx context.Context, doc *entity.PolicyDocument) error {
	f.docs[doc.Id] = doc
	return nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PolicyDocument, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return f.docs[byID.ID], nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyDocument, error) {
	var all []*entity.PolicyDocument
	for _, d := range f.docs {
		all = append(all, d)
	}
	return all, nil
}

type fakeChunkRepo struct {
	created []*entity.DocumentChunk
	deletes int
}

func (f *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	f.created = append(f.created, chunks...)
	return nil
}

func (f *fakeChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	f.deletes++
	return nil
}

func (f *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.created)), nil
}

func (f *fakeChunkRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int, productName string) ([]*contract.ScoredChunk, error) {
	return nil, nil
}

func newIngestionFixture(t *testing.T) (IIngestionService, *gochannel.GoChannel, *fakeProductRepo, *fakeDocumentRepo) {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	productId := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	products := &fakeProductRepo{products: map[uuid.UUID]*entity.Product{
		productId: {Id: productId, Name: "Health Shield", Active: true},
	}}
	documents := &fakeDocumentRepo{}

	svc := NewIngestionService(
		pubSub,
		"INGEST_POLICY_PDF",
		t.TempDir(),
		products,
		documents,
		&fakeChunkRepo{},
		&fakeEmbedder{},
		logger.NewNop(),
	)
	return svc, pubSub, products, documents
}

func pdfHeader(filename string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: filename, Size: 1024}
}

func TestUploadRejectsInvalidProductID(t *testing.T) {
	svc, _, _, _ := newIngestionFixture(t)

	_, err := svc.Upload(context.Background(), "not-a-uuid", pdfHeader("policy.pdf"), nil)
	assert.Error(t, err)
}

func TestUploadRejectsUnknownProduct(t *testing.T) {
	svc, _, _, _ := newIngestionFixture(t)

	_, err := svc.Upload(context.Background(), uuid.New().String(), pdfHeader("policy.pdf"), nil)
	assert.Error(t, err)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	svc, _, _, _ := newIngestionFixture(t)

	_, err := svc.Upload(context.Background(), "11111111-1111-1111-1111-111111111111", pdfHeader("policy.docx"), nil)
	assert.Error(t, err)
}

func TestUploadRegistersPendingDocumentAndQueuesIt(t *testing.T) {
	svc, pubSub, _, documents := newIngestionFixture(t)

	messages, err := pubSub.Subscribe(context.Background(), "INGEST_POLICY_PDF")
	require.NoError(t, err)

	var savedTo string
	saveFile := func(file *multipart.FileHeader, dest string) error {
		savedTo = dest
		return nil
	}

	res, err := svc.Upload(context.Background(), "11111111-1111-1111-1111-111111111111", pdfHeader("Policy Wording.PDF"), saveFile)

	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusPending, res.Status)
	assert.NotEmpty(t, savedTo)
	assert.Contains(t, savedTo, res.DocumentID)

	docId := uuid.MustParse(res.DocumentID)
	stored := documents.docs[docId]
	require.NotNil(t, stored)
	assert.Equal(t, entity.DocumentStatusPending, stored.Status)
	assert.Equal(t, "Policy Wording.PDF", stored.FileName)

	select {
	case msg := <-messages:
		var payload IngestDocumentMessage
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, docId, payload.DocumentId)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no ingestion message published")
	}
}

func TestGetDocumentsRejectsInvalidProductID(t *testing.T) {
	svc, _, _, _ := newIngestionFixture(t)

	_, err := svc.GetDocuments(context.Background(), "nope")
	assert.Error(t, err)
}

func TestGetDocumentsListsAll(t *testing.T) {
	svc, _, _, documents := newIngestionFixture(t)
	docId := uuid.New()
	documents.docs = map[uuid.UUID]*entity.PolicyDocument{
		docId: {
			Id:         docId,
			ProductId:  uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			FileName:   "policy.pdf",
			Status:     entity.DocumentStatusCompleted,
			ChunkCount: 7,
		},
	}

	res, err := svc.GetDocuments(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "policy.pdf", res[0].FileName)
	assert.Equal(t, 7, res[0].ChunkCount)
}
