package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"insurance-faq-be/internal/dto"
	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/internal/pkg/metrics"
	"insurance-faq-be/internal/repository/contract"
	"insurance-faq-be/internal/repository/specification"
	"insurance-faq-be/pkg/embedding"
	"insurance-faq-be/pkg/pdfsplit"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

type IngestDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type IIngestionService interface {
	// Upload stores the PDF, registers the document and queues it for the
	// worker. Returns immediately with the pending document id.
	Upload(ctx context.Context, productID string, file *multipart.FileHeader, saveFile func(*multipart.FileHeader, string) error) (*dto.UploadDocumentResponse, error)
	// Consume starts the background worker that embeds queued documents.
	Consume(ctx context.Context) error
	GetDocuments(ctx context.Context, productID string) ([]*dto.DocumentResponse, error)
}

type ingestionService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	uploadDir string
	products  contract.ProductRepository
	documents contract.DocumentRepository
	chunks    contract.ChunkRepository
	embedder  embedding.EmbeddingProvider
	logger    logger.ILogger
}

func NewIngestionService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uploadDir string,
	products contract.ProductRepository,
	documents contract.DocumentRepository,
	chunks contract.ChunkRepository,
	embedder embedding.EmbeddingProvider,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		pubSub:    pubSub,
		topicName: topicName,
		uploadDir: uploadDir,
		products:  products,
		documents: documents,
		chunks:    chunks,
		embedder:  embedder,
		logger:    log,
	}
}

func (s *ingestionService) Upload(ctx context.Context, productID string, file *multipart.FileHeader, saveFile func(*multipart.FileHeader, string) error) (*dto.UploadDocumentResponse, error) {
	productId, err := uuid.Parse(productID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	product, err := s.products.FindOne(ctx, specification.ByID{ID: productId})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "only PDF files are accepted")
	}

	docId := uuid.New()
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}
	destPath := filepath.Join(s.uploadDir, fmt.Sprintf("%s_%s", docId, filepath.Base(file.Filename)))
	if err := saveFile(file, destPath); err != nil {
		return nil, err
	}

	doc := &entity.PolicyDocument{
		Id:        docId,
		ProductId: productId,
		FileName:  file.Filename,
		FilePath:  destPath,
		Status:    entity.DocumentStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(IngestDocumentMessage{DocumentId: docId})
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		return nil, err
	}

	return &dto.UploadDocumentResponse{
		DocumentID: docId.String(),
		Status:     entity.DocumentStatusPending,
	}, nil
}

func (s *ingestionService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *ingestionService) processMessage(ctx context.Context, msg *message.Message) {
	var payload IngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("ingestion", "malformed queue message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // unparseable messages would retry forever
		return
	}

	if err := s.processDocument(ctx, payload.DocumentId); err != nil {
		s.logger.Error("ingestion", "document processing failed", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
	}
	msg.Ack()
}

func (s *ingestionService) processDocument(ctx context.Context, docId uuid.UUID) error {
	doc, err := s.documents.FindOne(ctx, specification.ByID{ID: docId})
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", docId)
	}

	doc.Status = entity.DocumentStatusProcessing
	if err := s.documents.Update(ctx, doc); err != nil {
		return err
	}

	chunkCount, err := s.indexDocument(ctx, doc)
	if err != nil {
		doc.Status = entity.DocumentStatusFailed
		doc.Error = err.Error()
		if updateErr := s.documents.Update(ctx, doc); updateErr != nil {
			s.logger.Error("ingestion", "status update failed", map[string]interface{}{"error": updateErr.Error()})
		}
		return err
	}

	doc.Status = entity.DocumentStatusCompleted
	doc.ChunkCount = chunkCount
	doc.Error = ""
	metrics.DocumentsIngested.Inc()
	return s.documents.Update(ctx, doc)
}

func (s *ingestionService) indexDocument(ctx context.Context, doc *entity.PolicyDocument) (int, error) {
	product, err := s.products.FindOne(ctx, specification.ByID{ID: doc.ProductId})
	if err != nil {
		return 0, err
	}
	productName := ""
	if product != nil {
		productName = product.Name
	}

	text, err := extractPDFText(doc.FilePath)
	if err != nil {
		return 0, fmt.Errorf("extract text: %w", err)
	}

	parts := pdfsplit.Split(text)
	if len(parts) == 0 {
		return 0, fmt.Errorf("no usable text in %s", doc.FileName)
	}

	vectors, err := embedding.GenerateBatch(s.embedder, parts, embedding.TaskRetrievalDocument)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}

	// Re-ingesting a document replaces its previous chunks.
	if err := s.chunks.DeleteByDocumentId(ctx, doc.Id); err != nil {
		return 0, err
	}

	chunks := make([]*entity.DocumentChunk, len(parts))
	for i, part := range parts {
		chunks[i] = &entity.DocumentChunk{
			Id:          uuid.New(),
			DocumentId:  doc.Id,
			ProductName: productName,
			OriginFile:  doc.FileName,
			Text:        part,
			ChunkIndex:  i,
			WordCount:   len(strings.Fields(part)),
			Embedding:   vectors[i],
			CreatedAt:   time.Now(),
		}
	}
	if err := s.chunks.CreateBulk(ctx, chunks); err != nil {
		return 0, err
	}

	metrics.ChunksIndexed.Add(float64(len(chunks)))
	s.logger.Info("ingestion", "document indexed", map[string]interface{}{
		"document_id": doc.Id.String(),
		"chunks":      len(chunks),
	})
	return len(chunks), nil
}

func (s *ingestionService) GetDocuments(ctx context.Context, productID string) ([]*dto.DocumentResponse, error) {
	specs := []specification.Specification{specification.OrderBy{Column: "created_at", Desc: true}}
	if productID != "" {
		id, err := uuid.Parse(productID)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}
		specs = append(specs, specification.ByProductID{ProductID: id})
	}

	docs, err := s.documents.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, len(docs))
	for i, d := range docs {
		responses[i] = &dto.DocumentResponse{
			Id:         d.Id.String(),
			ProductID:  d.ProductId.String(),
			FileName:   d.FileName,
			Status:     d.Status,
			ChunkCount: d.ChunkCount,
			Error:      d.Error,
			CreatedAt:  d.CreatedAt,
		}
	}
	return responses, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
