package ocr

import (
	"context"
	"fmt"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

// DefaultDocumentAILocation is the multi-region used when none is configured.
const DefaultDocumentAILocation = "us"

// DocumentProcessor is the part of the Document AI client the engine calls.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
}

// DocumentAIEngine implements Engine with a Document AI OCR processor.
type DocumentAIEngine struct {
	client    DocumentProcessor
	closer    func() error
	processor string
}

// NewDocumentAIEngine creates a Document AI client for the configured processor.
// Credentials are resolved the same way as for NewVisionEngine.
func NewDocumentAIEngine(ctx context.Context, cfg Config) (*DocumentAIEngine, error) {
	const op = "NewDocumentAIEngine"

	if cfg.DocumentAIProject == "" || cfg.DocumentAIProcessor == "" {
		return nil, WrapOCRError(op, ErrInvalidConfiguration, "DOCUMENTAI_PROJECT_ID and DOCUMENTAI_PROCESSOR_ID are required")
	}
	location := cfg.DocumentAILocation
	if location == "" {
		location = DefaultDocumentAILocation
	}

	var opts []option.ClientOption
	if location != DefaultDocumentAILocation {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", location)))
	}
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	} else if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		if cfg.CredentialsJSON == "" && cfg.CredentialsFile == "" {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", location))
	}

	engine := NewDocumentAIEngineWithClient(client, ProcessorName(cfg.DocumentAIProject, location, cfg.DocumentAIProcessor))
	engine.closer = client.Close
	return engine, nil
}

// NewDocumentAIEngineWithClient creates an engine around an existing client.
func NewDocumentAIEngineWithClient(client DocumentProcessor, processor string) *DocumentAIEngine {
	return &DocumentAIEngine{client: client, processor: processor}
}

// ProcessorName builds the resource name of a Document AI processor.
func ProcessorName(project, location, processor string) string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", project, location, processor)
}

func (d *DocumentAIEngine) Name() string { return EngineDocumentAI }

// Recognize sends one PNG to the processor and returns the document text.
func (d *DocumentAIEngine) Recognize(ctx context.Context, in Input) (string, error) {
	const op = "Recognize"

	resp, err := d.client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: d.processor,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  in.Image,
				MimeType: "image/png",
			},
		},
	})
	if err != nil {
		return "", d.handleProcessingError(op, err)
	}
	if resp.GetDocument() == nil {
		return "", WrapOCRError(op, ErrOCRFailed, "no document in response")
	}
	return resp.GetDocument().GetText(), nil
}

// handleProcessingError keeps context errors matchable and folds the rest into ErrOCRFailed.
func (d *DocumentAIEngine) handleProcessingError(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "context deadline exceeded") || strings.Contains(errStr, "DeadlineExceeded"):
		return WrapOCRError(op, context.DeadlineExceeded, "processing timeout")
	case strings.Contains(errStr, "context canceled") || strings.Contains(errStr, "Canceled"):
		return WrapOCRError(op, ErrContextCanceled, "processing was canceled")
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapOCRError(op, ErrInvalidConfiguration, fmt.Sprintf("processor not found: %s", d.processor))
	default:
		return WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// Close closes the underlying client when the engine owns one.
func (d *DocumentAIEngine) Close() error {
	if d.closer != nil {
		return d.closer()
	}
	return nil
}
