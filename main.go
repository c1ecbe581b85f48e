package main

import (
	"context"
	"log"

	"github.com/Aashish23092/food-procurement-ocr/client"
	"github.com/Aashish23092/food-procurement-ocr/config"
	"github.com/Aashish23092/food-procurement-ocr/handler"
	"github.com/Aashish23092/food-procurement-ocr/service"
)

func main() {
	ctx := context.Background()

	// Initialize configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Println("TESSDATA_PREFIX set to:", cfg.TesseractDataPath)

	// Fail fast on a missing food index; it is re-read for every batch.
	if _, err := service.LoadFoodIndex(cfg.FoodIndexPath); err != nil {
		log.Fatalf("Failed to load food index: %v", err)
	}
	loadIndex := func() (*service.FoodIndex, error) {
		return service.LoadFoodIndex(cfg.FoodIndexPath)
	}

	// OCR engines, in the order they are tried
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, "eng")
	defer tesseractClient.Close()
	var ocrEngines []service.OCREngine
	if cfg.PaddleOCREnabled {
		ocrEngines = append(ocrEngines, client.NewPaddleClient(cfg.PaddleModelDir, cfg.LLMTimeout))
	}
	ocrEngines = append(ocrEngines, tesseractClient)

	textExtractor := service.NewTextExtractor(service.NewPDFProcessor(), client.NewBarcodeClient(), ocrEngines...)

	// Extraction model
	var generator service.Generator
	switch cfg.LLMProvider {
	case config.ProviderVertex:
		vertexClient, err := client.NewVertexClient(ctx, cfg.GCPProject, cfg.VertexRegion, cfg.VertexModel, int32(cfg.LLMMaxTokens))
		if err != nil {
			log.Fatalf("Failed to create Vertex AI client: %v", err)
		}
		defer vertexClient.Close()
		generator = vertexClient
	default:
		generator = client.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, int64(cfg.LLMMaxTokens))
	}
	log.Printf("Using %s for extraction", cfg.LLMProvider)

	// Storage
	storageClient, err := client.NewStorageClient(ctx, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}
	defer storageClient.Close()

	var rowStore service.RowStore
	if cfg.GCPProject != "" {
		firestoreClient, err := client.NewFirestoreClient(ctx, cfg.GCPProject, cfg.FirestoreCollection)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()
		rowStore = firestoreClient
	} else {
		log.Println("Warning: GCP_PROJECT not set, purchase history is disabled")
	}

	// Initialize service layer
	downloader := client.NewDownloader(cfg.DownloadTimeout, cfg.DownloadMaxRetries, cfg.MaxFileSize)
	extractionClient := service.NewExtractionClient(generator, cfg.LLMMaxAttempts, cfg.LLMTimeout)
	batchProcessor := service.NewBatchProcessor(downloader, textExtractor, extractionClient, cfg.MaxChunkSize, cfg.MaxWorkers)

	invoiceService := service.NewInvoiceService(batchProcessor, loadIndex, storageClient, rowStore, service.NewExportService(), cfg.ExportXLSX)
	csvService := service.NewCSVService(storageClient)
	purchaseService := service.NewPurchaseService(rowStore)

	// Initialize handler layer
	router := handler.NewRouter(
		handler.NewInvoiceHandler(invoiceService),
		handler.NewCSVHandler(csvService),
		handler.NewPurchaseHandler(purchaseService, loadIndex),
	)

	// Start server
	log.Printf("Starting Food Procurement Invoice Extraction Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
