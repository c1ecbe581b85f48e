package client

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

// paddleConfidence is reported for PaddleOCR output, which exposes no
// page-level score through the CLI wrapper.
const paddleConfidence = 75.0

// PaddleClient wraps the PaddleOCR Python package. It handles dense,
// low-contrast invoice scans better than Tesseract but needs a Python runtime.
type PaddleClient struct {
	modelDir string
	timeout  time.Duration
}

// NewPaddleClient creates a new PaddleOCR client using the English models under modelDir.
func NewPaddleClient(modelDir string, timeout time.Duration) *PaddleClient {
	if modelDir == "" {
		modelDir = "/opt/paddleocr/models/en"
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	log.Printf("PaddleOCR initialized with model dir: %s", modelDir)
	return &PaddleClient{modelDir: modelDir, timeout: timeout}
}

// ExtractTextAndQuality runs PaddleOCR over an encoded image.
func (p *PaddleClient) ExtractTextAndQuality(imageData []byte) (string, float64, error) {
	tempFile, err := os.CreateTemp("", "paddle-ocr-*.img")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(imageData); err != nil {
		tempFile.Close()
		return "", 0, fmt.Errorf("failed to write temp image: %w", err)
	}
	tempFile.Close()

	text, err := p.runPaddleOCR(tempFile.Name())
	if err != nil {
		return "", 0, err
	}
	if strings.TrimSpace(text) == "" {
		return "", 0, fmt.Errorf("PaddleOCR extracted no text from image")
	}
	return text, paddleConfidence, nil
}

// runPaddleOCR executes the PaddleOCR Python package. Each detected text line
// is printed on its own line in reading order.
func (p *PaddleClient) runPaddleOCR(imagePath string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	script := `
import sys
import warnings
warnings.filterwarnings('ignore')
from paddleocr import PaddleOCR

model_dir, image_path = sys.argv[1], sys.argv[2]
ocr = PaddleOCR(
    use_angle_cls=True,
    lang='en',
    det_model_dir=model_dir + '/det',
    rec_model_dir=model_dir + '/rec',
    cls_model_dir=model_dir + '/cls',
    use_gpu=False,
    show_log=False
)

result = ocr.ocr(image_path, cls=True)
if result and result[0]:
    for line in result[0]:
        if line and len(line) > 1:
            print(line[1][0])
`
	cmd := exec.CommandContext(ctx, "python3", "-c", script, p.modelDir, imagePath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("PaddleOCR command failed: %v, stderr: %s", err, stderr.String())
	}
	return stdout.String(), nil
}
