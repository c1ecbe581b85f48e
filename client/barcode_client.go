package client

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// BarcodeClient reads QR and Code 128 symbols printed on invoices. Distributors
// commonly encode the invoice or order number this way.
type BarcodeClient struct {
	readers []gozxing.Reader
}

func NewBarcodeClient() *BarcodeClient {
	return &BarcodeClient{
		readers: []gozxing.Reader{
			qrcode.NewQRCodeReader(),
			oned.NewCode128Reader(),
		},
	}
}

// Scan returns every distinct symbol value found on the image.
func (b *BarcodeClient) Scan(img image.Image) []string {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	var values []string
	seen := make(map[string]bool)
	for _, reader := range b.readers {
		result, err := reader.Decode(bmp, hints)
		if err != nil {
			continue
		}
		text := result.GetText()
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		values = append(values, text)
	}
	return values
}
