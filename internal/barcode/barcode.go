// Package barcode extracts payloads from scanned barcode frames.
package barcode

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Decode returns the barcode payloads readable from an image, or an empty
// list when nothing decodes. Both 1D symbologies (Code128, EAN, UPC) and QR
// codes are tried; a frame usually carries at most one of each.
func Decode(img image.Image) []string {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil
	}

	readers := []gozxing.Reader{
		oned.NewCode128Reader(),
		oned.NewMultiFormatUPCEANReader(nil),
		qrcode.NewQRCodeReader(),
	}

	var payloads []string
	for _, reader := range readers {
		result, err := reader.Decode(bmp, nil)
		if err != nil || result.GetText() == "" {
			continue
		}
		payloads = append(payloads, result.GetText())
	}
	return payloads
}
