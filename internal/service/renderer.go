package service

import (
	"bytes"
	"context"
	"fmt"
	"image/color"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	certificateWidth  = 1200
	certificateHeight = 850
)

// CertificateRenderer turns an issued certificate into a shareable image.
type CertificateRenderer interface {
	Render(ctx context.Context, cert *model.Certificate) ([]byte, error)
}

type pngCertificateRenderer struct {
	issuerName string
}

func NewCertificateRenderer(issuerName string) CertificateRenderer {
	return &pngCertificateRenderer{issuerName: issuerName}
}

func (r *pngCertificateRenderer) Render(ctx context.Context, cert *model.Certificate) ([]byte, error) {
	logger := middleware.GetLogger(ctx)
	if cert == nil {
		return nil, fmt.Errorf("pngCertificateRenderer.Render: nil certificate")
	}

	dc := gg.NewContext(certificateWidth, certificateHeight)
	dc.SetColor(color.NRGBA{R: 0xfb, G: 0xf8, B: 0xf1, A: 0xff})
	dc.Clear()

	// double frame
	dc.SetColor(color.NRGBA{R: 0x1f, G: 0x3a, B: 0x5f, A: 0xff})
	dc.SetLineWidth(12)
	dc.DrawRectangle(30, 30, certificateWidth-60, certificateHeight-60)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(55, 55, certificateWidth-110, certificateHeight-110)
	dc.Stroke()

	dc.SetFontFace(basicfont.Face7x13)
	cx := float64(certificateWidth) / 2

	drawCentered(dc, r.issuerName, cx, 140, 2.5)
	drawCentered(dc, "CERTIFICATE OF COMPLETION", cx, 240, 4.5)
	drawCentered(dc, "This certifies that", cx, 330, 2)
	drawCentered(dc, displayOr(cert.StudentName, cert.StudentID.String()), cx, 400, 4)
	drawCentered(dc, "has successfully completed", cx, 470, 2)
	drawCentered(dc, displayOr(cert.CourseTitle, cert.CourseID.String()), cx, 540, 3.5)
	drawCentered(dc, fmt.Sprintf("Grade: %d / 100", cert.Grade), cx, 610, 2.5)

	dc.SetColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff})
	drawCentered(dc, fmt.Sprintf("Completed %s   Issued %s",
		cert.CompletionDate.UTC().Format("2006-01-02"),
		cert.IssuedAt.UTC().Format("2006-01-02"),
	), cx, 680, 1.6)
	drawCentered(dc, "Certificate ID: "+cert.CertificateID, cx, 730, 1.6)
	drawCentered(dc, "Verification code: "+cert.VerificationCode, cx, 760, 1.6)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		logger.Error("Failed to encode certificate PNG", "error", err, "certificate_id", cert.CertificateID)
		return nil, fmt.Errorf("pngCertificateRenderer.Render: %w", err)
	}
	return buf.Bytes(), nil
}

// drawCentered draws s centred on (x, y) with the bitmap font scaled up.
func drawCentered(dc *gg.Context, s string, x, y, scale float64) {
	dc.Push()
	dc.ScaleAbout(scale, scale, x, y)
	dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
	dc.Pop()
}

func displayOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
