package certificate

import (
	"bytes"
	"fmt"
	"image/png"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	certWidth  = 1200
	certHeight = 850
)

func fontFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// renderPNG draws the certificate image. Layout is intentionally simple:
// a bordered canvas, recipient name, course title, score and award date.
func renderPNG(recipientName, courseTitle string, score, outOf int, awardedAt time.Time) ([]byte, error) {
	dc := gg.NewContext(certWidth, certHeight)

	dc.SetHexColor("#fdfbf7")
	dc.Clear()

	dc.SetHexColor("#1f3a5f")
	dc.SetLineWidth(6)
	dc.DrawRectangle(30, 30, certWidth-60, certHeight-60)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(44, 44, certWidth-88, certHeight-88)
	dc.Stroke()

	titleFace, err := fontFace(54)
	if err != nil {
		return nil, err
	}
	nameFace, err := fontFace(64)
	if err != nil {
		return nil, err
	}
	bodyFace, err := fontFace(30)
	if err != nil {
		return nil, err
	}
	smallFace, err := fontFace(22)
	if err != nil {
		return nil, err
	}

	cx := float64(certWidth) / 2

	dc.SetFontFace(titleFace)
	dc.SetHexColor("#1f3a5f")
	dc.DrawStringAnchored("Certificate of Completion", cx, 170, 0.5, 0.5)

	dc.SetFontFace(bodyFace)
	dc.SetHexColor("#444444")
	dc.DrawStringAnchored("This certifies that", cx, 280, 0.5, 0.5)

	dc.SetFontFace(nameFace)
	dc.SetHexColor("#0b1f33")
	dc.DrawStringAnchored(recipientName, cx, 370, 0.5, 0.5)

	dc.SetFontFace(bodyFace)
	dc.SetHexColor("#444444")
	dc.DrawStringAnchored("has successfully completed the course", cx, 460, 0.5, 0.5)

	dc.SetHexColor("#1f3a5f")
	dc.DrawStringAnchored(courseTitle, cx, 530, 0.5, 0.5)

	dc.SetHexColor("#444444")
	dc.DrawStringAnchored(fmt.Sprintf("with a score of %d out of %d", score, outOf), cx, 610, 0.5, 0.5)

	dc.SetFontFace(smallFace)
	dc.SetHexColor("#777777")
	dc.DrawStringAnchored("Awarded on "+awardedAt.Format("January 2, 2006"), cx, 710, 0.5, 0.5)

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode certificate png: %w", err)
	}
	return buf.Bytes(), nil
}
