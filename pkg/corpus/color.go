package corpus

import "image"

// Channel dominance margin for the color fallback: the winning channel
// must beat each other channel by more than this many levels.
const colorMargin = 30

// classifyByColor samples a square region centered on the image with side
// length min(width,height)/4 and averages its RGB channels. The card type
// whose channel exceeds the threshold and beats both other channels by
// more than the margin wins; candidates are checked red (buster), then
// blue (arts), then green (quick), and that order is the tie-break. An
// image too small to sample or without a dominant channel is Unknown.
func classifyByColor(img image.Image, threshold float64) Category {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	side := min(w, h) / 4
	if side < 1 {
		return Unknown
	}

	cx := bounds.Min.X + w/2
	cy := bounds.Min.Y + h/2
	x0 := max(bounds.Min.X, cx-side/2)
	y0 := max(bounds.Min.Y, cy-side/2)
	x1 := min(bounds.Max.X, x0+side)
	y1 := min(bounds.Max.Y, y0+side)

	var sumR, sumG, sumB float64
	var n int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sumR += float64(r >> 8)
			sumG += float64(g >> 8)
			sumB += float64(b >> 8)
			n++
		}
	}
	if n == 0 {
		return Unknown
	}

	avgR := sumR / float64(n)
	avgG := sumG / float64(n)
	avgB := sumB / float64(n)

	switch {
	case avgR > threshold && avgR > avgG+colorMargin && avgR > avgB+colorMargin:
		return "buster"
	case avgB > threshold && avgB > avgR+colorMargin && avgB > avgG+colorMargin:
		return "arts"
	case avgG > threshold && avgG > avgR+colorMargin && avgG > avgB+colorMargin:
		return "quick"
	}
	return Unknown
}
