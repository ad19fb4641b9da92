package service

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// capture is the metadata pulled from a photo's EXIF block. All fields are
// optional; phones routinely strip one or both.
type capture struct {
	takenAt *time.Time
	lat     *float64
	lng     *float64
}

// extractCapture reads EXIF capture time and GPS position from image bytes.
// Anything unparseable yields an empty capture, never an error; metadata is
// a bonus, not a requirement for accepting the upload.
func extractCapture(data []byte) capture {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return capture{}
	}

	var c capture
	if takenAt, err := x.DateTime(); err == nil {
		utc := takenAt.UTC()
		c.takenAt = &utc
	}
	if lat, lng, err := x.LatLong(); err == nil {
		c.lat = &lat
		c.lng = &lng
	}
	return c
}
