// Package view turns listing records into what the detail page displays.
package view

import (
	"fmt"
	"strings"

	"lostpets/internal/domain"
)

const (
	PlaceholderURL = "https://via.placeholder.com/300x200?text=No+Image"
	PlaceholderAlt = "Нет изображения"
)

// Fallback labels for fields the record leaves empty.
const (
	NoKind        = "Неизвестное животное"
	NoDescription = "Нет описания"
	NoMark        = "Нет информации"
	NoDistrict    = "Не указан"
	NoDate        = "Неизвестно"
	NoPhone       = "Нет телефона"
	NoEmail       = "Нет email"
)

type Photo struct {
	URL string
	Alt string
}

// Listing is the display model of one record.
type Listing struct {
	Photos []Photo
	// Placeholder is set when Photos holds only the no-image picture.
	Placeholder bool

	Kind        string
	Description string
	Mark        string
	District    string
	Date        string
	Phone       string
	Email       string
}

// NewListing projects rec onto the detail layout. Photo paths are appended
// to mediaBase. The result depends only on its inputs.
func NewListing(rec domain.ListingRecord, mediaBase string) Listing {
	v := Listing{
		Kind:        orDefault(rec.Kind, NoKind),
		Description: orDefault(rec.Description, NoDescription),
		Mark:        orDefault(rec.Mark, NoMark),
		District:    orDefault(rec.District, NoDistrict),
		Date:        orDefault(rec.Date, NoDate),
		Phone:       orDefault(rec.Phone, NoPhone),
		Email:       orDefault(rec.Email, NoEmail),
	}

	for _, p := range rec.PhotoPaths() {
		if p == "" {
			continue
		}
		alt := rec.Mark
		if alt == "" {
			alt = fmt.Sprintf("Фото %d", len(v.Photos)+1)
		}
		v.Photos = append(v.Photos, Photo{URL: mediaURL(mediaBase, p), Alt: alt})
	}
	if len(v.Photos) == 0 {
		v.Photos = []Photo{{URL: PlaceholderURL, Alt: PlaceholderAlt}}
		v.Placeholder = true
	}
	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// mediaURL joins base and path with exactly one slash between them.
func mediaURL(base, p string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}
