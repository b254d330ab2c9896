package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lostpets/internal/domain"
)

var textFields = []string{
	domain.FieldName,
	domain.FieldPhone,
	domain.FieldEmail,
	domain.FieldDistrict,
	domain.FieldKind,
	domain.FieldRegister,
	domain.FieldPassword,
	domain.FieldPasswordConfirmation,
	domain.FieldMark,
	domain.FieldDescription,
}

// bindDraft rebuilds the draft from a posted form, one control per field.
func bindDraft(c *fiber.Ctx) (*domain.ListingDraft, error) {
	d := &domain.ListingDraft{}
	for _, f := range textFields {
		d.Set(f, c.FormValue(f))
	}
	d.SetChecked(domain.FieldConfirm, checked(c.FormValue(domain.FieldConfirm)))

	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	if !strings.HasPrefix(ct, fiber.MIMEMultipartForm) {
		return d, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("read multipart form: %w", err)
	}
	for _, field := range domain.PhotoFields {
		files, err := readFiles(form.File[field])
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", field, err)
		}
		d.SetFiles(field, files)
	}
	return d, nil
}

func readFiles(headers []*multipart.FileHeader) ([]domain.Attachment, error) {
	var out []domain.Attachment
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Attachment{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return out, nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "1", "true", "yes":
		return true
	}
	return false
}
