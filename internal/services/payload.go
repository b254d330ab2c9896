package services

import "lostpets/internal/domain"

// BuildPayload assembles the creation body from a validated draft. Password
// fields are only sent when the visitor asked to be registered.
func BuildPayload(d *domain.ListingDraft) domain.ListingPayload {
	var p domain.ListingPayload
	add := func(name, value string) {
		p.Fields = append(p.Fields, domain.FormField{Name: name, Value: value})
	}

	add(domain.FieldName, d.Name)
	add(domain.FieldPhone, d.Phone)
	add(domain.FieldEmail, d.Email)
	add(domain.FieldDistrict, d.District)
	add(domain.FieldKind, d.Kind)
	if d.Registering {
		add(domain.FieldPassword, d.Password)
		add(domain.FieldPasswordConfirmation, d.PasswordConfirmation)
	}
	confirm := "0"
	if d.Consent {
		confirm = "1"
	}
	add(domain.FieldConfirm, confirm)
	add(domain.FieldMark, d.Mark)
	add(domain.FieldDescription, d.Description)

	for i, field := range domain.PhotoFields {
		if a, ok := d.Photo(i); ok {
			p.Files = append(p.Files, domain.FilePart{Field: field, Attachment: a})
		}
	}
	return p
}
