package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"lostpets/internal/domain"
)

func TestBuildPayloadFieldOrder(t *testing.T) {
	d := &domain.ListingDraft{
		Name: "Иван", Phone: "+7999", Email: "i@x.ru", District: "Северный", Kind: "собака",
		Mark: "ВАС-1", Description: "белая", Consent: false,
	}
	d.SetFiles(domain.FieldPhotos1, []domain.Attachment{{Filename: "1.jpg", Data: []byte("1")}, {Filename: "extra.jpg", Data: []byte("x")}})
	d.SetFiles(domain.FieldPhotos3, []domain.Attachment{{Filename: "3.jpg", Data: []byte("3")}})

	p := BuildPayload(d)
	want := []domain.FormField{
		{Name: "name", Value: "Иван"},
		{Name: "phone", Value: "+7999"},
		{Name: "email", Value: "i@x.ru"},
		{Name: "district", Value: "Северный"},
		{Name: "kind", Value: "собака"},
		{Name: "confirm", Value: "0"},
		{Name: "mark", Value: "ВАС-1"},
		{Name: "description", Value: "белая"},
	}
	if diff := cmp.Diff(want, p.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	var got []string
	for _, f := range p.Files {
		got = append(got, f.Field+"="+f.Filename)
	}
	if diff := cmp.Diff([]string{"photos1=1.jpg", "photos3=3.jpg"}, got); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPayloadRegistering(t *testing.T) {
	d := &domain.ListingDraft{Registering: true, Password: "Abcdef1", PasswordConfirmation: "Abcdef1", Consent: true}
	p := BuildPayload(d)
	var names []string
	for _, f := range p.Fields {
		names = append(names, f.Name)
	}
	want := []string{"name", "phone", "email", "district", "kind", "password", "password_confirmation", "confirm", "mark", "description"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field names mismatch (-want +got):\n%s", diff)
	}
	if v, _ := p.Value("confirm"); v != "1" {
		t.Fatalf("confirm: got %q", v)
	}
}
