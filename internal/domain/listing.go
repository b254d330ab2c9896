package domain

import "strings"

// Form field names as posted by the listing form and forwarded to the API.
const (
	FieldName                 = "name"
	FieldPhone                = "phone"
	FieldEmail                = "email"
	FieldDistrict             = "district"
	FieldKind                 = "kind"
	FieldRegister             = "register"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
	FieldMark                 = "mark"
	FieldDescription          = "description"
	FieldPhotos1              = "photos1"
	FieldPhotos2              = "photos2"
	FieldPhotos3              = "photos3"
	FieldConfirm              = "confirm"
)

// PhotoFields lists the photo slots in display and upload order.
var PhotoFields = [3]string{FieldPhotos1, FieldPhotos2, FieldPhotos3}

// Attachment is one uploaded file.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (a Attachment) Empty() bool { return len(a.Data) == 0 }

// ListingDraft is the mutable state of one form session.
type ListingDraft struct {
	Name        string
	Phone       string
	Email       string
	District    string
	Kind        string
	Registering bool

	Password             string
	PasswordConfirmation string

	Mark        string
	Description string

	// Photos holds the file list selected for each slot; only the first
	// file of a slot is used downstream.
	Photos [3][]Attachment

	Consent bool
}

// Set writes a text control's raw value into its field. Unknown names are
// ignored and reported as false.
func (d *ListingDraft) Set(field, value string) bool {
	switch field {
	case FieldName:
		d.Name = value
	case FieldPhone:
		d.Phone = value
	case FieldEmail:
		d.Email = value
	case FieldDistrict:
		d.District = value
	case FieldKind:
		d.Kind = value
	case FieldPassword:
		d.Password = value
	case FieldPasswordConfirmation, "passwordConfirmation":
		d.PasswordConfirmation = value
	case FieldMark:
		d.Mark = value
	case FieldDescription:
		d.Description = value
	case FieldRegister:
		d.SetRegister(value)
	default:
		return false
	}
	return true
}

// SetChecked writes a checkbox control.
func (d *ListingDraft) SetChecked(field string, checked bool) bool {
	if field != FieldConfirm {
		return false
	}
	d.Consent = checked
	return true
}

// SetFiles writes a file control's selection into its photo slot.
func (d *ListingDraft) SetFiles(field string, files []Attachment) bool {
	for i, name := range PhotoFields {
		if name == field {
			d.Photos[i] = files
			return true
		}
	}
	return false
}

// SetRegister applies the auto-registration selector: "1" registers.
func (d *ListingDraft) SetRegister(value string) {
	d.Registering = strings.TrimSpace(value) == "1"
}

// Photo returns the first non-empty file of slot i (0-based).
func (d *ListingDraft) Photo(i int) (Attachment, bool) {
	if i < 0 || i >= len(d.Photos) {
		return Attachment{}, false
	}
	files := d.Photos[i]
	if len(files) == 0 || files[0].Empty() {
		return Attachment{}, false
	}
	return files[0], true
}

// Prefill overwrites the identity fields from a known user and nothing else.
func (d *ListingDraft) Prefill(u User) {
	d.Name = u.Name
	d.Phone = u.Phone
	d.Email = u.Email
}

// ListingRecord is a published listing as returned by the API.
type ListingRecord struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Mark        string `json:"mark"`
	District    string `json:"district"`
	Date        string `json:"date"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Photos1     string `json:"photos1"`
	Photos2     string `json:"photos2"`
	Photos3     string `json:"photos3"`
}

// PhotoPaths returns the three photo references in slot order.
func (r ListingRecord) PhotoPaths() [3]string {
	return [3]string{r.Photos1, r.Photos2, r.Photos3}
}

// FormField is one text part of the creation payload.
type FormField struct {
	Name  string
	Value string
}

// FilePart is one file part of the creation payload.
type FilePart struct {
	Field string
	Attachment
}

// ListingPayload is the multi-part body sent to the create endpoint.
type ListingPayload struct {
	Fields []FormField
	Files  []FilePart
}

// Has reports whether a text part with the given name is present.
func (p ListingPayload) Has(name string) bool {
	_, ok := p.Value(name)
	return ok
}

// Value returns the first text part with the given name.
func (p ListingPayload) Value(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
