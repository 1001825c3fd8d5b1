package reports

import "time"

const DataKey = "reports_data"

// Category del reporte médico.
// @Enum blood-test, scan, prescription, other
type Category string

const (
	CategoryBloodTest    Category = "blood-test"
	CategoryScan         Category = "scan"
	CategoryPrescription Category = "prescription"
	CategoryOther        Category = "other"
)

var Categories = []Category{CategoryBloodTest, CategoryScan, CategoryPrescription, CategoryOther}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Type se deriva del content type del archivo subido.
type Type string

const (
	TypePDF   Type = "PDF"
	TypeImage Type = "Image"
	TypeFile  Type = "File"
)

// Report es un archivo médico subido por el usuario. El contenido vive
// inline (FileData, data URI) o en el blob store (FileKey), nunca ambos.
type Report struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        Type     `json:"type"`
	UploadDate  string   `json:"uploadDate"` // YYYY-MM-DD
	Size        string   `json:"size"`       // legible: "1.2 MB"
	SizeBytes   int64    `json:"sizeBytes"`
	Category    Category `json:"category"`
	ContentType string   `json:"contentType,omitempty"`

	FileData string `json:"fileData,omitempty"`
	FileKey  string `json:"fileKey,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r Report) Key() string { return r.ID }

func (r Report) HasFile() bool { return r.FileData != "" || r.FileKey != "" }
